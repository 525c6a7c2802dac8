package config

import (
	"context"
)

// Loader is the interface for a format-specific definitions loader.
type Loader interface {
	// Load reads every definition file found under paths and merges them
	// into one Definitions value.
	Load(ctx context.Context, paths ...string) (*Definitions, error)
}
