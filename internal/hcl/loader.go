package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/scripthub/internal/config"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL definitions loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found under paths. Any block may appear in any
// file; the results are merged in discovery order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Definitions, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	defs := &config.Definitions{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		part, err := translate(ctx, &root)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		defs.Merge(part)
	}

	logger.Debug("HCL loading complete.", "scripts", len(defs.Scripts), "groups", len(defs.Groups), "workflows", len(defs.Workflows))
	return defs, nil
}
