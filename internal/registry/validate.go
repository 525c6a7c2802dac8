package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/model"
)

// ArtifactLocator reports where a compiled script's files live. The runner's
// compiled runtime satisfies it.
type ArtifactLocator interface {
	SourceFile(script *model.Script) string
	Artifact(script *model.Script) string
}

// Validate checks that every registered script can be found on disk.
// Compiled scripts pass when either their source or their artifact exists.
// The result lists one warning per script that cannot run; it is advisory,
// since files may appear before a run starts.
func (r *Memory) Validate(ctx context.Context, locator ArtifactLocator) []string {
	logger := ctxlog.FromContext(ctx)
	var warnings []string

	for _, s := range r.List() {
		switch s.Kind {
		case model.RuntimeCompiled:
			if locator == nil {
				continue
			}
			if !exists(locator.SourceFile(s)) && !exists(locator.Artifact(s)) {
				warnings = append(warnings, fmt.Sprintf("script %q: neither %s nor %s exists", s.ID, locator.SourceFile(s), locator.Artifact(s)))
			}
		default:
			if !exists(s.Source) {
				warnings = append(warnings, fmt.Sprintf("script %q: source %s does not exist", s.ID, s.Source))
			}
		}
		for _, w := range s.Warnings {
			warnings = append(warnings, fmt.Sprintf("script %q: %s", s.ID, w))
		}
	}

	logger.Debug("Registry validation finished.", "warnings", len(warnings))
	return warnings
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
