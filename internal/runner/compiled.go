package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/model"
)

// Compiled builds a script's artifact on demand and runs it from the build
// output directory.
type Compiled struct {
	compiler  string
	runtime   string
	sourceDir string
	buildDir  string

	// mu serializes builds so concurrent runs of one script compile once.
	mu sync.Mutex
}

// NewCompiled returns the runtime for compiled scripts.
func NewCompiled(cfg Config) *Compiled {
	cfg = cfg.withDefaults()
	return &Compiled{
		compiler:  cfg.Compiler,
		runtime:   cfg.CompiledRuntime,
		sourceDir: cfg.resolve(cfg.SourceDir),
		buildDir:  cfg.resolve(cfg.BuildDir),
	}
}

func (c *Compiled) Kind() model.RuntimeKind { return model.RuntimeCompiled }

// BuildDir returns the directory artifacts are written to.
func (c *Compiled) BuildDir() string { return c.buildDir }

// Artifact returns the path of the script's build artifact.
func (c *Compiled) Artifact(script *model.Script) string {
	return filepath.Join(c.buildDir, strings.ReplaceAll(script.Entry, ".", string(filepath.Separator))+".class")
}

// SourceFile returns the file handed to the compiler: the script's source
// path when set, otherwise the entry's file under the source directory.
func (c *Compiled) SourceFile(script *model.Script) string {
	if script.Source != "" {
		return script.Source
	}
	return filepath.Join(c.sourceDir, strings.ReplaceAll(script.Entry, ".", string(filepath.Separator))+".java")
}

// NeedsBuild reports whether the artifact is missing.
func (c *Compiled) NeedsBuild(script *model.Script) bool {
	_, err := os.Stat(c.Artifact(script))
	return err != nil
}

// Prepare compiles the script if its artifact is missing.
func (c *Compiled) Prepare(ctx context.Context, script *model.Script) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.NeedsBuild(script) {
		return nil
	}
	res := c.Build(ctx, script)
	if res.ExitCode != 0 {
		return &res
	}
	return nil
}

// Build compiles the script unconditionally.
func (c *Compiled) Build(ctx context.Context, script *model.Script) Result {
	logger := ctxlog.FromContext(ctx).With("entry", script.Entry)
	logger.Info("🔨 Compiling script", "source", c.SourceFile(script), "output", c.buildDir)

	res := capture(ctx, c.compiler, []string{"-d", c.buildDir, c.SourceFile(script)}, nil)
	if res.ExitCode != 0 {
		logger.Error("Compilation failed.", "exit_code", res.ExitCode)
		if !strings.HasSuffix(res.Stderr, "\n") && res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += "compilation failed\n"
		return res
	}
	logger.Debug("Compilation succeeded.")
	return res
}

func (c *Compiled) Command(script *model.Script, args []string) (string, []string) {
	return c.runtime, append([]string{"-cp", c.buildDir, script.Entry}, args...)
}
