package runner

import "path/filepath"

// Default binaries.
const (
	DefaultCompiler        = "/usr/bin/javac"
	DefaultCompiledRuntime = "/usr/bin/java"
	DefaultInterpreter     = "/usr/bin/python3"
	DefaultShell           = "/bin/bash"
)

// Default locations relative to the project root.
const (
	DefaultSourceDir = "src"
	DefaultBuildDir  = "out/production/Scripts"
)

// Config locates binaries and build directories. Relative SourceDir and
// BuildDir are resolved against ProjectRoot.
type Config struct {
	ProjectRoot string
	SourceDir   string
	BuildDir    string

	Compiler        string
	CompiledRuntime string
	Interpreter     string
	Shell           string
}

func (c Config) withDefaults() Config {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}
	if c.Compiler == "" {
		c.Compiler = DefaultCompiler
	}
	if c.CompiledRuntime == "" {
		c.CompiledRuntime = DefaultCompiledRuntime
	}
	if c.Interpreter == "" {
		c.Interpreter = DefaultInterpreter
	}
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	return c
}

func (c Config) resolve(dir string) string {
	if filepath.IsAbs(dir) || c.ProjectRoot == "" {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}
