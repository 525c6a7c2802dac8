package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/scripthub/internal/fsutil"
	"github.com/specialistvlad/scripthub/internal/observer/socketio"
	"github.com/specialistvlad/scripthub/internal/runner"
	"github.com/spf13/viper"
)

// Name is used for the config file name, the env prefix and the config
// directory.
const Name = "scripthub"

// EnvPrefix prefixes every environment override, e.g. SCRIPTHUB_LOG_LEVEL.
const EnvPrefix = "SCRIPTHUB"

const (
	modernBuildDir   = "Build/Classes"
	rootSearchDepth  = 5
	definitionsDir   = "scripthub"
	defaultLogFormat = "text"
)

// Settings holds everything needed to build an App.
type Settings struct {
	ProjectRoot string           `mapstructure:"project_root"`
	Definitions []string         `mapstructure:"definitions"`
	Build       BuildSettings    `mapstructure:"build"`
	Runtimes    RuntimeSettings  `mapstructure:"runtimes"`
	Log         LogSettings      `mapstructure:"log"`
	Status      StatusSettings   `mapstructure:"status"`
	SocketIO    SocketIOSettings `mapstructure:"socketio"`
}

type BuildSettings struct {
	OutputDir string `mapstructure:"output_dir"`
	SourceDir string `mapstructure:"source_dir"`
}

type RuntimeSettings struct {
	Compiler    string `mapstructure:"compiler"`
	Compiled    string `mapstructure:"compiled"`
	Interpreted string `mapstructure:"interpreted"`
	Shell       string `mapstructure:"shell"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// StatusSettings configures the HTTP status server. Port 0 disables it.
type StatusSettings struct {
	Port int `mapstructure:"port"`
}

// SocketIOSettings configures the run state publisher. An empty URL
// disables it.
type SocketIOSettings struct {
	URL                string `mapstructure:"url"`
	Namespace          string `mapstructure:"namespace"`
	Event              string `mapstructure:"event"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// SetDefaults registers the static defaults. Defaults that depend on the
// project root are filled in by LoadSettings.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("build.source_dir", runner.DefaultSourceDir)
	v.SetDefault("runtimes.compiler", runner.DefaultCompiler)
	v.SetDefault("runtimes.compiled", runner.DefaultCompiledRuntime)
	v.SetDefault("runtimes.interpreted", runner.DefaultInterpreter)
	v.SetDefault("runtimes.shell", runner.DefaultShell)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("status.port", 0)
	v.SetDefault("socketio.event", socketio.DefaultEvent)
}

// LoadSettings reads the optional config file and the environment into v and
// returns the resolved Settings. cfgFile may be empty, in which case
// scripthub.{yaml,toml,json} is searched in the working directory and the
// user config directory.
func LoadSettings(v *viper.Viper, cfgFile string) (*Settings, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := s.finalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

// finalize fills root-relative defaults and validates enum settings.
func (s *Settings) finalize() error {
	if s.ProjectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}
		s.ProjectRoot = fsutil.FindProjectRoot(cwd, rootSearchDepth, "Scripts", runner.DefaultSourceDir)
	}
	if len(s.Definitions) == 0 {
		s.Definitions = []string{filepath.Join(s.ProjectRoot, definitionsDir)}
	}
	if s.Build.OutputDir == "" {
		s.Build.OutputDir = fsutil.FirstExisting(runner.DefaultBuildDir, filepath.Join(s.ProjectRoot, modernBuildDir))
	}

	s.Log.Level = strings.ToLower(s.Log.Level)
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", s.Log.Level)
	}
	s.Log.Format = strings.ToLower(s.Log.Format)
	if s.Log.Format != "text" && s.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", s.Log.Format)
	}
	if s.Status.Port < 0 {
		return fmt.Errorf("invalid status port %d", s.Status.Port)
	}
	return nil
}

// RunnerConfig maps the settings onto the runner's configuration.
func (s *Settings) RunnerConfig() runner.Config {
	return runner.Config{
		ProjectRoot:     s.ProjectRoot,
		SourceDir:       s.Build.SourceDir,
		BuildDir:        s.Build.OutputDir,
		Compiler:        s.Runtimes.Compiler,
		CompiledRuntime: s.Runtimes.Compiled,
		Interpreter:     s.Runtimes.Interpreted,
		Shell:           s.Runtimes.Shell,
	}
}

func (s *Settings) socketIOConfig() socketio.Config {
	return socketio.Config{
		URL:                s.SocketIO.URL,
		Namespace:          s.SocketIO.Namespace,
		Event:              s.SocketIO.Event,
		InsecureSkipVerify: s.SocketIO.InsecureSkipVerify,
	}
}
