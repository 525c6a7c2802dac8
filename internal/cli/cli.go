package cli

import (
	"context"
	"errors"
	"io"

	"github.com/specialistvlad/scripthub/internal/app"
	"github.com/specialistvlad/scripthub/internal/hcl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	ExitFailed = 1
	ExitUsage  = 2
	ExitCycle  = 3
)

// Version is set at build time with -ldflags.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// env carries what every subcommand needs.
type env struct {
	v       *viper.Viper
	cfgFile string
	outW    io.Writer
	errW    io.Writer
}

// Execute runs the command tree with args. Command output goes to outW and
// logs go to errW. Every returned error is an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCommand builds the scripthub command tree with its own viper
// instance, so several trees can coexist in one process.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	e := &env{v: viper.New(), outW: outW, errW: errW}

	root := &cobra.Command{
		Use:   "scripthub",
		Short: "Run scripts and script workflows",
		Long: `scripthub runs compiled, interpreted and shell scripts, alone or wired
together into workflows. A workflow is a graph of nodes; each node runs one
script and may feed another node's parameters from its output.

Scripts and workflows are declared in .hcl files below the project's
scripthub/ directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	flags := root.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "config file (default is scripthub.yaml in . or the user config dir)")
	flags.String("project-root", "", "project root (default: discovered from the working directory)")
	flags.StringSlice("definitions", nil, "definition files or directories (default: <project-root>/scripthub)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-file", "", "also append logs to this file")
	flags.Int("status-port", 0, "port of the HTTP status server, 0 disables it")
	flags.String("socketio-url", "", "publish run state to this socket.io server")

	_ = e.v.BindPFlag("project_root", flags.Lookup("project-root"))
	_ = e.v.BindPFlag("definitions", flags.Lookup("definitions"))
	_ = e.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = e.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = e.v.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = e.v.BindPFlag("status.port", flags.Lookup("status-port"))
	_ = e.v.BindPFlag("socketio.url", flags.Lookup("socketio-url"))

	root.AddCommand(
		newRunCommand(e),
		newExecCommand(e),
		newOrderCommand(e),
		newScriptsCommand(e),
		newWorkflowsCommand(e),
		newValidateCommand(e),
		newVersionCommand(e),
	)
	return root
}

// withApp loads the settings, builds the App and hands it to fn.
func (e *env) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	settings, err := app.LoadSettings(e.v, e.cfgFile)
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	a, err := app.New(cmd.Context(), e.errW, settings, hcl.NewLoader())
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	defer a.Close()
	return fn(a)
}
