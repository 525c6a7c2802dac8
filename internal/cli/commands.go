package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/scripthub/internal/app"
	"github.com/specialistvlad/scripthub/internal/dag"
	"github.com/specialistvlad/scripthub/internal/executor"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/registry"
	"github.com/specialistvlad/scripthub/internal/store"
	"github.com/spf13/cobra"
)

func newRunCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "run <workflow-id>",
		Short: "Run a workflow and stream its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app.App) error {
				snap, err := a.RunWorkflow(cmd.Context(), args[0], e.outW)
				if err != nil {
					return lookupError(err)
				}
				switch snap.State {
				case executor.StateSucceeded:
					return nil
				case executor.StateCycleRejected:
					return &ExitError{Code: ExitCycle, Message: snap.Error}
				default:
					return &ExitError{Code: ExitFailed, Message: snap.Error}
				}
			})
		},
	}
}

func newExecCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <script-id> [name=value ...]",
		Short: "Run a single script with the given parameter values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			return e.withApp(cmd, func(a *app.App) error {
				snap, err := a.ExecScript(cmd.Context(), args[0], values, e.outW)
				if err != nil {
					return lookupError(err)
				}
				if snap.ExitCode != 0 {
					return &ExitError{Code: ExitFailed, Message: fmt.Sprintf("script exited with code %d", snap.ExitCode)}
				}
				return nil
			})
		},
	}
}

// parseValues turns name=value arguments into a map. Values may contain '='.
func parseValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid parameter %q: expected name=value", arg)}
		}
		values[name] = value
	}
	return values, nil
}

func newOrderCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "order <workflow-id>",
		Short: "Print the execution order of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app.App) error {
				order, err := a.Order(args[0])
				if err != nil {
					return lookupError(err)
				}
				for i, id := range order {
					fmt.Fprintf(e.outW, "%d. %s\n", i+1, id)
				}
				return nil
			})
		},
	}
}

func newScriptsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List scripts by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app.App) error {
				reg := a.Registry()
				tw := tabwriter.NewWriter(e.outW, 0, 4, 2, ' ', 0)
				for _, g := range reg.Groups() {
					scripts, _ := reg.InGroup(g.ID)
					fmt.Fprintf(tw, "%s\n", g.Name)
					writeScripts(tw, scripts)
				}
				if ungrouped := reg.Ungrouped(); len(ungrouped) > 0 {
					fmt.Fprintln(tw, "Ungrouped")
					writeScripts(tw, ungrouped)
				}
				return tw.Flush()
			})
		},
	}
}

func writeScripts(tw *tabwriter.Writer, scripts []*model.Script) {
	for _, s := range scripts {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d params\n", s.ID, s.Name, s.Kind, len(s.Parameters))
	}
}

func newWorkflowsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "List workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app.App) error {
				tw := tabwriter.NewWriter(e.outW, 0, 4, 2, ' ', 0)
				for _, w := range a.Workflows().List() {
					fmt.Fprintf(tw, "%s\t%s\t%d nodes\n", w.ID, w.Name, len(w.Nodes))
				}
				return tw.Flush()
			})
		},
	}
}

func newValidateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report problems in the definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(a *app.App) error {
				warnings := a.Validate()
				if len(warnings) == 0 {
					fmt.Fprintln(e.outW, "✅ No problems found.")
					return nil
				}
				for _, w := range warnings {
					fmt.Fprintf(e.outW, "⚠️  %s\n", w)
				}
				return nil
			})
		},
	}
}

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.outW, "scripthub %s\n", Version)
		},
	}
}

// lookupError maps lookup and ordering failures onto exit codes.
func lookupError(err error) error {
	switch {
	case errors.Is(err, dag.ErrCycle):
		return &ExitError{Code: ExitCycle, Message: err.Error()}
	case errors.Is(err, store.ErrWorkflowNotFound), errors.Is(err, registry.ErrScriptNotFound):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	default:
		return &ExitError{Code: ExitFailed, Message: err.Error()}
	}
}
