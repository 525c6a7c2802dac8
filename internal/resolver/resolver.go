package resolver

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/scripthub/internal/model"
)

// UserInputFunc supplies the value of a parameter mapped to UserInput.
// The fallback argument is the parameter's declared default.
type UserInputFunc func(node *model.WorkflowNode, param model.Parameter, fallback string) string

// DefaultUserInput resolves every UserInput mapping to the declared default.
func DefaultUserInput(_ *model.WorkflowNode, _ model.Parameter, fallback string) string {
	return fallback
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithUserInput replaces the UserInput policy.
func WithUserInput(fn UserInputFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.userInput = fn
		}
	}
}

// Resolver evaluates parameter mappings. The zero value is not usable; use New.
type Resolver struct {
	userInput UserInputFunc
}

// New creates a Resolver with the default UserInput policy unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{userInput: DefaultUserInput}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns one argument per declared parameter of script, in declared
// order. outputs holds the NodeOutput of every node finished so far in the
// run and is only read.
func (r *Resolver) Resolve(node *model.WorkflowNode, script *model.Script, outputs map[string]model.NodeOutput) []string {
	args := make([]string, 0, len(script.Parameters))
	for _, param := range script.Parameters {
		args = append(args, QuoteArgument(param, r.value(node, param, outputs)))
	}
	return args
}

// Values is Resolve without quoting, keyed by parameter name.
func (r *Resolver) Values(node *model.WorkflowNode, script *model.Script, outputs map[string]model.NodeOutput) map[string]string {
	values := make(map[string]string, len(script.Parameters))
	for _, param := range script.Parameters {
		values[param.Name] = r.value(node, param, outputs)
	}
	return values
}

func (r *Resolver) value(node *model.WorkflowNode, param model.Parameter, outputs map[string]model.NodeOutput) string {
	value := param.DefaultValue()
	if node == nil {
		return value
	}

	switch m := node.Mappings[param.Name].(type) {
	case model.Constant:
		value = m.Value
	case model.FromOutput:
		if out, ok := outputs[m.SourceNodeID]; ok {
			if v, ok := ChannelValue(out, m.Channel); ok {
				value = v
			}
		}
	case model.UserInput:
		value = r.userInput(node, param, value)
	}
	return value
}

// ChannelValue extracts the value a FromOutput mapping reads from a finished
// node. Text channels are trimmed; the exit code is rendered in decimal. The
// boolean is false for an unknown channel.
func ChannelValue(out model.NodeOutput, channel model.OutputChannel) (string, bool) {
	switch channel {
	case model.ChannelStdout:
		return strings.TrimSpace(out.Stdout), true
	case model.ChannelStderr:
		return strings.TrimSpace(out.Stderr), true
	case model.ChannelExitCode:
		return strconv.FormatInt(int64(out.ExitCode), 10), true
	case model.ChannelWorkingDirectory:
		return out.WorkingDirectory, true
	}
	return "", false
}

// QuoteArgument prepares a resolved value for the process invocation.
// Surrounding spaces and tabs are dropped. Directory and file values that
// contain a space are wrapped in one pair of double quotes; nothing else is
// quoted or escaped.
func QuoteArgument(param model.Parameter, value string) string {
	value = strings.Trim(value, " \t")
	if param.Type.IsPath() && strings.Contains(value, " ") {
		return `"` + value + `"`
	}
	return value
}

// Arguments builds the argument list for a direct script run from values
// keyed by parameter name. Parameters missing from values use their default.
func Arguments(script *model.Script, values map[string]string) []string {
	args := make([]string, 0, len(script.Parameters))
	for _, param := range script.Parameters {
		value, ok := values[param.Name]
		if !ok {
			value = param.DefaultValue()
		}
		args = append(args, QuoteArgument(param, value))
	}
	return args
}

var std = New()

// Resolve evaluates node mappings with the default policy.
func Resolve(node *model.WorkflowNode, script *model.Script, outputs map[string]model.NodeOutput) []string {
	return std.Resolve(node, script, outputs)
}
