package runner

import (
	"context"

	"github.com/specialistvlad/scripthub/internal/model"
)

// direct runs the source file through a binary with no build step.
type direct struct {
	kind   model.RuntimeKind
	binary string
}

// NewInterpreted returns the runtime for interpreted scripts.
func NewInterpreted(binary string) Runtime {
	return &direct{kind: model.RuntimeInterpreted, binary: binary}
}

// NewShell returns the runtime for shell scripts.
func NewShell(binary string) Runtime {
	return &direct{kind: model.RuntimeShell, binary: binary}
}

func (d *direct) Kind() model.RuntimeKind { return d.kind }

func (d *direct) Prepare(context.Context, *model.Script) *Result { return nil }

func (d *direct) Command(script *model.Script, args []string) (string, []string) {
	return d.binary, append([]string{script.Source}, args...)
}
