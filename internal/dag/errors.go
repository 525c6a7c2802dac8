package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel wrapped by every CycleError.
var ErrCycle = errors.New("dependency cycle")

// CycleError reports that the graph is not acyclic. Unreached lists the nodes
// Kahn's algorithm could not release; at least one cycle exists among them,
// but the set may also contain nodes that merely depend on a cycle.
type CycleError struct {
	Unreached []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s among nodes [%s]", ErrCycle, strings.Join(e.Unreached, ", "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}
