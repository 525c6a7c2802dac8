package executor

// State is the lifecycle position of a run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateCycleRejected
	StateCancelled
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateRunning:       "running",
	StateSucceeded:     "succeeded",
	StateFailed:        "failed",
	StateCycleRejected: "cycle-rejected",
	StateCancelled:     "cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCycleRejected, StateCancelled:
		return true
	}
	return false
}
