package dispatcher

import "fmt"

// State is a step of one invocation's lifecycle.
type State int

const (
	Idle State = iota
	Preparing
	ReadInFlight
	WriteSubmitting
	WriteConfirming
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case ReadInFlight:
		return "read-in-flight"
	case WriteSubmitting:
		return "write-submitting"
	case WriteConfirming:
		return "write-confirming"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends an invocation.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// InFlight reports whether s waits on the collaborator.
func (s State) InFlight() bool {
	return s == ReadInFlight || s == WriteSubmitting || s == WriteConfirming
}
