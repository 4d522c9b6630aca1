package timebombs

import "fmt"

// State is the temporal state of a Marker at a given instant.
type State int

const (
	// Disarmed means the arming instant has not been reached yet.
	Disarmed State = iota
	// Armed means the marker is past its arming instant but before its deadline.
	Armed
	// Exploded means the deadline has been reached.
	Exploded
)

// States lists every state in evaluation priority order, lowest first.
//
//nolint:gochecknoglobals // Read-only enumeration.
var States = []State{Disarmed, Armed, Exploded}

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Disarmed:
		return "disarmed"
	case Armed:
		return "armed"
	case Exploded:
		return "exploded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState converts a state name back into a State.
func ParseState(s string) (State, error) {
	for _, state := range States {
		if state.String() == s {
			return state, nil
		}
	}

	return 0, fmt.Errorf("unknown state %q", s)
}
