package timebombs

import "errors"

// ErrDeadlineReached matches every *DeadlineReachedError via errors.Is.
var ErrDeadlineReached = errors.New("deadline reached")

// DeadlineReachedError is returned by a hard-fail Check whose marker has exploded.
type DeadlineReachedError struct {
	Marker Marker
}

// Error returns the marker's display form.
func (e *DeadlineReachedError) Error() string {
	return e.Marker.String()
}

// Is makes errors.Is(err, ErrDeadlineReached) succeed.
func (e *DeadlineReachedError) Is(target error) bool {
	return target == ErrDeadlineReached
}
