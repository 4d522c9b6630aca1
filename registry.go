package timebombs

import (
	"iter"
	"maps"
	"time"
)

// Registry is an append-only set of markers queryable by state.
//
// Add is not safe for concurrent use; register markers during program
// start-up and query freely afterwards.
type Registry struct {
	markers map[markerKey]Marker
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		markers: make(map[markerKey]Marker),
	}
}

// Add inserts m unless an equal marker is already present.
func (r *Registry) Add(m Marker) {
	if r.markers == nil {
		r.markers = make(map[markerKey]Marker)
	}

	k := m.key()
	if _, ok := r.markers[k]; ok {
		return
	}

	r.markers[k] = m
}

// Len returns the number of distinct markers.
func (r *Registry) Len() int {
	return len(r.markers)
}

// All yields every marker in no particular order.
func (r *Registry) All() iter.Seq[Marker] {
	return maps.Values(r.markers)
}

// InState yields the markers whose state at the given instant is s.
func (r *Registry) InState(s State, at time.Time) iter.Seq[Marker] {
	return func(yield func(Marker) bool) {
		for _, m := range r.markers {
			if m.StateAt(at) != s {
				continue
			}

			if !yield(m) {
				return
			}
		}
	}
}

// Disarmed yields the markers not yet armed at the given instant.
func (r *Registry) Disarmed(at time.Time) iter.Seq[Marker] {
	return r.InState(Disarmed, at)
}

// Armed yields the markers armed at the given instant.
func (r *Registry) Armed(at time.Time) iter.Seq[Marker] {
	return r.InState(Armed, at)
}

// Exploded yields the markers exploded at the given instant.
func (r *Registry) Exploded(at time.Time) iter.Seq[Marker] {
	return r.InState(Exploded, at)
}

// Count drains seq and returns the number of markers it produced.
func Count(seq iter.Seq[Marker]) int {
	var n int

	for range seq {
		n++
	}

	return n
}
