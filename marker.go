package timebombs

import (
	"fmt"
	"time"
)

// DefaultArmingPeriod is how long before its deadline a Marker arms
// when no explicit arming instant is given.
const DefaultArmingPeriod = 14 * 24 * time.Hour

// Marker describes one deadline. It is a value: copies are equal
// when every field is, with instants compared as absolute time.
//
// ArmingAt after ExplodingAt is allowed; such a marker is never Armed.
type Marker struct {
	// ExplodingAt is the deadline; the marker is Exploded from this instant on.
	ExplodingAt time.Time
	// ArmingAt is the instant from which the marker is Armed.
	ArmingAt time.Time
	// Description tells what has to be done before the deadline.
	Description string
	// ID is an optional identifier, e.g. a ticket number. Empty means none.
	ID string
}

// IsExploded reports whether at is on or after the deadline.
func (m Marker) IsExploded(at time.Time) bool {
	return !at.Before(m.ExplodingAt)
}

// IsArmed reports whether at lies in [ArmingAt, ExplodingAt).
func (m Marker) IsArmed(at time.Time) bool {
	return !at.Before(m.ArmingAt) && at.Before(m.ExplodingAt)
}

// IsDisarmed reports whether at is before the arming instant.
func (m Marker) IsDisarmed(at time.Time) bool {
	return at.Before(m.ArmingAt)
}

// StateAt classifies the marker at the given instant.
// Exploded takes precedence over Armed, Armed over Disarmed.
func (m Marker) StateAt(at time.Time) State {
	switch {
	case m.IsExploded(at):
		return Exploded
	case m.IsArmed(at):
		return Armed
	default:
		return Disarmed
	}
}

// String renders the marker as Marker(#id,YYYY-MM-DD) 'description'.
func (m Marker) String() string {
	var id string
	if m.ID != "" {
		id = "#" + m.ID + ","
	}

	return fmt.Sprintf("Marker(%s%s) '%s'.", id, m.ExplodingAt.Format(time.DateOnly), m.Description)
}

// markerKey is the comparable identity of a Marker.
// time.Time values are not comparable by == across locations, so instants
// are reduced to seconds and nanoseconds.
type markerKey struct {
	explodingSec  int64
	explodingNsec int
	armingSec     int64
	armingNsec    int
	description   string
	id            string
}

func (m Marker) key() markerKey {
	return markerKey{
		explodingSec:  m.ExplodingAt.Unix(),
		explodingNsec: m.ExplodingAt.Nanosecond(),
		armingSec:     m.ArmingAt.Unix(),
		armingNsec:    m.ArmingAt.Nanosecond(),
		description:   m.Description,
		id:            m.ID,
	}
}

// Equal reports whether both markers describe the same deadline.
func (m Marker) Equal(other Marker) bool {
	return m.key() == other.key()
}
