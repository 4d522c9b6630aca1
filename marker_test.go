package timebombs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMarker_Boundaries checks half-open interval edges with the default arming period.
func TestMarker_Boundaries(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC)
	m := Marker{
		ExplodingAt: deadline,
		ArmingAt:    deadline.Add(-DefaultArmingPeriod),
		ID:          "P-1",
	}

	require.Equal(t, Exploded, m.StateAt(deadline))
	require.Equal(t, Armed, m.StateAt(deadline.Add(-time.Millisecond)))
	require.Equal(t, Armed, m.StateAt(deadline.Add(-DefaultArmingPeriod)))
	require.Equal(t, Disarmed, m.StateAt(deadline.Add(-DefaultArmingPeriod-time.Millisecond)))

	require.Equal(t, Armed, m.StateAt(time.Date(2020, 11, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, Exploded, m.StateAt(time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, Disarmed, m.StateAt(time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC)))
}

// TestMarker_ExactlyOneState verifies mutual exclusion and exhaustiveness across a range of instants.
func TestMarker_ExactlyOneState(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC)
	markers := []Marker{
		{ExplodingAt: deadline, ArmingAt: deadline.Add(-DefaultArmingPeriod)},
		{ExplodingAt: deadline, ArmingAt: deadline},
		// Inverted interval.
		{ExplodingAt: deadline, ArmingAt: deadline.Add(72 * time.Hour)},
	}

	for _, m := range markers {
		for at := deadline.Add(-20 * 24 * time.Hour); at.Before(deadline.Add(5 * 24 * time.Hour)); at = at.Add(7 * time.Hour) {
			var n int

			for _, held := range []bool{m.IsDisarmed(at), m.IsArmed(at), m.IsExploded(at)} {
				if held {
					n++
				}
			}

			// Inverted intervals may satisfy both exploded and disarmed predicates;
			// StateAt still resolves to one state by priority.
			if !m.ArmingAt.After(m.ExplodingAt) {
				require.Equal(t, 1, n, "marker %v at %s", m, at)
			}

			state := m.StateAt(at)
			require.Contains(t, States, state)
		}
	}
}

// TestMarker_InvertedInterval ensures Armed is unreachable when arming follows the deadline.
func TestMarker_InvertedInterval(t *testing.T) {
	t.Parallel()

	m := Marker{
		ExplodingAt: time.Date(2020, 11, 14, 0, 0, 0, 0, time.UTC),
		ArmingAt:    time.Date(2020, 11, 17, 0, 0, 0, 0, time.UTC),
	}

	require.Equal(t, Disarmed, m.StateAt(time.Date(2020, 11, 13, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, Exploded, m.StateAt(time.Date(2020, 11, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, Exploded, m.StateAt(time.Date(2020, 11, 18, 0, 0, 0, 0, time.UTC)))
}

// TestMarker_TimezoneInvariance checks that the same instant in different locations classifies the same.
func TestMarker_TimezoneInvariance(t *testing.T) {
	t.Parallel()

	ams, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	deadline := time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC)
	m := Marker{ExplodingAt: deadline, ArmingAt: deadline.Add(-DefaultArmingPeriod)}

	for _, at := range []time.Time{
		deadline,
		deadline.Add(-time.Nanosecond),
		deadline.Add(-DefaultArmingPeriod),
		deadline.Add(-DefaultArmingPeriod - time.Nanosecond),
	} {
		want := m.StateAt(at)
		require.Equal(t, want, m.StateAt(at.In(ams)))
		require.Equal(t, want, m.StateAt(at.In(tokyo)))
	}
}

// TestMarker_String covers the display form with and without an ID.
func TestMarker_String(t *testing.T) {
	t.Parallel()

	m := Marker{
		ExplodingAt: time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC),
		Description: "d",
		ID:          "P-1",
	}
	require.Equal(t, "Marker(#P-1,2020-11-30) 'd'.", m.String())

	m.ID = ""
	require.Equal(t, "Marker(2020-11-30) 'd'.", m.String())
}

// TestMarker_Equal compares instants as absolute time.
func TestMarker_Equal(t *testing.T) {
	t.Parallel()

	ams, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	deadline := time.Date(2020, 11, 30, 0, 0, 0, 0, time.UTC)
	a := Marker{ExplodingAt: deadline, ArmingAt: deadline.Add(-time.Hour), Description: "d", ID: "1"}
	b := Marker{ExplodingAt: deadline.In(ams), ArmingAt: deadline.Add(-time.Hour).In(ams), Description: "d", ID: "1"}

	require.True(t, a.Equal(b))

	b.Description = "other"
	require.False(t, a.Equal(b))
}

// TestParseState round-trips state names.
func TestParseState(t *testing.T) {
	t.Parallel()

	for _, s := range States {
		got, err := ParseState(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	_, err := ParseState("boom")
	require.Error(t, err)
	require.Equal(t, "State(7)", State(7).String())
}
