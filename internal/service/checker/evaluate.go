package checker

import (
	"time"

	"github.com/oshokin/timebombs"
)

// Skips marks categories excluded from counting and threshold comparison.
type Skips struct {
	Disarmed bool
	Armed    bool
	Exploded bool
}

// Skipped reports whether the state is excluded.
func (s Skips) Skipped(state timebombs.State) bool {
	switch state {
	case timebombs.Disarmed:
		return s.Disarmed
	case timebombs.Armed:
		return s.Armed
	case timebombs.Exploded:
		return s.Exploded
	default:
		return true
	}
}

// Thresholds holds the largest tolerated count per category.
type Thresholds struct {
	Disarmed int
	Armed    int
	Exploded int
}

// Max returns the threshold for the state.
func (t Thresholds) Max(state timebombs.State) int {
	switch state {
	case timebombs.Disarmed:
		return t.Disarmed
	case timebombs.Armed:
		return t.Armed
	case timebombs.Exploded:
		return t.Exploded
	default:
		return 0
	}
}

// Counts holds the number of markers per category.
type Counts struct {
	Disarmed int
	Armed    int
	Exploded int
}

// Of returns the count for the state.
func (c Counts) Of(state timebombs.State) int {
	switch state {
	case timebombs.Disarmed:
		return c.Disarmed
	case timebombs.Armed:
		return c.Armed
	case timebombs.Exploded:
		return c.Exploded
	default:
		return 0
	}
}

func (c *Counts) set(state timebombs.State, n int) {
	switch state {
	case timebombs.Disarmed:
		c.Disarmed = n
	case timebombs.Armed:
		c.Armed = n
	case timebombs.Exploded:
		c.Exploded = n
	}
}

// Result is the outcome of one evaluation.
type Result struct {
	// At is the instant the registry was evaluated at.
	At time.Time
	// Counts holds per-category counts; skipped categories stay zero.
	Counts Counts
	// Total is the sum of non-skipped counts.
	Total int
	// Exceeded lists non-skipped categories whose count is above the maximum.
	Exceeded []timebombs.State
	// Policy is the policy ExitCode was derived with.
	Policy Policy
	// ExitCode is the process exit status to report.
	ExitCode int
}

// Instant shifts base forward by lookahead calendar days
// and converts it into loc when loc is set.
func Instant(base time.Time, lookahead int, loc *time.Location) time.Time {
	// Calendar days in base's location; no Duration arithmetic to overflow.
	at := base.AddDate(0, 0, lookahead)

	// Conversion keeps the absolute instant.
	if loc != nil {
		at = at.In(loc)
	}

	return at
}

// Evaluate counts the registry's markers at the given instant and derives the exit status.
func Evaluate(r *timebombs.Registry, at time.Time, skips Skips, thresholds Thresholds, policy Policy) *Result {
	result := &Result{
		At:     at,
		Policy: policy,
	}

	for _, state := range timebombs.States {
		if skips.Skipped(state) {
			continue
		}

		n := timebombs.Count(r.InState(state, at))
		result.Counts.set(state, n)
		result.Total += n

		if n > thresholds.Max(state) {
			result.Exceeded = append(result.Exceeded, state)
		}
	}

	result.ExitCode = ExitCode(result.Total, len(result.Exceeded) > 0, policy)

	return result
}

// ExitCode derives the exit status from the total and whether any threshold was exceeded.
func ExitCode(total int, exceeded bool, policy Policy) int {
	if policy != PolicyTotal && !exceeded {
		return 0
	}

	return min(total, MaxExitCode)
}
