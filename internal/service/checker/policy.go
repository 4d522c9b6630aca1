package checker

import (
	"errors"
	"fmt"
)

// Policy decides how counts become an exit status.
type Policy string

const (
	// PolicyThreshold reports the total only when some category exceeds its maximum.
	PolicyThreshold Policy = "threshold"
	// PolicyTotal always reports the total, ignoring maximums.
	PolicyTotal Policy = "total"
)

// MaxExitCode is the largest status a count can produce.
// Larger totals are clamped so they never wrap around to success,
// and 255 stays free for errors.
const MaxExitCode = 254

// errUnknownPolicy is returned for an unrecognized policy name.
var errUnknownPolicy = errors.New("unknown policy")

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyThreshold, PolicyTotal:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownPolicy, s)
	}
}
