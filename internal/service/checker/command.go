package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/timebombs"
	"github.com/oshokin/timebombs/internal/logger"
	"github.com/oshokin/timebombs/internal/resolver"
)

// Resolver turns a textual reference into a registry.
type Resolver interface {
	Resolve(reference string) (*timebombs.Registry, error)
}

// Options controls one check run.
type Options struct {
	// Reference names the registry to evaluate.
	Reference string
	// Resolver resolves Reference; resolver.New() is used when nil.
	Resolver Resolver
	// At is the base evaluation moment; zero means Clock().
	At time.Time
	// Lookahead shifts the base moment forward by calendar days.
	Lookahead int
	// Location converts the evaluation instant when set.
	Location *time.Location
	// Skips excludes categories.
	Skips Skips
	// Thresholds holds per-category maximums.
	Thresholds Thresholds
	// Policy selects the exit status policy; PolicyThreshold when empty.
	Policy Policy
	// Clock supplies "now"; time.Now when nil.
	Clock func() time.Time
}

// errReferenceRequired is returned when no reference is given.
var errReferenceRequired = errors.New("registry reference must be provided")

// Run resolves the registry, evaluates it and logs what was found.
// Resolution failures are returned as *resolver.ResolutionError.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "checker")

	// Resolve the registry named by the reference.
	registry, err := opts.Registry()
	if err != nil {
		return nil, err
	}

	// Fall back to the threshold policy.
	policy := opts.Policy
	if policy == "" {
		policy = PolicyThreshold
	}

	// Count every category at one instant.
	result := Evaluate(registry, opts.Instant(), opts.Skips, opts.Thresholds, policy)

	logMarkers(ctx, registry, result.At, opts.Skips)

	// Summarize the run, then name each category over its maximum.
	logger.InfoKV(ctx, "Evaluated timebombs",
		"reference", opts.Reference,
		"at", result.At.Format(time.RFC3339),
		"disarmed", result.Counts.Disarmed,
		"armed", result.Counts.Armed,
		"exploded", result.Counts.Exploded,
		"total", result.Total,
	)

	for _, state := range result.Exceeded {
		logger.WarnKV(ctx, fmt.Sprintf("Too many %s timebombs", state),
			"count", result.Counts.Of(state),
			"max", opts.Thresholds.Max(state),
		)
	}

	return result, nil
}

// Registry resolves Reference with the configured resolver.
func (o *Options) Registry() (*timebombs.Registry, error) {
	// Reject an empty reference before resolving.
	if o.Reference == "" {
		return nil, errReferenceRequired
	}

	// Default resolver: published names first, then manifest files.
	res := o.Resolver
	if res == nil {
		res = resolver.New()
	}

	return res.Resolve(o.Reference)
}

// Instant returns the evaluation instant: At (or now) plus the lookahead, in Location.
func (o *Options) Instant() time.Time {
	// An explicit moment wins over the clock.
	base := o.At
	if base.IsZero() {
		clock := o.Clock
		if clock == nil {
			clock = time.Now
		}

		base = clock()
	}

	return Instant(base, o.Lookahead, o.Location)
}

// logMarkers reports every counted marker at a severity matching its state.
func logMarkers(ctx context.Context, registry *timebombs.Registry, at time.Time, skips Skips) {
	for _, state := range timebombs.States {
		if skips.Skipped(state) {
			continue
		}

		for m := range registry.InState(state, at) {
			switch state {
			case timebombs.Disarmed:
				logger.Debugf(ctx, "Inactive: %s", m)
			case timebombs.Armed:
				logger.Warnf(ctx, "Exploding: %s", m)
			case timebombs.Exploded:
				logger.Errorf(ctx, "Exploded: %s", m)
			}
		}
	}
}
