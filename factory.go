package timebombs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oshokin/timebombs/internal/logger"
	"github.com/oshokin/timebombs/internal/timeparsing"
)

// Deadline is the exploding instant of a marker, given as text or as an instant.
type Deadline interface {
	resolve() (time.Time, error)
}

type textDeadline string

func (d textDeadline) resolve() (time.Time, error) {
	return timeparsing.ParseISO(string(d), time.Local)
}

type instantDeadline time.Time

func (d instantDeadline) resolve() (time.Time, error) {
	return time.Time(d), nil
}

// On returns a Deadline parsed from ISO-8601 text, e.g. "2020-11-30" or
// "2020-11-30T12:00:00+01:00". Text without an offset is read in local time.
func On(text string) Deadline {
	return textDeadline(text)
}

// At returns a Deadline at the given instant.
func At(t time.Time) Deadline {
	return instantDeadline(t)
}

// Reactions holds the handler invoked for each state.
// Nil handlers log the marker and return the zero T.
type Reactions[T any] struct {
	OnDisarmed func(Marker) T
	OnArmed    func(Marker) T
	OnExploded func(Marker) T
}

// Check evaluates a marker against the current time and runs the matching reaction.
type Check[T any] func() (T, error)

// settings collects Option values for New and NewMarker.
type settings struct {
	// armingAt overrides the default arming instant when set.
	armingAt *time.Time
	// location converts "now" before evaluation when set.
	location *time.Location
	// registry receives the marker at construction when set.
	registry *Registry
	// hardFail turns Exploded into a DeadlineReachedError.
	hardFail bool
	// clock supplies the current instant.
	clock func() time.Time
	// ctx carries the logger used by default reactions.
	ctx context.Context //nolint:containedctx // Only a logger carrier.
	// logger overrides the logger found in ctx when set.
	logger *zap.SugaredLogger
}

// Option configures New and NewMarker.
type Option func(*settings)

// WithArmingAt sets an explicit arming instant instead of deadline minus DefaultArmingPeriod.
func WithArmingAt(t time.Time) Option {
	return func(s *settings) {
		s.armingAt = &t
	}
}

// WithTimezone converts the current time into loc before evaluation.
func WithTimezone(loc *time.Location) Option {
	return func(s *settings) {
		s.location = loc
	}
}

// WithRegistry adds the marker to r as soon as it is built.
func WithRegistry(r *Registry) Option {
	return func(s *settings) {
		s.registry = r
	}
}

// WithHardFail makes the Check return a *DeadlineReachedError instead of
// calling OnExploded once the deadline has passed.
func WithHardFail() Option {
	return func(s *settings) {
		s.hardFail = true
	}
}

// WithClock replaces time.Now as the source of the current instant.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithContext sets the context whose logger the default reactions write to.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithLogger sends the default reactions' output to l instead of the
// package logger. It takes precedence over a logger carried by WithContext.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// errDeadlineRequired is returned when New or NewMarker gets a nil Deadline.
var errDeadlineRequired = errors.New("deadline must be provided")

func newSettings(opts []Option) *settings {
	s := &settings{
		clock: time.Now,
		ctx:   context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewMarker builds a Marker and registers it when WithRegistry is given.
// Malformed deadline text fails here, never at evaluation time.
func NewMarker(id string, deadline Deadline, description string, opts ...Option) (Marker, error) {
	return newSettings(opts).marker(id, deadline, description)
}

func (s *settings) marker(id string, deadline Deadline, description string) (Marker, error) {
	if deadline == nil {
		return Marker{}, errDeadlineRequired
	}

	explodingAt, err := deadline.resolve()
	if err != nil {
		return Marker{}, fmt.Errorf("timebomb %q deadline: %w", id, err)
	}

	armingAt := explodingAt.Add(-DefaultArmingPeriod)
	if s.armingAt != nil {
		armingAt = *s.armingAt
	}

	m := Marker{
		ExplodingAt: explodingAt,
		ArmingAt:    armingAt,
		Description: description,
		ID:          id,
	}

	if s.registry != nil {
		s.registry.Add(m)
	}

	return m, nil
}

// New builds a Marker and returns a Check evaluating it on every call.
func New[T any](
	id string,
	deadline Deadline,
	description string,
	reactions Reactions[T],
	opts ...Option,
) (Check[T], error) {
	s := newSettings(opts)

	m, err := s.marker(id, deadline, description)
	if err != nil {
		return nil, err
	}

	reactions = reactions.withDefaults(s.reactionContext())

	return func() (T, error) {
		now := s.clock()
		if s.location != nil {
			now = now.In(s.location)
		}

		var zero T

		switch state := m.StateAt(now); state {
		case Exploded:
			if s.hardFail {
				return zero, &DeadlineReachedError{Marker: m}
			}

			return reactions.OnExploded(m), nil
		case Armed:
			return reactions.OnArmed(m), nil
		case Disarmed:
			return reactions.OnDisarmed(m), nil
		default:
			return zero, fmt.Errorf("unexpected state %s", state)
		}
	}, nil
}

// Log is New with the default logging reactions.
func Log(id string, deadline Deadline, description string, opts ...Option) (Check[struct{}], error) {
	return New(id, deadline, description, Reactions[struct{}]{}, opts...)
}

// Must panics when err is not nil. It is meant for package-level declarations.
func Must[T any](check Check[T], err error) Check[T] {
	if err != nil {
		panic(err)
	}

	return check
}

// reactionContext returns the context default reactions log through.
func (s *settings) reactionContext() context.Context {
	if s.logger == nil {
		return s.ctx
	}

	return logger.ToContext(s.ctx, s.logger)
}

func (r Reactions[T]) withDefaults(ctx context.Context) Reactions[T] {
	if r.OnDisarmed == nil {
		r.OnDisarmed = logReaction[T](ctx, logger.Infof, "Inactive: %s")
	}

	if r.OnArmed == nil {
		r.OnArmed = logReaction[T](ctx, logger.Warnf, "Exploding: %s")
	}

	if r.OnExploded == nil {
		r.OnExploded = logReaction[T](ctx, logger.Errorf, "Exploded: %s")
	}

	return r
}

func logReaction[T any](
	ctx context.Context,
	logf func(context.Context, string, ...any),
	format string,
) func(Marker) T {
	return func(m Marker) T {
		logf(ctx, format, m)

		var zero T

		return zero
	}
}
