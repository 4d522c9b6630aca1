package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/timebombs"
	"github.com/oshokin/timebombs/internal/manifest"
)

// ErrUnresolved matches every *ResolutionError via errors.Is.
var ErrUnresolved = errors.New("registry reference cannot be resolved")

// errUnknownName is wrapped when a reference is neither published nor a manifest path.
var errUnknownName = errors.New("no registry published under this name")

// errNilRegistry is wrapped when a source yields no registry.
var errNilRegistry = errors.New("registry is nil")

// ResolutionError reports a reference that could not be turned into a registry.
type ResolutionError struct {
	// Reference is the text that failed to resolve.
	Reference string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve registry %q: %v", e.Reference, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnresolved) succeed.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}

// Resolver looks references up in the published catalog, then as manifest files.
type Resolver struct {
	// lookup finds published registries by name.
	lookup func(name string) (*timebombs.Registry, bool)
	// published lists names for error messages.
	published func() []string
	// load reads a manifest file.
	load func(path string) (*timebombs.Registry, error)
}

// New returns a Resolver backed by timebombs.Lookup and manifest.Load.
func New() *Resolver {
	return &Resolver{
		lookup:    timebombs.Lookup,
		published: timebombs.Published,
		load:      manifest.Load,
	}
}

// Resolve returns the registry named by reference.
func (r *Resolver) Resolve(reference string) (*timebombs.Registry, error) {
	// Published names win over manifest paths.
	if registry, ok := r.lookup(reference); ok && registry != nil {
		return registry, nil
	}

	// Anything without a manifest extension is an unknown name.
	if _, err := manifest.FormatOf(reference); err != nil {
		cause := errUnknownName
		if names := r.published(); len(names) > 0 {
			cause = fmt.Errorf("%w (published: %s)", errUnknownName, strings.Join(names, ", "))
		}

		return nil, &ResolutionError{Reference: reference, Err: cause}
	}

	// Load the manifest file.
	registry, err := r.load(reference)
	if err != nil {
		return nil, &ResolutionError{Reference: reference, Err: err}
	}

	if registry == nil {
		return nil, &ResolutionError{Reference: reference, Err: errNilRegistry}
	}

	return registry, nil
}
