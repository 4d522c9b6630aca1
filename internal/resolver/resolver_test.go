package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timebombs"
)

var errTestLoad = errors.New("test load error")

// TestResolve_PublishedFirst prefers a published registry over a manifest of the same name.
func TestResolve_PublishedFirst(t *testing.T) {
	t.Parallel()

	published := timebombs.NewRegistry()
	r := &Resolver{
		lookup: func(name string) (*timebombs.Registry, bool) {
			return published, name == "app.yaml"
		},
		published: func() []string { return []string{"app.yaml"} },
		load: func(string) (*timebombs.Registry, error) {
			return nil, errTestLoad
		},
	}

	got, err := r.Resolve("app.yaml")
	require.NoError(t, err)
	require.Same(t, published, got)
}

// TestResolve_Errors wraps every failure in a ResolutionError.
func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	r := &Resolver{
		lookup:    func(string) (*timebombs.Registry, bool) { return nil, false },
		published: func() []string { return []string{"a", "b"} },
		load: func(string) (*timebombs.Registry, error) {
			return nil, errTestLoad
		},
	}

	_, err := r.Resolve("unknown")
	require.ErrorIs(t, err, ErrUnresolved)
	require.ErrorIs(t, err, errUnknownName)
	require.Contains(t, err.Error(), "published: a, b")

	_, err = r.Resolve("bombs.yaml")
	require.ErrorIs(t, err, ErrUnresolved)
	require.ErrorIs(t, err, errTestLoad)

	var resolution *ResolutionError
	require.ErrorAs(t, err, &resolution)
	require.Equal(t, "bombs.yaml", resolution.Reference)
}

// TestResolve_NilRegistry never hands a nil registry to callers.
func TestResolve_NilRegistry(t *testing.T) {
	t.Parallel()

	r := &Resolver{
		lookup:    func(string) (*timebombs.Registry, bool) { return nil, true },
		published: func() []string { return nil },
		load:      func(string) (*timebombs.Registry, error) { return nil, nil },
	}

	_, err := r.Resolve("app")
	require.ErrorIs(t, err, ErrUnresolved)
	require.ErrorIs(t, err, errUnknownName)

	got, err := r.Resolve("bombs.toml")
	require.ErrorIs(t, err, errNilRegistry)
	require.Nil(t, got)
}

// TestNew_LoadsManifest resolves a manifest file through the default resolver.
func TestNew_LoadsManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bombs.yml")
	require.NoError(t, os.WriteFile(path, []byte("timebombs:\n  - deadline: \"2020-11-30\"\n"), 0o600))

	got, err := New().Resolve(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())

	_, err = New().Resolve(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrUnresolved)
	require.ErrorIs(t, err, os.ErrNotExist)
}
