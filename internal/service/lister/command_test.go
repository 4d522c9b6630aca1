package lister

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/timebombs"
	"github.com/oshokin/timebombs/internal/service/checker"
)

// now is the evaluation instant shared by the tests.
//
//nolint:gochecknoglobals // Shared test fixture.
var now = time.Date(2020, 11, 15, 0, 0, 0, 0, time.UTC)

func fixture() *timebombs.Registry {
	r := timebombs.NewRegistry()

	for _, m := range []struct {
		id       string
		deadline time.Time
		descr    string
	}{
		{"P-1", now.Add(15 * 24 * time.Hour), "drop legacy flag"},
		{"", now.Add(24 * time.Hour), "remove shim"},
		{"0", now.Add(-24 * time.Hour), "delete workaround"},
	} {
		r.Add(timebombs.Marker{
			ExplodingAt: m.deadline,
			ArmingAt:    m.deadline.Add(-timebombs.DefaultArmingPeriod),
			Description: m.descr,
			ID:          m.id,
		})
	}

	return r
}

// TestRows orders by deadline and honors skips.
func TestRows(t *testing.T) {
	t.Parallel()

	rows := Rows(fixture(), now, checker.Skips{})
	require.Len(t, rows, 3)
	require.Equal(t, "0", rows[0].Marker.ID)
	require.Equal(t, timebombs.Exploded, rows[0].State)
	require.Empty(t, rows[1].Marker.ID)
	require.Equal(t, timebombs.Armed, rows[1].State)
	require.Equal(t, "P-1", rows[2].Marker.ID)
	require.Equal(t, timebombs.Disarmed, rows[2].State)

	rows = Rows(fixture(), now, checker.Skips{Disarmed: true, Exploded: true})
	require.Len(t, rows, 1)
	require.Equal(t, timebombs.Armed, rows[0].State)
}

// TestRender writes one line per marker.
func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Render(&buf, Rows(fixture(), now, checker.Skips{})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "exploded")
	require.Contains(t, lines[0], "2020-11-14")
	require.Contains(t, lines[0], "delete workaround")
	require.Contains(t, lines[1], "armed")
	require.Contains(t, lines[1], " - ")
	require.Contains(t, lines[2], "P-1")
}

// TestRun resolves a manifest and lists it with lookahead applied.
func TestRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bombs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timebombs:\n  - id: X\n    deadline: \"2020-11-20T00:00:00Z\"\n    description: soon\n"), 0o600))

	var buf bytes.Buffer

	err := Run(context.Background(), &checker.Options{
		Reference: path,
		Lookahead: 10,
		Clock:     func() time.Time { return now },
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "exploded")
	require.Contains(t, buf.String(), "soon")
}
