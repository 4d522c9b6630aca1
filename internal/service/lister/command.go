package lister

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/timebombs"
	"github.com/oshokin/timebombs/internal/logger"
	"github.com/oshokin/timebombs/internal/service/checker"
)

// Styles for state labels.
//
//nolint:gochecknoglobals // Immutable styles.
var (
	disarmedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	armedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	})
	explodedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
)

// Row is one marker with its state at the evaluation instant.
type Row struct {
	Marker timebombs.Marker
	State  timebombs.State
}

// Rows classifies the registry's non-skipped markers, ordered by deadline, then ID.
func Rows(registry *timebombs.Registry, at time.Time, skips checker.Skips) []Row {
	var rows []Row

	for m := range registry.All() {
		state := m.StateAt(at)
		if skips.Skipped(state) {
			continue
		}

		rows = append(rows, Row{Marker: m, State: state})
	}

	slices.SortFunc(rows, func(a, b Row) int {
		if c := a.Marker.ExplodingAt.Compare(b.Marker.ExplodingAt); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Marker.ID, b.Marker.ID); c != 0 {
			return c
		}

		return cmp.Compare(a.Marker.Description, b.Marker.Description)
	})

	return rows
}

// Render writes one line per row.
func Render(w io.Writer, rows []Row) error {
	for _, row := range rows {
		id := row.Marker.ID
		if id == "" {
			id = "-"
		}

		_, err := fmt.Fprintf(w, "%s  %s  %-12s  %s\n",
			label(row.State),
			row.Marker.ExplodingAt.Format(time.DateOnly),
			id,
			row.Marker.Description,
		)
		if err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return nil
}

func label(state timebombs.State) string {
	text := fmt.Sprintf("%-8s", state)

	switch state {
	case timebombs.Disarmed:
		return disarmedStyle.Render(text)
	case timebombs.Armed:
		return armedStyle.Render(text)
	case timebombs.Exploded:
		return explodedStyle.Render(text)
	default:
		return text
	}
}

// Run resolves the registry from opts and lists it at opts' evaluation instant.
func Run(ctx context.Context, opts *checker.Options, w io.Writer) error {
	ctx = logger.WithName(ctx, "lister")

	registry, err := opts.Registry()
	if err != nil {
		return err
	}

	at := opts.Instant()
	rows := Rows(registry, at, opts.Skips)

	logger.DebugKV(ctx, "Listing timebombs", "reference", opts.Reference, "at", at.Format(time.RFC3339), "count", len(rows))

	return Render(w, rows)
}
