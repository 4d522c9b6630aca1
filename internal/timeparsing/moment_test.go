package timeparsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseMoment_ISO prefers ISO-8601 and reads naive text in the base location.
func TestParseMoment_ISO(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 11, 15, 10, 0, 0, 0, time.UTC)

	got, err := ParseMoment("2020-12-01", base)
	require.NoError(t, err)
	require.True(t, time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC).Equal(got))
}

// TestParseMoment_Natural resolves relative expressions against the base instant.
func TestParseMoment_Natural(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 11, 15, 10, 0, 0, 0, time.UTC)

	got, err := ParseMoment("tomorrow", base)
	require.NoError(t, err)
	require.Equal(t, 2020, got.Year())
	require.Equal(t, time.November, got.Month())
	require.Equal(t, 16, got.Day())
}

// TestParseMoment_Invalid rejects empty and unrecognizable text.
func TestParseMoment_Invalid(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 11, 15, 10, 0, 0, 0, time.UTC)

	_, err := ParseMoment("   ", base)
	require.ErrorIs(t, err, ErrInvalidMoment)

	_, err = ParseMoment("qwerty zxcv", base)
	require.ErrorIs(t, err, ErrInvalidMoment)

	// A recognizable phrase buried in other text is not a moment.
	for _, input := range []string{"deploy by 5pm or else", "tomorrow or so", "ship it tomorrow"} {
		_, err = ParseMoment(input, base)
		require.ErrorIs(t, err, ErrInvalidMoment, input)
	}
}
