package timeparsing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidISO is returned when text is not an ISO-8601 date or date-time.
var ErrInvalidISO = errors.New("invalid ISO-8601 date-time")

// isoLayouts lists accepted layouts, most specific first.
// Fractional seconds are accepted after the seconds field by time.Parse itself.
//
//nolint:gochecknoglobals // Read-only lookup table.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// dateLength is the length of the YYYY-MM-DD prefix.
const dateLength = len("2006-01-02")

// ParseISO parses ISO-8601 text into an instant.
// Text carrying an offset keeps it; naive text is read in loc (time.Local when nil).
func ParseISO(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	s := strings.TrimSpace(text)

	// A single space is an accepted date/time separator.
	if len(s) > dateLength && s[dateLength] == ' ' {
		s = s[:dateLength] + "T" + s[dateLength+1:]
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidISO, text)
}
