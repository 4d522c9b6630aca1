package timeparsing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrInvalidMoment is returned when text is neither ISO-8601 nor a recognizable expression.
var ErrInvalidMoment = errors.New("invalid moment")

// naturalParser recognizes English relative expressions.
//
//nolint:gochecknoglobals // The parser is stateless once rules are registered.
var naturalParser = newNaturalParser()

func newNaturalParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return w
}

// ParseMoment resolves text into an instant.
// ISO-8601 is tried first (naive text is read in base's location),
// then natural language relative to base. A natural-language expression
// must span the whole text.
func ParseMoment(text string, base time.Time) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidMoment)
	}

	if t, err := ParseISO(s, base.Location()); err == nil {
		return t, nil
	}

	result, err := naturalParser.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidMoment, text, err)
	}

	// The expression must be the whole input, not a phrase found inside it.
	if result == nil || result.Index != 0 || strings.TrimSpace(result.Text) != s {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMoment, text)
	}

	return result.Time, nil
}
