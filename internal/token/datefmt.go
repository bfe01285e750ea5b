package token

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// defaultDateFormat is spec.md §3.1's default date format.
const defaultDateFormat = "%Y-%m-%d"

// parseDateWithFormat parses value according to a strftime-style format
// string (spec.md §4.1: "date" parsing uses the supplied format if given,
// else the default), via go-strftime's Parse — symmetric with formatDate
// below, which uses the library's Format. This project otherwise
// hand-rolls nothing for the strftime<->Go-layout translation, since the
// library already owns that concern.
func parseDateWithFormat(value, format string) (time.Time, error) {
	t, err := strftime.Parse(format, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("problem parsing date value %q using format %q: %w", value, format, err)
	}
	return t, nil
}

// formatDate renders t according to a strftime-style format string, used
// for Token.GetValue() on Date tokens so that the display round-trips
// (spec.md §3.1's invariant).
func formatDate(t time.Time, format string) string {
	return strftime.Format(format, t)
}
