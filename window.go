package reconcile

import (
	"fmt"
	"time"
)

// DateLayout is the only date format accepted in field 0 of a Record.
const DateLayout = "2006-01-02"

// window is the tolerance window around a record date: the canonical
// day-before, day, and day-after strings.
type window struct {
	before string
	day    string
	after  string
}

// parseDay parses s as a calendar date. Anything with a time component or
// an out-of-range day is rejected.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date(%s): %w", s, err)
	}
	return d, nil
}

// newWindow returns the window centered on the date s.
func newWindow(s string) (window, error) {
	d, err := parseDay(s)
	if err != nil {
		return window{}, err
	}
	return window{
		before: d.AddDate(0, 0, -1).Format(DateLayout),
		day:    d.Format(DateLayout),
		after:  d.AddDate(0, 0, 1).Format(DateLayout),
	}, nil
}
