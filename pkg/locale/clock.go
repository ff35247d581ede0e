package locale

import (
	"fmt"
	"time"
)

// ParseLocal reads a wizard date ("2006-01-02") and optional clock time ("15:04")
// as wall time in loc. A nil loc means UTC.
func ParseLocal(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// IsPast reports whether the wall time date+clock in loc lies before now.
func IsPast(date, clock string, loc *time.Location, now time.Time) (bool, error) {
	t, err := ParseLocal(date, clock, loc)
	if err != nil {
		return false, err
	}
	return t.Before(now), nil
}
