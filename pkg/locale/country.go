package locale

import (
	"time"
)

const (
	DefaultRegion   = "SE"
	DefaultTimezone = "Europe/Stockholm"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// LoadLocation resolves tz, falling back to UTC when the zone database lacks it.
func LoadLocation(tz string) *time.Location {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
