package timezone

import (
	"fmt"
	"time"

	"campusbook/config"
	"campusbook/shared/constant"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var (
	appLocation = time.UTC
	clock       = time.Now
)

func init() {
	cfg := config.Get()

	name := cfg.App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return
	}

	if err := SetLocation(name); err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to " + defaultZone)

		return
	}

	log.Info().Str("timezone", name).Msg("Application timezone initialized")
}

// SetLocation switches the application zone. name must be an IANA zone such as "Asia/Kolkata".
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load location %q: %w", name, err)
	}

	appLocation = loc

	return nil
}

// SetClock replaces the time source and returns a func restoring the previous one.
func SetClock(now func() time.Time) (restore func()) {
	previous := clock
	clock = now

	return func() { clock = previous }
}

func Now() time.Time {
	return clock().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse reads value as a time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

var wallClockLayouts = []string{
	constant.WallClockFormat,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// WallClock drops the zone of t and keeps its calendar fields, labelled UTC.
// Booking windows are stored and compared as zone-less wall clock instants.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// WallClockNow returns the application wall clock as a zone-less instant.
func WallClockNow() time.Time {
	return WallClock(Now())
}

// ParseWallClock accepts the naive datetime layouts and RFC 3339.
// An RFC 3339 offset is discarded; the written wall clock is kept.
func ParseWallClock(value string) (time.Time, error) {
	for _, layout := range wallClockLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", value, err)
	}

	return WallClock(parsed), nil
}

// CombineWallClock joins a "2006-01-02" date and a "15:04" clock time.
func CombineWallClock(date, clock string) (time.Time, error) {
	parsed, err := time.Parse(constant.DateOnlyFormat+" "+constant.ClockFormat, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q or time %q: %w", date, clock, err)
	}

	return parsed, nil
}
