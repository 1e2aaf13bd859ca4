// Package birth parses a BirthRecord's civil date/time/timezone fields
// into an absolute instant, a step every native engine kernel needs before
// it can query WisdomTables or the EphemerisOracle.
package birth

import (
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

// civilLayouts are tried in order against CivilTime, since spec.md allows
// either HH:MM or HH:MM:SS.
var civilLayouts = []string{"15:04:05", "15:04"}

// ToUTC interprets b's civil date and time in its IANA timezone and
// converts the result to UTC (spec.md §4.7.1's t_P).
func ToUTC(b *engine.BirthRecord) (time.Time, error) {
	if b == nil {
		return time.Time{}, apperrors.InvalidInput("birth record is required")
	}
	if b.CivilDate == "" || b.CivilTime == "" || b.Timezone == "" {
		return time.Time{}, apperrors.InvalidInput("birth record requires civilDate, civilTime and tz")
	}
	if b.Latitude < -90 || b.Latitude > 90 {
		return time.Time{}, apperrors.InvalidInput("latitude out of range")
	}
	if b.Longitude < -180 || b.Longitude > 180 {
		return time.Time{}, apperrors.InvalidInput("longitude out of range")
	}

	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("unknown timezone: " + b.Timezone)
	}

	var lastErr error
	for _, layout := range civilLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, b.CivilDate+" "+b.CivilTime, loc)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, apperrors.InvalidInput("invalid civil time: " + lastErr.Error())
}

// Weekday returns the weekday of instant within loc's civil calendar.
func Weekday(instant time.Time, loc *time.Location) time.Weekday {
	return instant.In(loc).Weekday()
}
