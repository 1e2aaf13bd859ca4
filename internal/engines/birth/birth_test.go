package birth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

func validRecord() *engine.BirthRecord {
	return &engine.BirthRecord{
		CivilDate: "1990-05-12",
		CivilTime: "14:30",
		Timezone:  "America/New_York",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}
}

func TestToUTCRejectsNilRecord(t *testing.T) {
	_, err := ToUTC(nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestToUTCRejectsMissingFields(t *testing.T) {
	b := validRecord()
	b.Timezone = ""
	_, err := ToUTC(b)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestToUTCRejectsOutOfRangeLatitude(t *testing.T) {
	b := validRecord()
	b.Latitude = 95
	_, err := ToUTC(b)
	require.Error(t, err)
}

func TestToUTCRejectsOutOfRangeLongitude(t *testing.T) {
	b := validRecord()
	b.Longitude = -200
	_, err := ToUTC(b)
	require.Error(t, err)
}

func TestToUTCRejectsUnknownTimezone(t *testing.T) {
	b := validRecord()
	b.Timezone = "Nowhere/Imaginary"
	_, err := ToUTC(b)
	require.Error(t, err)
}

func TestToUTCAcceptsHHMM(t *testing.T) {
	b := validRecord()
	b.CivilTime = "14:30"
	got, err := ToUTC(b)
	require.NoError(t, err)
	// 1990-05-12 14:30 EDT (UTC-4) == 18:30 UTC
	assert.Equal(t, time.Date(1990, 5, 12, 18, 30, 0, 0, time.UTC), got)
}

func TestToUTCAcceptsHHMMSS(t *testing.T) {
	b := validRecord()
	b.CivilTime = "14:30:45"
	got, err := ToUTC(b)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 5, 12, 18, 30, 45, 0, time.UTC), got)
}

func TestToUTCRejectsMalformedTime(t *testing.T) {
	b := validRecord()
	b.CivilTime = "not-a-time"
	_, err := ToUTC(b)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestWeekdayUsesLocalCalendarDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 1990-05-12 00:30 UTC is still 1990-05-11 20:30 in New York.
	instant := time.Date(1990, 5, 12, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Friday, Weekday(instant, loc))
}
