package vedicclock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
)

func TestSecondsSinceSunriseAtSunriseIsZero(t *testing.T) {
	local := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, SecondsSinceSunrise(local))
}

func TestSecondsSinceSunriseWrapsBeforeSunrise(t *testing.T) {
	local := time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC)
	// one hour before 06:00 sunrise means 23 hours since the *previous* sunrise.
	assert.InDelta(t, 23*3600, SecondsSinceSunrise(local), 1)
}

func TestComputeSexagesimalAtSunrise(t *testing.T) {
	sex := ComputeSexagesimal(0)
	assert.Equal(t, Sexagesimal{0, 0, 0}, sex)
}

func TestComputeSexagesimalOneGhatiIn(t *testing.T) {
	sex := ComputeSexagesimal(1440) // exactly one Ghati
	assert.Equal(t, 1, sex.Ghati)
	assert.Equal(t, 0, sex.Pala)
}

func TestComputeSexagesimalSubdividesPalaAndVipala(t *testing.T) {
	sex := ComputeSexagesimal(1440 + 24 + 0.4) // 1 ghati, 1 pala, 1 vipala
	assert.Equal(t, 1, sex.Ghati)
	assert.Equal(t, 1, sex.Pala)
	assert.Equal(t, 1, sex.Vipala)
}

func TestHoraSundayFirstHourIsSun(t *testing.T) {
	assert.Equal(t, wisdom.Sun, Hora(time.Sunday, 0))
}

func TestHoraCyclesThroughChaldeanOrder(t *testing.T) {
	assert.Equal(t, wisdom.Venus, Hora(time.Sunday, 1))
	assert.Equal(t, wisdom.Mercury, Hora(time.Sunday, 2))
}

func TestHoraMondayFirstHourIsMoon(t *testing.T) {
	assert.Equal(t, wisdom.Moon, Hora(time.Monday, 0))
}

func TestChoghadiyaSlotDayVsNight(t *testing.T) {
	day := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)
	night := time.Date(2026, 1, 1, 19, 0, 0, 0, time.UTC)
	isDay, slot := ChoghadiyaSlot(day)
	assert.True(t, isDay)
	assert.Equal(t, 0, slot)
	isDay, slot = ChoghadiyaSlot(night)
	assert.False(t, isDay)
	assert.Equal(t, 0, slot)
}

func TestOrganClockWrapsMidnight(t *testing.T) {
	assert.Equal(t, "Gallbladder", OrganClock(23))
	assert.Equal(t, "Gallbladder", OrganClock(0))
	assert.Equal(t, "Liver", OrganClock(1))
	assert.Equal(t, "Heart", OrganClock(11))
}

func TestCalculateProducesNonEmptyPrompt(t *testing.T) {
	k := New()
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{Timezone: "UTC"},
		Now:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.WitnessPrompt)
	assert.Contains(t, out.Result, "hora")
}

func TestCalculateRejectsMissingTimezone(t *testing.T) {
	k := New()
	_, err := k.Calculate(context.Background(), engine.Input{Birth: &engine.BirthRecord{}})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}
