package biorhythm

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

func TestComputeAtDayZeroIsAllZero(t *testing.T) {
	c := Compute(0)
	assert.InDelta(t, 0, c.Physical, 1e-9)
	assert.InDelta(t, 0, c.Emotional, 1e-9)
	assert.InDelta(t, 0, c.Intellectual, 1e-9)
}

func TestComputeAtFullPeriodReturnsToZero(t *testing.T) {
	c := Compute(23)
	assert.InDelta(t, 0, c.Physical, 1e-9)
}

func TestComputeNearQuarterPeriodIsPositive(t *testing.T) {
	// The exact quarter period (sin(pi/2) = 1) is not a whole day; 23/4
	// truncates to day 5, where sin(2*pi*5/23) is about 0.98.
	c := Compute(23 / 4)
	assert.Greater(t, c.Physical, 0.0)
}

func TestComputeHandlesNegativeDays(t *testing.T) {
	pos := Compute(5)
	neg := Compute(-5)
	assert.InDelta(t, -pos.Physical, neg.Physical, 1e-9)
	assert.InDelta(t, -pos.Emotional, neg.Emotional, 1e-9)
	assert.InDelta(t, -pos.Intellectual, neg.Intellectual, 1e-9)
}

func TestDaysSinceBirthIsZeroOnBirthDate(t *testing.T) {
	b := &engine.BirthRecord{CivilDate: "1990-05-12", Timezone: "UTC"}
	now := time.Date(1990, 5, 12, 13, 0, 0, 0, time.UTC)
	days, err := DaysSinceBirth(b, now)
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestDaysSinceBirthIsNegativeBeforeBirth(t *testing.T) {
	b := &engine.BirthRecord{CivilDate: "1990-05-12", Timezone: "UTC"}
	now := time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
	days, err := DaysSinceBirth(b, now)
	require.NoError(t, err)
	assert.Equal(t, -2, days)
}

func TestDaysSinceBirthIsPositiveAfterBirth(t *testing.T) {
	b := &engine.BirthRecord{CivilDate: "1990-05-12", Timezone: "UTC"}
	now := time.Date(1990, 6, 11, 0, 0, 0, 0, time.UTC)
	days, err := DaysSinceBirth(b, now)
	require.NoError(t, err)
	assert.Equal(t, 30, days)
}

func TestDaysSinceBirthRejectsMissingFields(t *testing.T) {
	_, err := DaysSinceBirth(&engine.BirthRecord{}, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestCalculateProducesNonEmptyPrompt(t *testing.T) {
	k := New()
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1990-05-12", Timezone: "UTC"},
		Now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.WitnessPrompt)
	assert.False(t, math.IsNaN(out.Result["physical"].(float64)))
}
