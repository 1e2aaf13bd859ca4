package vimshottari

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
)

func TestBuildChartMaghaWorkedExample(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)

	assert.Equal(t, "Magha", chart.BirthNakshatra.Name)
	assert.Equal(t, wisdom.Ketu, chart.StartingPlanet)
	assert.InDelta(t, 4.375, chart.BalanceYears, 1e-9)

	require.Len(t, chart.Mahas, 9)
	assert.Equal(t, wisdom.Ketu, chart.Mahas[0].Planet)
	assert.Equal(t, wisdom.Venus, chart.Mahas[1].Planet)
	assert.Equal(t, birthInstant, chart.Mahas[0].Start)
}

func TestBuildChartEachMahaHas9AntarsAnd9Pratyantars(t *testing.T) {
	chart := BuildChart(time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), 125.0)
	for _, m := range chart.Mahas {
		require.Len(t, m.Antars, 9)
		for _, a := range m.Antars {
			require.Len(t, a.Pratyantars, 9)
		}
	}
}

func TestFlattenHas729Entries(t *testing.T) {
	chart := BuildChart(time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), 125.0)
	assert.Len(t, Flatten(chart), 729)
}

func TestAntarEndMatchesNextAntarStart(t *testing.T) {
	chart := BuildChart(time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), 125.0)
	maha := chart.Mahas[0]
	for i := 0; i < len(maha.Antars)-1; i++ {
		assert.Equal(t, maha.Antars[i].End, maha.Antars[i+1].Start)
	}
}

func TestCurrentPeriodScenarioA(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)
	now := time.Date(2026, 1, 31, 5, 0, 0, 0, time.UTC)

	maha, antar, pratyantar, err := CurrentPeriod(chart, now)
	require.NoError(t, err)
	assert.True(t, !now.Before(maha.Start) && now.Before(maha.End))
	assert.True(t, !now.Before(antar.Start) && now.Before(antar.End))
	assert.True(t, !now.Before(pratyantar.Start) && now.Before(pratyantar.End))
}

func TestCurrentPeriodClampsBeforeBirth(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)
	maha, _, _, err := CurrentPeriod(chart, birthInstant.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, wisdom.Ketu, maha.Planet)
}

func TestCurrentPeriodClampsAfterChartEnd(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)
	lastMaha := chart.Mahas[len(chart.Mahas)-1]
	maha, _, _, err := CurrentPeriod(chart, lastMaha.End.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, lastMaha.Planet, maha.Planet)
}

func TestUpcomingTransitionsReturnsRequestedCountInAscendingOrder(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)
	now := time.Date(2026, 1, 31, 5, 0, 0, 0, time.UTC)

	transitions := UpcomingTransitions(chart, now, 5)
	require.Len(t, transitions, 5)
	for i, tr := range transitions {
		assert.GreaterOrEqual(t, tr.DaysUntil, 0.0)
		if i > 0 {
			assert.True(t, tr.At.After(transitions[i-1].At))
		}
	}
}

func TestUpcomingTransitionsClassifiesHighestChangedLevel(t *testing.T) {
	birthInstant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	chart := BuildChart(birthInstant, 125.0)
	maha := chart.Mahas[0]
	lastAntarOfMaha := maha.Antars[len(maha.Antars)-1]
	lastPratyOfAntar := lastAntarOfMaha.Pratyantars[len(lastAntarOfMaha.Pratyantars)-1]

	// just before the end of the first Maha's last Antar's last Pratyantar,
	// the very next transition must be classified "maha".
	transitions := UpcomingTransitions(chart, lastPratyOfAntar.Start, 1)
	require.Len(t, transitions, 1)
	assert.Equal(t, "maha", transitions[0].Type)
	assert.Equal(t, chart.Mahas[1].Planet, transitions[0].Planet)
}

type stubMoonOracle struct{ lon float64 }

func (s stubMoonOracle) Position(ctx context.Context, planet ephemeris.Planet, instant time.Time) (float64, error) {
	if planet == ephemeris.Moon {
		return s.lon, nil
	}
	return 0, apperrors.InvalidInput("unsupported planet in test stub")
}

func TestCalculateProducesNonEmptyPrompt(t *testing.T) {
	k := New(stubMoonOracle{lon: 125.0})
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1985-06-15", CivilTime: "00:00", Timezone: "UTC"},
		Now:   time.Date(2026, 1, 31, 5, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.WitnessPrompt)
	assert.Equal(t, "Magha", out.Result["birthNakshatra"])
}

func TestCalculateRejectsMissingBirth(t *testing.T) {
	k := New(stubMoonOracle{})
	_, err := k.Calculate(context.Background(), engine.Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}
