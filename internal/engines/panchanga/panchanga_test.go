package panchanga

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
)

func TestTithiFirstArc(t *testing.T) {
	assert.Equal(t, 1, Tithi(0, 5))
}

func TestTithiWrapsAtBoundary(t *testing.T) {
	assert.Equal(t, 2, Tithi(0, 12))
}

func TestTithiHandlesNegativeDiff(t *testing.T) {
	// moon behind sun by 1 degree normalizes to 359, tithi 30.
	assert.Equal(t, 30, Tithi(10, 9))
}

func TestYogaFirstArc(t *testing.T) {
	idx, name := Yoga(0, 0)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Vishkambha", name)
}

func TestKaranaFirstHalfTithi(t *testing.T) {
	idx, name := Karana(0, 3)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Balava", name)
}

type stubOracle struct {
	sun, moon float64
}

func (s stubOracle) Position(ctx context.Context, planet ephemeris.Planet, instant time.Time) (float64, error) {
	switch planet {
	case ephemeris.Sun:
		return s.sun, nil
	case ephemeris.Moon:
		return s.moon, nil
	default:
		return 0, apperrors.InvalidInput("unsupported planet in test stub")
	}
}

func TestCalculateProducesFullTuple(t *testing.T) {
	k := New(stubOracle{sun: 10, moon: 125})
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1990-05-12", CivilTime: "14:30", Timezone: "UTC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Magha", out.Result["nakshatra"])
	assert.NotEmpty(t, out.WitnessPrompt)
	assert.Contains(t, out.Result, "vara")
}

func TestCalculateRejectsMissingBirth(t *testing.T) {
	k := New(stubOracle{})
	_, err := k.Calculate(context.Background(), engine.Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}
