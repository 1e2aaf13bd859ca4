package genekeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
)

func TestCalculateWithPrimeGates(t *testing.T) {
	k := New(nil)
	out, err := k.Calculate(context.Background(), engine.Input{
		Options: map[string]interface{}{
			"prime_gates": []interface{}{1, 2, 3, 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, out.Result["activeGates"])
	assessments, ok := out.Result["gates"].([]GateAssessment)
	require.True(t, ok)
	assert.Len(t, assessments, 4)
	for _, a := range assessments {
		assert.NotEmpty(t, a.ShadowText)
		assert.NotEmpty(t, a.GiftText)
		assert.NotEmpty(t, a.SiddhiText)
	}
	assert.NotEmpty(t, out.WitnessPrompt)
	_, hasSuggestion := out.Result["suggestedFrequency"]
	assert.False(t, hasSuggestion)
}

func TestCalculateRejectsWrongPrimeGateCount(t *testing.T) {
	k := New(nil)
	_, err := k.Calculate(context.Background(), engine.Input{
		Options: map[string]interface{}{
			"prime_gates": []interface{}{1, 2, 3},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestCalculateRejectsOutOfRangeGate(t *testing.T) {
	k := New(nil)
	_, err := k.Calculate(context.Background(), engine.Input{
		Options: map[string]interface{}{
			"prime_gates": []interface{}{1, 2, 3, 99},
		},
	})
	require.Error(t, err)
}

func TestCalculateRejectsNoBirthOrPrimeGates(t *testing.T) {
	k := New(nil)
	_, err := k.Calculate(context.Background(), engine.Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestCalculateAttachesSuggestedFrequencyWhenLevelSupplied(t *testing.T) {
	k := New(nil)
	out, err := k.Calculate(context.Background(), engine.Input{
		Options: map[string]interface{}{
			"prime_gates":         []interface{}{1, 2, 3, 4},
			"consciousness_level": 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, wisdom.Shadow, out.Result["suggestedFrequency"])
}

func TestCalculateWithBirthRecordReusesHumanDesignGates(t *testing.T) {
	k := New(ephemeris.NewAnalyticOracle())
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1990-05-12", CivilTime: "14:30", Timezone: "America/New_York"},
	})
	require.NoError(t, err)
	gates, ok := out.Result["activeGates"].([]int)
	require.True(t, ok)
	assert.NotEmpty(t, gates)
}
