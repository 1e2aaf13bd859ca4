package numerology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

func TestLifePathReducesToSingleDigit(t *testing.T) {
	// 1 9 9 0 0 5 1 2 = 27 -> 9
	lp, err := LifePath("1990-05-12")
	require.NoError(t, err)
	assert.Equal(t, 9, lp)
}

func TestLifePathPreservesMasterNumber(t *testing.T) {
	// Use a date whose digits sum to 29 -> 11, a master number kept unreduced.
	lp, err := LifePath("1990-11-08")
	require.NoError(t, err)
	// digits: 1+9+9+0+1+1+0+8 = 29 -> 2+9 = 11
	assert.Equal(t, 11, lp)
}

func TestLifePathRejectsMalformedDate(t *testing.T) {
	_, err := LifePath("not-a-date")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestExpressionAndSoulUrgeKnownName(t *testing.T) {
	// "ADA": A=1 D=4 A=1 -> sum 6, vowels A,A -> 2
	assert.Equal(t, 6, Expression("ADA"))
	assert.Equal(t, 2, SoulUrge("ADA"))
}

func TestNameNumbersIgnoreNonLetters(t *testing.T) {
	assert.Equal(t, Expression("ADA"), Expression("A-D A"))
}

func TestCalculateOmitsNameNumbersWhenNoNameSupplied(t *testing.T) {
	k := New()
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1990-05-12"},
	})
	require.NoError(t, err)
	_, hasExpr := out.Result["expression"]
	assert.False(t, hasExpr)
	assert.NotEmpty(t, out.WitnessPrompt)
}

func TestCalculateIncludesNameNumbersWhenNameSupplied(t *testing.T) {
	k := New()
	out, err := k.Calculate(context.Background(), engine.Input{
		Birth: &engine.BirthRecord{CivilDate: "1990-05-12", DisplayName: "Ada"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.Result, "expression")
	assert.Contains(t, out.Result, "soulUrge")
}

func TestCalculateRejectsMissingBirth(t *testing.T) {
	k := New()
	_, err := k.Calculate(context.Background(), engine.Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}
