package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/resilience"
)

type flakyOracle struct {
	failuresLeft int
	lastLon      float64
}

func (f *flakyOracle) Position(ctx context.Context, planet Planet, instant time.Time) (float64, error) {
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return 0, apperrors.TransientFailure("simulated transient failure", nil)
	}
	return f.lastLon, nil
}

func TestRetryingOracleRetriesTransientFailures(t *testing.T) {
	inner := &flakyOracle{failuresLeft: 2, lastLon: 42.0}
	cfg := resilience.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	o := NewRetryingOracleWithConfig(inner, cfg)
	lon, err := o.Position(context.Background(), Sun, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 42.0, lon)
}

func TestRetryingOracleDoesNotRetryPermanentErrors(t *testing.T) {
	inner := &staticErrOracle{err: apperrors.InvalidInput("bad planet")}
	o := NewRetryingOracle(inner)
	_, err := o.Position(context.Background(), Sun, time.Now())
	assert.True(t, apperrors.CodeOf(err) == apperrors.CodeInvalidInput)
}

type staticErrOracle struct{ err error }

func (s *staticErrOracle) Position(ctx context.Context, planet Planet, instant time.Time) (float64, error) {
	return 0, s.err
}
