package ephemeris

import (
	"context"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/resilience"
)

// RetryingOracle wraps an Oracle with exponential-backoff retry, retrying
// only the transient-failure class the contract distinguishes from
// permanent bad-input errors (spec.md §4.2/§7).
type RetryingOracle struct {
	inner Oracle
	cfg   resilience.Config
}

// NewRetryingOracle wraps inner with resilience's default retry config.
func NewRetryingOracle(inner Oracle) *RetryingOracle {
	return &RetryingOracle{inner: inner, cfg: resilience.DefaultConfig()}
}

// NewRetryingOracleWithConfig wraps inner with an explicit retry config.
func NewRetryingOracleWithConfig(inner Oracle, cfg resilience.Config) *RetryingOracle {
	return &RetryingOracle{inner: inner, cfg: cfg}
}

func (o *RetryingOracle) Position(ctx context.Context, planet Planet, instant time.Time) (float64, error) {
	var lon float64
	err := resilience.Retry(ctx, o.cfg, resilience.Is(apperrors.ErrTransientFailure), func() error {
		var innerErr error
		lon, innerErr = o.inner.Position(ctx, planet, instant)
		return innerErr
	})
	return lon, err
}
