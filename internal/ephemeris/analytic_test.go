package ephemeris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticOracleIsDeterministic(t *testing.T) {
	o := NewAnalyticOracle()
	instant := time.Date(2026, 1, 31, 5, 0, 0, 0, time.UTC)
	a, err := o.Position(context.Background(), Sun, instant)
	require.NoError(t, err)
	b, err := o.Position(context.Background(), Sun, instant)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnalyticOraclePositionInRange(t *testing.T) {
	o := NewAnalyticOracle()
	instant := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, p := range []Planet{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, NorthNode} {
		lon, err := o.Position(context.Background(), p, instant)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, lon, 0.0)
		assert.Less(t, lon, 360.0)
	}
}

func TestAnalyticOracleRejectsEarthAndSouthNode(t *testing.T) {
	o := NewAnalyticOracle()
	_, err := o.Position(context.Background(), Earth, time.Now())
	assert.Error(t, err)
	_, err = o.Position(context.Background(), SouthNode, time.Now())
	assert.Error(t, err)
}

func TestAnalyticOracleRejectsUnknownPlanet(t *testing.T) {
	o := NewAnalyticOracle()
	_, err := o.Position(context.Background(), Planet("Vulcan"), time.Now())
	assert.Error(t, err)
}

func TestDeriveEarthAndSouthNode(t *testing.T) {
	assert.InDelta(t, 280.0, DeriveEarth(100.0), 1e-9)
	assert.InDelta(t, 10.0, DeriveEarth(190.0), 1e-9)
	assert.InDelta(t, 50.0, DeriveSouthNode(230.0), 1e-9)
}

func TestAnalyticOracleHonorsContextCancellation(t *testing.T) {
	o := NewAnalyticOracle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Position(ctx, Sun, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
