package ephemeris

import (
	"context"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
)

// epoch is the fixed reference instant the mean-longitude model measures
// elapsed days from.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// meanRate is each body's mean daily motion in degrees, approximating its
// real sidereal period. NorthNode regresses (negative rate, 18.6-year
// nodal cycle).
var meanRate = map[Planet]float64{
	Sun:       0.98560912,
	Moon:      13.17639648,
	Mercury:   4.09233445,
	Venus:     1.60213022,
	Mars:      0.52402068,
	Jupiter:   0.08308530,
	Saturn:    0.03346063,
	Uranus:    0.01172260,
	Neptune:   0.00598200,
	Pluto:     0.00397500,
	NorthNode: -0.05295360,
}

// epochLongitude is each body's mean longitude at epoch, degrees.
var epochLongitude = map[Planet]float64{
	Sun:       280.4665,
	Moon:      218.3165,
	Mercury:   252.2510,
	Venus:     181.9798,
	Mars:      355.4330,
	Jupiter:   34.3515,
	Saturn:    50.0775,
	Uranus:    314.0550,
	Neptune:   304.3487,
	Pluto:     238.9508,
	NorthNode: 125.0445,
}

// AnalyticOracle is the in-repo default EphemerisOracle: a deterministic
// mean-longitude model (fixed epoch plus a fixed daily rate per body). It
// satisfies the Oracle contract's four caller assumptions (spec.md §4.2)
// without depending on a real ephemeris data file, and is swappable behind
// Oracle for a production JPL/Swiss-Ephemeris-backed implementation later.
type AnalyticOracle struct{}

// NewAnalyticOracle constructs the default oracle.
func NewAnalyticOracle() *AnalyticOracle { return &AnalyticOracle{} }

// Position returns planet's longitude at instant. Earth and SouthNode are
// not served directly: use DeriveEarth/DeriveSouthNode on the Sun/NorthNode
// result instead, matching the oracle contract's caller-side derivation.
func (o *AnalyticOracle) Position(ctx context.Context, planet Planet, instant time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if planet == Earth || planet == SouthNode {
		return 0, apperrors.InvalidInput("planet " + string(planet) + " is caller-derived, not queried directly")
	}
	rate, ok := meanRate[planet]
	if !ok {
		return 0, apperrors.InvalidInput("unknown planet: " + string(planet))
	}
	days := instant.UTC().Sub(epoch).Hours() / 24
	lon := epochLongitude[planet] + rate*days
	return normalizeDegrees(lon), nil
}
