// Package ephemeris implements the EphemerisOracle contract (spec.md
// §4.2): a single operation, position(planet, instant), deterministic for
// equal arguments, with a retryable transient-failure mode distinct from a
// permanent bad-input error. Earth and South Node are not served directly
// by the oracle; callers derive them as (Sun + 180 mod 360) and
// (NorthNode + 180 mod 360) respectively, per the contract.
package ephemeris

import (
	"context"
	"time"
)

// Planet is one of the bodies the oracle serves positions for.
type Planet string

const (
	Sun       Planet = "Sun"
	Moon      Planet = "Moon"
	NorthNode Planet = "NorthNode"
	Mercury   Planet = "Mercury"
	Venus     Planet = "Venus"
	Mars      Planet = "Mars"
	Jupiter   Planet = "Jupiter"
	Saturn    Planet = "Saturn"
	Uranus    Planet = "Uranus"
	Neptune   Planet = "Neptune"
	Pluto     Planet = "Pluto"

	// Earth and SouthNode are not queried directly; see DeriveEarth and
	// DeriveSouthNode.
	Earth     Planet = "Earth"
	SouthNode Planet = "SouthNode"
)

// Oracle exposes planet longitude at a UTC instant. Implementations must
// be deterministic for equal (planet, instant) pairs.
type Oracle interface {
	Position(ctx context.Context, planet Planet, instant time.Time) (float64, error)
}

// DeriveEarth computes Earth's longitude from the Sun's, per the oracle
// contract's caller-side derivation rule.
func DeriveEarth(sunLongitude float64) float64 {
	return normalizeDegrees(sunLongitude + 180)
}

// DeriveSouthNode computes the South Node's longitude from the North
// Node's, per the oracle contract's caller-side derivation rule.
func DeriveSouthNode(northNodeLongitude float64) float64 {
	return normalizeDegrees(northNodeLongitude + 180)
}

func normalizeDegrees(v float64) float64 {
	m := v
	for m < 0 {
		m += 360
	}
	for m >= 360 {
		m -= 360
	}
	return m
}
