// Package wisdom holds the static reference data every engine kernel reads:
// the 64 gates, 36 channels, 9 centers, 27 nakshatras, the Vimshottari
// planet cycle, per-planet archetypal metadata and Gene Keys frequency
// text. All tables are immutable after load and safe for concurrent reads
// (spec.md §4.3).
package wisdom

import (
	"fmt"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
)

// Tables is the loaded, validated snapshot of all reference data. The zero
// value is usable: all lookups are backed by package-level lazily-built
// tables, so Tables itself only needs to exist to be passed around and to
// anchor the load-time integrity check.
type Tables struct{}

// Load builds and validates every table, returning IntegrityError if any
// invariant fails. Call once at startup; the result is safe to share
// across all goroutines for the lifetime of the process.
func Load() (*Tables, error) {
	if err := validate(); err != nil {
		return nil, err
	}
	return &Tables{}, nil
}

// MustLoad is Load but panics on failure, for use at process startup where
// a broken reference-data table is a fatal misconfiguration, not a
// request-scoped error.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// validate runs the load-time integrity checks spec.md §4.3 requires:
// gate/nakshatra arcs tile the full circle exactly, nakshatra rulers cycle
// correctly, and per-planet Vimshottari years sum to 120.
func validate() error {
	if err := validateGateArcs(); err != nil {
		return apperrors.IntegrityError(err.Error())
	}
	if err := validateNakshatraArcs(); err != nil {
		return apperrors.IntegrityError(err.Error())
	}
	if err := validateNakshatraRulerCycle(); err != nil {
		return apperrors.IntegrityError(err.Error())
	}
	if err := validatePeriodYears(); err != nil {
		return apperrors.IntegrityError(err.Error())
	}
	if err := ValidateGeneKeys(); err != nil {
		return apperrors.IntegrityError(err.Error())
	}
	return nil
}

func validateGateArcs() error {
	gates := Gates()
	if len(gates) != 64 {
		return fmt.Errorf("expected 64 gates, got %d", len(gates))
	}
	for i, g := range gates {
		wantStart := float64(i) * GateArcWidth
		if g.ArcStart != wantStart || g.ArcEnd != wantStart+GateArcWidth {
			return fmt.Errorf("gate %d arc does not tile at index %d", g.Number, i)
		}
		if g.Center == "" {
			return fmt.Errorf("gate %d has no center assignment", g.Number)
		}
	}
	last := gates[len(gates)-1]
	if last.ArcEnd != 360 {
		return fmt.Errorf("gate arcs do not close the circle: last end = %f", last.ArcEnd)
	}
	return nil
}

func validateNakshatraArcs() error {
	ns := Nakshatras()
	if len(ns) != 27 {
		return fmt.Errorf("expected 27 nakshatras, got %d", len(ns))
	}
	for i, n := range ns {
		wantStart := float64(i) * NakshatraArcWidth
		if n.ArcStart != wantStart {
			return fmt.Errorf("nakshatra %q arc does not tile at index %d", n.Name, i)
		}
	}
	last := ns[len(ns)-1]
	if diff := last.ArcEnd - 360; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("nakshatra arcs do not close the circle: last end = %f", last.ArcEnd)
	}
	return nil
}

func validateNakshatraRulerCycle() error {
	ns := Nakshatras()
	for i, n := range ns {
		want := PlanetCycle[i%len(PlanetCycle)]
		if n.Ruler != want {
			return fmt.Errorf("nakshatra %q ruler %q does not match 9-planet cycle position", n.Name, n.Ruler)
		}
	}
	return nil
}

func validatePeriodYears() error {
	var sum float64
	for _, p := range PlanetCycle {
		years, ok := PeriodYears[p]
		if !ok {
			return fmt.Errorf("planet %q has no period years", p)
		}
		sum += years
	}
	if sum != TotalCycleYears {
		return fmt.Errorf("vimshottari period years sum to %f, want %d", sum, TotalCycleYears)
	}
	return nil
}
