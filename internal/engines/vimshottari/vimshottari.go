// Package vimshottari computes the Vimshottari Dasha timeline: 9 Maha, 9
// Antar per Maha, 9 Pratyantar per Antar, plus current-period lookup and
// an upcoming-transition list (spec.md §4.7.3).
package vimshottari

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/tidwall/gjson"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/engines/birth"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "vimshottari"

// daysPerYear is the nominal Vimshottari year length, following the
// common Jyotish convention of the mean Gregorian year rather than a
// 360-day savana year (an Open Question decision, see DESIGN.md).
const daysPerYear = 365.25

func yearsToDuration(years float64) time.Duration {
	return time.Duration(years * daysPerYear * 24 * float64(time.Hour))
}

// Pratyantar is the finest-grained sub-period.
type Pratyantar struct {
	Planet wisdom.VedicPlanet
	Start  time.Time
	End    time.Time
}

// Antar is a Maha's sub-period, itself subdivided into 9 Pratyantar.
type Antar struct {
	Planet      wisdom.VedicPlanet
	Start       time.Time
	End         time.Time
	Pratyantars []Pratyantar
}

// Maha is a top-level Vimshottari period, subdivided into 9 Antar.
type Maha struct {
	Planet wisdom.VedicPlanet
	Start  time.Time
	End    time.Time
	Antars []Antar
}

// Chart is the full 9-Maha/9-Antar/9-Pratyantar Vimshottari timeline.
type Chart struct {
	BirthNakshatra wisdom.Nakshatra
	StartingPlanet wisdom.VedicPlanet
	BalanceYears   float64
	Mahas          []Maha
}

// period is an internal (planet, years, start, end) tuple shared by the
// Antar and Pratyantar subdivision step.
type period struct {
	Planet wisdom.VedicPlanet
	Years  float64
	Start  time.Time
	End    time.Time
}

// subdivideNine splits totalYears starting at startTime into 9 periods,
// one per planet starting at startPlanet and cycling the Vimshottari
// order, each sized totalYears*periodYears(planet)/120 (spec.md §4.7.3).
func subdivideNine(startTime time.Time, totalYears float64, startPlanet wisdom.VedicPlanet) []period {
	out := make([]period, 0, 9)
	t := startTime
	planet := startPlanet
	for i := 0; i < 9; i++ {
		years := totalYears * wisdom.PeriodYears[planet] / wisdom.TotalCycleYears
		end := t.Add(yearsToDuration(years))
		out = append(out, period{Planet: planet, Years: years, Start: t, End: end})
		t = end
		planet = wisdom.NextPlanet(planet)
	}
	return out
}

// BuildChart derives the full Vimshottari timeline from the birth instant
// and the Moon's ecliptic longitude at birth.
func BuildChart(birthInstant time.Time, moonLongitude float64) Chart {
	nak := wisdom.NakshatraForLongitude(moonLongitude)
	ruler := nak.Ruler
	balance := ((nak.ArcEnd - moonLongitude) / wisdom.NakshatraArcWidth) * wisdom.PeriodYears[ruler]

	mahas := make([]Maha, 0, 9)
	t := birthInstant
	planet := ruler
	for i := 0; i < 9; i++ {
		years := wisdom.PeriodYears[planet]
		if i == 0 {
			years = balance
		}
		end := t.Add(yearsToDuration(years))

		antarPeriods := subdivideNine(t, years, planet)
		antars := make([]Antar, 0, 9)
		for _, ap := range antarPeriods {
			pratyPeriods := subdivideNine(ap.Start, ap.Years, ap.Planet)
			pratyantars := make([]Pratyantar, 0, 9)
			for _, pp := range pratyPeriods {
				pratyantars = append(pratyantars, Pratyantar{Planet: pp.Planet, Start: pp.Start, End: pp.End})
			}
			antars = append(antars, Antar{Planet: ap.Planet, Start: ap.Start, End: ap.End, Pratyantars: pratyantars})
		}

		mahas = append(mahas, Maha{Planet: planet, Start: t, End: end, Antars: antars})
		t = end
		planet = wisdom.NextPlanet(planet)
	}

	return Chart{
		BirthNakshatra: nak,
		StartingPlanet: ruler,
		BalanceYears:   balance,
		Mahas:          mahas,
	}
}

// flatEntry is one leaf (Pratyantar) of the flattened 729-entry timeline,
// carrying its parent indices for current-period and transition lookups.
type flatEntry struct {
	MahaIdx, AntarIdx, PratyantarIdx int
	Planet                           wisdom.VedicPlanet
	Start, End                       time.Time
}

// Flatten lays out every Pratyantar in chronological order (729 entries
// for a full chart).
func Flatten(c Chart) []flatEntry {
	out := make([]flatEntry, 0, 9*9*9)
	for mi, m := range c.Mahas {
		for ai, a := range m.Antars {
			for pi, p := range a.Pratyantars {
				out = append(out, flatEntry{MahaIdx: mi, AntarIdx: ai, PratyantarIdx: pi, Planet: p.Planet, Start: p.Start, End: p.End})
			}
		}
	}
	return out
}

// CurrentPeriod returns the Maha, Antar and Pratyantar containing now,
// found by binary search over the flattened timeline. now before the
// chart's start or after its end clamps to the first or last entry
// respectively.
func CurrentPeriod(c Chart, now time.Time) (Maha, Antar, Pratyantar, error) {
	flat := Flatten(c)
	if len(flat) == 0 {
		return Maha{}, Antar{}, Pratyantar{}, apperrors.CalculationFailed(EngineID, "empty vimshottari chart")
	}
	idx := sort.Search(len(flat), func(i int) bool {
		return flat[i].End.After(now)
	})
	if idx >= len(flat) {
		idx = len(flat) - 1
	}
	e := flat[idx]
	maha := c.Mahas[e.MahaIdx]
	antar := maha.Antars[e.AntarIdx]
	pratyantar := antar.Pratyantars[e.PratyantarIdx]
	return maha, antar, pratyantar, nil
}

// Transition describes a future boundary where the ruling planet changes
// at some level of the hierarchy.
type Transition struct {
	Type      string // "maha", "antar" or "pratyantar"
	Planet    wisdom.VedicPlanet
	At        time.Time
	DaysUntil float64
}

// UpcomingTransitions walks forward from now's position in the flattened
// timeline, collecting up to count future boundaries. Each transition's
// type is the highest level (Maha > Antar > Pratyantar) at which the
// planet changed (spec.md §4.7.3).
func UpcomingTransitions(c Chart, now time.Time, count int) []Transition {
	flat := Flatten(c)
	if len(flat) == 0 || count <= 0 {
		return nil
	}
	idx := sort.Search(len(flat), func(i int) bool {
		return flat[i].End.After(now)
	})
	if idx >= len(flat) {
		idx = len(flat) - 1
	}

	out := make([]Transition, 0, count)
	for i := idx; i < len(flat)-1 && len(out) < count; i++ {
		cur, next := flat[i], flat[i+1]
		var kind string
		switch {
		case cur.MahaIdx != next.MahaIdx:
			kind = "maha"
		case cur.AntarIdx != next.AntarIdx:
			kind = "antar"
		default:
			kind = "pratyantar"
		}
		out = append(out, Transition{
			Type:      kind,
			Planet:    next.Planet,
			At:        cur.End,
			DaysUntil: cur.End.Sub(now).Hours() / 24,
		})
	}
	return out
}

// transitionCount reads options.transition_count, defaulting to 5.
const defaultTransitionCount = 5

// transitionCount reads the upcoming-transition count override from the
// request's free-form options bag. A plain "transition_count" key is read
// with gjson's cheap single-key lookup; a nested "vimshottari.count"
// override (for callers that namespace options per engine) is read with a
// full jsonpath expression. Either form is optional; malformed or absent
// values fall back to the default.
func transitionCount(options map[string]interface{}) int {
	if len(options) == 0 {
		return defaultTransitionCount
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return defaultTransitionCount
	}

	if v := gjson.GetBytes(raw, "transition_count"); v.Exists() && v.Type == gjson.Number {
		return int(v.Int())
	}

	if v, err := jsonpath.Get("$.vimshottari.count", options); err == nil {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}

	return defaultTransitionCount
}

// Kernel implements engine.Kernel for Vimshottari Dasha.
type Kernel struct {
	oracle ephemeris.Oracle
}

func New(oracle ephemeris.Oracle) *Kernel {
	return &Kernel{oracle: oracle}
}

func (k *Kernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return engine.Output{}, apperrors.TransientFailure("context cancelled", ctx.Err())
	}
	if in.Birth == nil {
		return engine.Output{}, apperrors.InvalidInput("vimshottari requires a birth record")
	}

	tP, err := birth.ToUTC(in.Birth)
	if err != nil {
		return engine.Output{}, err
	}
	moonLon, err := k.oracle.Position(ctx, ephemeris.Moon, tP)
	if err != nil {
		return engine.Output{}, err
	}

	chart := BuildChart(tP, moonLon)

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	maha, antar, pratyantar, err := CurrentPeriod(chart, now)
	if err != nil {
		return engine.Output{}, err
	}
	transitions := UpcomingTransitions(chart, now, transitionCount(in.Options))

	transitionOut := make([]map[string]interface{}, 0, len(transitions))
	for _, tr := range transitions {
		transitionOut = append(transitionOut, map[string]interface{}{
			"type":      tr.Type,
			"planet":    tr.Planet,
			"at":        tr.At,
			"daysUntil": tr.DaysUntil,
		})
	}

	result := map[string]interface{}{
		"birthNakshatra": chart.BirthNakshatra.Name,
		"startingPlanet": chart.StartingPlanet,
		"balanceYears":   chart.BalanceYears,
		"currentPeriod": map[string]interface{}{
			"maha":       maha.Planet,
			"antar":      antar.Planet,
			"pratyantar": pratyantar.Planet,
			"mahaStart":  maha.Start,
			"mahaEnd":    maha.End,
		},
		"upcomingTransitions": transitionOut,
	}
	shape := fmt.Sprintf("%s Maha, %s Antar, %s Pratyantar", maha.Planet, antar.Planet, pratyantar.Planet)

	level := engine.ConsciousnessLevel(in)
	prompt, err := witness.Generate(EngineID, level, shape)
	if err != nil {
		return engine.Output{}, err
	}

	return engine.Output{
		EngineID:           EngineID,
		Result:             result,
		WitnessPrompt:      prompt,
		ConsciousnessLevel: level,
		Metadata: engine.OutputMetadata{
			CalcMillis: float64(time.Since(start).Microseconds()) / 1000.0,
			Backend:    "native",
			Timestamp:  time.Now().UTC(),
		},
	}, nil
}
