// Package panchanga computes the tithi/nakshatra/yoga/karana/vara tuple
// from Sun and Moon ecliptic longitudes at the birth instant.
package panchanga

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/engines/birth"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "panchanga"

const yogaArcWidth = 360.0 / 27.0

var yogaNames = []string{
	"Vishkambha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda", "Sukarma",
	"Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva", "Vyaghata", "Harshana", "Vajra",
	"Siddhi", "Vyatipata", "Variyana", "Parigha", "Shiva", "Siddha", "Sadhya", "Shubha",
	"Shukla", "Brahma", "Indra", "Vaidhriti",
}

// karanaNames are the 11 karanas: 7 variable ones cycling through the
// month, followed by the 4 fixed ones near month end (spec.md §4.7.4's
// simplified "half-tithi index mod 11" indexing).
var karanaNames = []string{
	"Bava", "Balava", "Kaulava", "Taitila", "Gara", "Vanija", "Vishti",
	"Shakuni", "Chatushpada", "Naga", "Kimstughna",
}

func normalizeDegrees(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// Tithi returns the tithi index (1-30) for the given Sun/Moon longitudes.
func Tithi(sunLon, moonLon float64) int {
	diff := normalizeDegrees(moonLon - sunLon)
	idx := int(diff/12) + 1
	if idx > 30 {
		idx = 30
	}
	return idx
}

// Yoga returns the yoga index (1-27) and name.
func Yoga(sunLon, moonLon float64) (int, string) {
	sum := normalizeDegrees(moonLon + sunLon)
	idx := int(sum / yogaArcWidth)
	if idx > 26 {
		idx = 26
	}
	return idx + 1, yogaNames[idx]
}

// Karana returns the half-tithi index (1-60) and karana name.
func Karana(sunLon, moonLon float64) (int, string) {
	diff := normalizeDegrees(moonLon - sunLon)
	halfTithiIndex := int(diff/6) + 1
	if halfTithiIndex > 60 {
		halfTithiIndex = 60
	}
	karanaIdx := halfTithiIndex % len(karanaNames)
	return halfTithiIndex, karanaNames[karanaIdx]
}

// Kernel implements engine.Kernel for Panchanga.
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
		return engine.Output{}, apperrors.InvalidInput("panchanga requires a birth record")
	}

	tP, err := birth.ToUTC(in.Birth)
	if err != nil {
		return engine.Output{}, err
	}

	sunLon, err := k.oracle.Position(ctx, ephemeris.Sun, tP)
	if err != nil {
		return engine.Output{}, err
	}
	moonLon, err := k.oracle.Position(ctx, ephemeris.Moon, tP)
	if err != nil {
		return engine.Output{}, err
	}

	tithi := Tithi(sunLon, moonLon)
	yogaIdx, yogaName := Yoga(sunLon, moonLon)
	_, karanaName := Karana(sunLon, moonLon)
	nak := wisdom.NakshatraForLongitude(moonLon)

	loc, err := time.LoadLocation(in.Birth.Timezone)
	if err != nil {
		return engine.Output{}, apperrors.InvalidInput("unknown timezone: " + in.Birth.Timezone)
	}
	vara := birth.Weekday(tP, loc).String()

	result := map[string]interface{}{
		"tithi":     tithi,
		"yoga":      yogaName,
		"yogaIndex": yogaIdx,
		"karana":    karanaName,
		"vara":      vara,
		"nakshatra": nak.Name,
	}
	shape := fmt.Sprintf("tithi %d, %s yoga, %s karana, %s nakshatra, %s", tithi, yogaName, karanaName, nak.Name, vara)

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
