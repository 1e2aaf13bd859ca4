// Package biorhythm computes the three classical sine cycles (physical,
// emotional, intellectual) from whole days elapsed since birth.
package biorhythm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "biorhythm"

const (
	physicalPeriodDays     = 23.0
	emotionalPeriodDays    = 28.0
	intellectualPeriodDays = 33.0
)

// Cycles holds the three phase values, each in [-1, 1].
type Cycles struct {
	Days         int
	Physical     float64
	Emotional    float64
	Intellectual float64
}

// cycle evaluates sin(2*pi*days/period).
func cycle(days int, periodDays float64) float64 {
	return math.Sin(2 * math.Pi * float64(days) / periodDays)
}

// Compute returns the three cycle values for the given whole-day offset
// from birth, which may be negative (now before birth).
func Compute(days int) Cycles {
	return Cycles{
		Days:         days,
		Physical:     cycle(days, physicalPeriodDays),
		Emotional:    cycle(days, emotionalPeriodDays),
		Intellectual: cycle(days, intellectualPeriodDays),
	}
}

// DaysSinceBirth returns the whole civil days between b's birth date and
// instant now, both read in b's IANA timezone. Negative when now precedes
// birth.
func DaysSinceBirth(b *engine.BirthRecord, now time.Time) (int, error) {
	if b == nil || b.CivilDate == "" || b.Timezone == "" {
		return 0, apperrors.InvalidInput("biorhythm requires birth.civilDate and birth.tz")
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return 0, apperrors.InvalidInput("unknown timezone: " + b.Timezone)
	}
	birthDate, err := time.ParseInLocation("2006-01-02", b.CivilDate, loc)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid civil date: " + err.Error())
	}
	nowLocal := now.In(loc)
	nowDate := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(nowDate.Sub(birthDate).Hours() / 24)), nil
}

// Kernel implements engine.Kernel for biorhythm.
type Kernel struct{}

func New() *Kernel { return &Kernel{} }

func (k *Kernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return engine.Output{}, apperrors.TransientFailure("context cancelled", ctx.Err())
	}

	days, err := DaysSinceBirth(in.Birth, in.Now)
	if err != nil {
		return engine.Output{}, err
	}
	c := Compute(days)

	result := map[string]interface{}{
		"daysSinceBirth": c.Days,
		"physical":       c.Physical,
		"emotional":      c.Emotional,
		"intellectual":   c.Intellectual,
	}
	shape := fmt.Sprintf("physical %.2f, emotional %.2f, intellectual %.2f", c.Physical, c.Emotional, c.Intellectual)

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
