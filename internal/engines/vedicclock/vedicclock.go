// Package vedicclock computes Ghati/Pala/Vipala sexagesimal subdivisions
// of the local civil day plus hora, choghadiya and organ-clock overlay
// data, all keyed off a simplified fixed local-sunrise-at-06:00
// convention (no sunrise ephemeris lookup).
package vedicclock

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "vedic_clock"

// sunriseHour is the fixed local civil hour treated as sunrise, since no
// ephemeris sunrise lookup is in scope.
const sunriseHour = 6

// Sexagesimal holds the Ghati/Pala/Vipala subdivision of elapsed time
// since local sunrise.
type Sexagesimal struct {
	Ghati  int
	Pala   int
	Vipala int
}

// SecondsSinceSunrise returns elapsed seconds since the most recent
// sunriseHour civil instant at or before local, wrapping to the previous
// day when local is before sunriseHour.
func SecondsSinceSunrise(local time.Time) float64 {
	sunrise := time.Date(local.Year(), local.Month(), local.Day(), sunriseHour, 0, 0, 0, local.Location())
	if local.Before(sunrise) {
		sunrise = sunrise.AddDate(0, 0, -1)
	}
	return local.Sub(sunrise).Seconds()
}

// ComputeSexagesimal divides secondsSinceSunrise into Ghati (1440s),
// Pala (24s) and Vipala (0.4s) units.
func ComputeSexagesimal(secondsSinceSunrise float64) Sexagesimal {
	ghatiFloat := secondsSinceSunrise / 24 / 60
	ghati := int(math.Floor(ghatiFloat))
	remPala := (ghatiFloat - float64(ghati)) * 60
	pala := int(math.Floor(remPala))
	remVipala := (remPala - float64(pala)) * 60
	vipala := int(math.Floor(remVipala))
	return Sexagesimal{Ghati: ghati, Pala: pala, Vipala: vipala}
}

// chaldeanOrder is the descending-speed planetary order hora rulership
// cycles through, one planet per civil hour since sunrise.
var chaldeanOrder = []wisdom.VedicPlanet{
	wisdom.Saturn, wisdom.Jupiter, wisdom.Mars, wisdom.Sun, wisdom.Venus, wisdom.Mercury, wisdom.Moon,
}

// weekdayRuler is the planet that rules the first hora of each weekday.
var weekdayRuler = map[time.Weekday]wisdom.VedicPlanet{
	time.Sunday:    wisdom.Sun,
	time.Monday:    wisdom.Moon,
	time.Tuesday:   wisdom.Mars,
	time.Wednesday: wisdom.Mercury,
	time.Thursday:  wisdom.Jupiter,
	time.Friday:    wisdom.Venus,
	time.Saturday:  wisdom.Saturn,
}

func chaldeanIndex(p wisdom.VedicPlanet) int {
	for i, c := range chaldeanOrder {
		if c == p {
			return i
		}
	}
	return 0
}

// Hora returns the ruling planet of hour hourOfDay counted from sunrise
// (0 = the hour beginning at sunrise) on weekday, cycling the Chaldean
// order starting from that weekday's ruler.
func Hora(weekday time.Weekday, hourOfDay int) wisdom.VedicPlanet {
	start := chaldeanIndex(weekdayRuler[weekday])
	return chaldeanOrder[(start+hourOfDay)%len(chaldeanOrder)]
}

// choghadiyaDay and choghadiyaNight are static 8-slot tables of the
// traditional Choghadiya names for each of the day's and night's eight
// ~90-minute slots, keyed by weekday, sourced as witness data rather than
// derived by formula.
var choghadiyaDay = map[time.Weekday][8]string{
	time.Sunday:    {"Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg"},
	time.Monday:    {"Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit"},
	time.Tuesday:   {"Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog"},
	time.Wednesday: {"Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh"},
	time.Thursday:  {"Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal", "Shubh"},
	time.Friday:    {"Chal", "Labh", "Amrit", "Kaal", "Shubh", "Rog", "Udveg", "Chal"},
	time.Saturday:  {"Kaal", "Shubh", "Rog", "Udveg", "Chal", "Labh", "Amrit", "Kaal"},
}

var choghadiyaNight = map[time.Weekday][8]string{
	time.Sunday:    {"Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh"},
	time.Monday:    {"Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal"},
	time.Tuesday:   {"Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal"},
	time.Wednesday: {"Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg"},
	time.Thursday:  {"Amrit", "Chal", "Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit"},
	time.Friday:    {"Rog", "Kaal", "Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog"},
	time.Saturday:  {"Labh", "Udveg", "Shubh", "Amrit", "Chal", "Rog", "Kaal", "Labh"},
}

// organClockSlots is the static 12-slot TCM-style organ overlay by 2-hour
// civil block, sourced as witness data, not computed.
var organClockSlots = []struct {
	StartHour int
	Organ     string
}{
	{23, "Gallbladder"}, {1, "Liver"}, {3, "Lung"}, {5, "Large Intestine"},
	{7, "Stomach"}, {9, "Spleen"}, {11, "Heart"}, {13, "Small Intestine"},
	{15, "Bladder"}, {17, "Kidney"}, {19, "Pericardium"}, {21, "Triple Burner"},
}

// OrganClock returns the organ ruling hourOfDay (0-23).
func OrganClock(hourOfDay int) string {
	for _, slot := range organClockSlots {
		end := (slot.StartHour + 2) % 24
		if slot.StartHour < end {
			if hourOfDay >= slot.StartHour && hourOfDay < end {
				return slot.Organ
			}
		} else { // wraps midnight, e.g. 23-01
			if hourOfDay >= slot.StartHour || hourOfDay < end {
				return slot.Organ
			}
		}
	}
	return organClockSlots[0].Organ
}

// ChoghadiyaSlot returns whether local falls in the day (06:00-18:00) or
// night (18:00-06:00) half, and which of that half's 8 ~90-minute slots it
// falls in.
func ChoghadiyaSlot(local time.Time) (isDay bool, slot int) {
	hour, minute := local.Hour(), local.Minute()
	isDay = hour >= 6 && hour < 18
	var minutesSinceHalfStart int
	if isDay {
		minutesSinceHalfStart = (hour-6)*60 + minute
	} else {
		minutesSinceHalfStart = ((hour-18+24)%24)*60 + minute
	}
	slot = minutesSinceHalfStart / 90
	if slot > 7 {
		slot = 7
	}
	return isDay, slot
}

// Kernel implements engine.Kernel for the Vedic clock.
type Kernel struct{}

func New() *Kernel { return &Kernel{} }

func (k *Kernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return engine.Output{}, apperrors.TransientFailure("context cancelled", ctx.Err())
	}
	if in.Birth == nil || in.Birth.Timezone == "" {
		return engine.Output{}, apperrors.InvalidInput("vedic_clock requires birth.tz")
	}
	loc, err := time.LoadLocation(in.Birth.Timezone)
	if err != nil {
		return engine.Output{}, apperrors.InvalidInput("unknown timezone: " + in.Birth.Timezone)
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	local := now.In(loc)
	hourOfDay := local.Hour()
	weekday := local.Weekday()

	sinceSunrise := SecondsSinceSunrise(local)
	sex := ComputeSexagesimal(sinceSunrise)
	sunriseDay := local.Add(-time.Duration(sinceSunrise * float64(time.Second))).Weekday()
	hora := Hora(sunriseDay, int(sinceSunrise/3600))

	isDay, slotIdx := ChoghadiyaSlot(local)
	var choghadiyaName string
	if isDay {
		choghadiyaName = choghadiyaDay[weekday][slotIdx]
	} else {
		choghadiyaName = choghadiyaNight[weekday][slotIdx]
	}

	organ := OrganClock(hourOfDay)

	result := map[string]interface{}{
		"ghati":      sex.Ghati,
		"pala":       sex.Pala,
		"vipala":     sex.Vipala,
		"hora":       string(hora),
		"choghadiya": choghadiyaName,
		"organClock": organ,
		"isDay":      isDay,
	}
	shape := fmt.Sprintf("%s hora, %s choghadiya, %s time", hora, choghadiyaName, organ)

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
