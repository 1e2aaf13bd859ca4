// Package humandesign computes the 26-activation Human Design chart: type,
// authority, profile and definition, derived from Sun/Earth/Moon/Nodes and
// the eight planets Mercury through Pluto at both the personality (birth) and design
// instants (spec.md §4.7.1).
package humandesign

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

const EngineID = "human_design"

// queryablePlanets are the bodies fetched directly from the oracle; Earth
// and SouthNode are derived from Sun and NorthNode respectively.
var queryablePlanets = []ephemeris.Planet{
	ephemeris.Sun, ephemeris.Moon, ephemeris.NorthNode, ephemeris.Mercury, ephemeris.Venus,
	ephemeris.Mars, ephemeris.Jupiter, ephemeris.Saturn, ephemeris.Uranus, ephemeris.Neptune, ephemeris.Pluto,
}

// Activation is one planet's (gate, line) placement at a given instant.
type Activation struct {
	Planet ephemeris.Planet
	Gate   int
	Line   int
}

// Chart is the full computed Human Design result.
type Chart struct {
	PersonalityActivations []Activation
	DesignActivations      []Activation
	ActivatedGates         map[int]bool
	ActiveChannels         []wisdom.Channel
	DefinedCenters         map[string]bool
	Type                   string
	Authority              string
	Profile                string
	Definition             string
}

func normalizeDegrees(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// signedAngleDelta returns a-b normalized to (-180,180].
func signedAngleDelta(a, b float64) float64 {
	d := math.Mod(a-b+180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// solveDesignTime finds the instant before tP at which the Sun's longitude
// equalled targetLon, via the secant method with a 1-second tolerance and
// a guard against divergent jumps (spec.md §4.7.1).
func solveDesignTime(ctx context.Context, oracle ephemeris.Oracle, tP time.Time, targetLon float64) (time.Time, error) {
	const maxIter = 50
	const tolerance = time.Second
	const maxStep = 400 * 24 * time.Hour

	f := func(t time.Time) (float64, error) {
		lon, err := oracle.Position(ctx, ephemeris.Sun, t)
		if err != nil {
			return 0, err
		}
		return signedAngleDelta(lon, targetLon), nil
	}

	t0 := tP.Add(-90 * 24 * time.Hour)
	t1 := tP.Add(-89 * 24 * time.Hour)
	f0, err := f(t0)
	if err != nil {
		return time.Time{}, err
	}
	f1, err := f(t1)
	if err != nil {
		return time.Time{}, err
	}

	for i := 0; i < maxIter; i++ {
		if f1 == f0 {
			return time.Time{}, apperrors.CalculationFailed(EngineID, "design-time search stalled")
		}
		deltaT := t1.Sub(t0)
		step := time.Duration(f1 / (f1 - f0) * float64(deltaT))
		if step > maxStep || step < -maxStep {
			return time.Time{}, apperrors.CalculationFailed(EngineID, "design-time search diverged")
		}
		tNext := t1.Add(-step)
		if d := tNext.Sub(t1); d < tolerance && d > -tolerance {
			return tNext, nil
		}
		fNext, err := f(tNext)
		if err != nil {
			return time.Time{}, err
		}
		t0, f0 = t1, f1
		t1, f1 = tNext, fNext
	}
	return time.Time{}, apperrors.CalculationFailed(EngineID, "design-time search did not converge")
}

// activationsAt maps every planet's longitude at instant t to a (gate,
// line) activation.
func activationsAt(ctx context.Context, oracle ephemeris.Oracle, t time.Time) ([]Activation, error) {
	acts := make([]Activation, 0, 13)
	var sunLon, northNodeLon float64
	for _, p := range queryablePlanets {
		lon, err := oracle.Position(ctx, p, t)
		if err != nil {
			return nil, err
		}
		if p == ephemeris.Sun {
			sunLon = lon
		}
		if p == ephemeris.NorthNode {
			northNodeLon = lon
		}
		gate, line := wisdom.GateForLongitude(lon)
		acts = append(acts, Activation{Planet: p, Gate: gate, Line: line})
	}
	earthGate, earthLine := wisdom.GateForLongitude(ephemeris.DeriveEarth(sunLon))
	acts = append(acts, Activation{Planet: ephemeris.Earth, Gate: earthGate, Line: earthLine})
	southGate, southLine := wisdom.GateForLongitude(ephemeris.DeriveSouthNode(northNodeLon))
	acts = append(acts, Activation{Planet: ephemeris.SouthNode, Gate: southGate, Line: southLine})
	return acts, nil
}

func sunLine(acts []Activation) int {
	for _, a := range acts {
		if a.Planet == ephemeris.Sun {
			return a.Line
		}
	}
	return 0
}

// classifyType implements the hierarchical type classifier of spec.md §4.7.1(d).
func classifyType(defined map[string]bool, active []wisdom.Channel) string {
	if len(defined) == 0 {
		return "Reflector"
	}
	if defined[wisdom.CenterSacral] {
		if wisdom.ChannelConnects(active, wisdom.CenterSacral, wisdom.CenterThroat) {
			return "Manifesting Generator"
		}
		return "Generator"
	}
	for _, motor := range []string{wisdom.CenterHeart, wisdom.CenterSolarPlexus, wisdom.CenterRoot} {
		if wisdom.ChannelConnects(active, wisdom.CenterThroat, motor) {
			return "Manifestor"
		}
	}
	return "Projector"
}

// classifyAuthority implements the strict priority chain of spec.md §4.7.1(e).
func classifyAuthority(defined map[string]bool, active []wisdom.Channel) string {
	switch {
	case defined[wisdom.CenterSolarPlexus]:
		return "Emotional"
	case defined[wisdom.CenterSacral]:
		return "Sacral"
	case defined[wisdom.CenterSpleen]:
		return "Splenic"
	case defined[wisdom.CenterHeart]:
		return "Heart"
	case wisdom.ChannelConnects(active, wisdom.CenterG, wisdom.CenterThroat):
		return "G-to-Throat"
	case defined[wisdom.CenterAjna]:
		return "Mental"
	default:
		return "Lunar"
	}
}

// definitionLabel computes connected components over the graph of defined
// centers and active channels (spec.md §4.7.1(g)).
func definitionLabel(defined map[string]bool, active []wisdom.Channel) string {
	if len(defined) == 0 {
		return "NoDefinition"
	}
	parent := make(map[string]string, len(defined))
	for c := range defined {
		parent[c] = c
	}
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, c := range active {
		if defined[c.CenterA] && defined[c.CenterB] {
			union(c.CenterA, c.CenterB)
		}
	}
	roots := make(map[string]bool)
	for c := range defined {
		roots[find(c)] = true
	}
	switch len(roots) {
	case 1:
		return "Single"
	default:
		return fmt.Sprintf("%d-Split", len(roots))
	}
}

// Compute derives the full chart for a birth record's personality and
// design instants.
func Compute(ctx context.Context, oracle ephemeris.Oracle, tP time.Time) (Chart, error) {
	personality, err := activationsAt(ctx, oracle, tP)
	if err != nil {
		return Chart{}, err
	}

	sunLonAtBirth, err := oracle.Position(ctx, ephemeris.Sun, tP)
	if err != nil {
		return Chart{}, err
	}
	targetLon := normalizeDegrees(sunLonAtBirth - 88)
	tD, err := solveDesignTime(ctx, oracle, tP, targetLon)
	if err != nil {
		return Chart{}, err
	}

	design, err := activationsAt(ctx, oracle, tD)
	if err != nil {
		return Chart{}, err
	}

	activated := make(map[int]bool)
	for _, a := range personality {
		activated[a.Gate] = true
	}
	for _, a := range design {
		activated[a.Gate] = true
	}

	active := wisdom.ActiveChannels(activated)
	defined := wisdom.DefinedCenters(active)

	return Chart{
		PersonalityActivations: personality,
		DesignActivations:      design,
		ActivatedGates:         activated,
		ActiveChannels:         active,
		DefinedCenters:         defined,
		Type:                   classifyType(defined, active),
		Authority:              classifyAuthority(defined, active),
		Profile:                fmt.Sprintf("%d/%d", sunLine(personality), sunLine(design)),
		Definition:             definitionLabel(defined, active),
	}, nil
}

// Kernel implements engine.Kernel for Human Design.
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
		return engine.Output{}, apperrors.InvalidInput("human_design requires a birth record")
	}

	tP, err := birth.ToUTC(in.Birth)
	if err != nil {
		return engine.Output{}, err
	}

	chart, err := Compute(ctx, k.oracle, tP)
	if err != nil {
		return engine.Output{}, err
	}

	gates := make([]int, 0, len(chart.ActivatedGates))
	for g := range chart.ActivatedGates {
		gates = append(gates, g)
	}
	channelNames := make([]string, 0, len(chart.ActiveChannels))
	for _, c := range chart.ActiveChannels {
		channelNames = append(channelNames, c.Name)
	}
	centers := make([]string, 0, len(chart.DefinedCenters))
	for c := range chart.DefinedCenters {
		centers = append(centers, c)
	}

	result := map[string]interface{}{
		"type":           chart.Type,
		"authority":      chart.Authority,
		"profile":        chart.Profile,
		"definition":     chart.Definition,
		"activatedGates": gates,
		"activeChannels": channelNames,
		"definedCenters": centers,
	}
	shape := fmt.Sprintf("Type %s, Profile %s, %s authority, %s", chart.Type, chart.Profile, chart.Authority, chart.Definition)

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
