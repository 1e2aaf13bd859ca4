// Package genekeys computes the Gene Keys frequency assessment, reusing
// Human Design gate activations 1:1 when given a birth record, or an
// explicit set of four "prime" gates otherwise (spec.md §4.7.2).
package genekeys

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/engines/birth"
	"github.com/vedicsoul/consciousness-engine/internal/engines/humandesign"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "gene_keys"

// extractPrimeGates reads options.prime_gates, requiring exactly 4 gate
// numbers in [1,64] when present.
func extractPrimeGates(options map[string]interface{}) ([]int, bool, error) {
	raw, ok := options["prime_gates"]
	if !ok {
		return nil, false, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, false, apperrors.InvalidInput("options.prime_gates must be an array of 4 gate numbers")
	}
	if len(items) != 4 {
		return nil, false, apperrors.InvalidInput("options.prime_gates must contain exactly 4 gates")
	}
	gates := make([]int, 0, 4)
	for _, it := range items {
		var g int
		switch v := it.(type) {
		case int:
			g = v
		case int64:
			g = int(v)
		case float64:
			g = int(v)
		default:
			return nil, false, apperrors.InvalidInput("options.prime_gates entries must be numbers")
		}
		if g < 1 || g > 64 {
			return nil, false, apperrors.InvalidInput("options.prime_gates entries must be in 1..64")
		}
		gates = append(gates, g)
	}
	return gates, true, nil
}

// GateAssessment is one active gate's full archetypal text plus its theme.
type GateAssessment struct {
	Gate       int    `json:"gate"`
	Theme      string `json:"theme"`
	ShadowText string `json:"shadowText"`
	GiftText   string `json:"giftText"`
	SiddhiText string `json:"siddhiText"`
}

// Kernel implements engine.Kernel for Gene Keys. oracle is only consulted
// when the request supplies a birth record (the Human Design dependency
// path); it may be nil for prime-gates-only deployments.
type Kernel struct {
	oracle ephemeris.Oracle
}

func New(oracle ephemeris.Oracle) *Kernel {
	return &Kernel{oracle: oracle}
}

// activeGates resolves the active gate set either from a birth record (via
// the Human Design kernel) or explicit prime gates.
func (k *Kernel) activeGates(ctx context.Context, in engine.Input) ([]int, error) {
	if in.Birth != nil {
		tP, err := birth.ToUTC(in.Birth)
		if err != nil {
			return nil, err
		}
		if k.oracle == nil {
			return nil, apperrors.CalculationFailed(EngineID, "no ephemeris oracle configured for birth-based gene keys")
		}
		chart, err := humandesign.Compute(ctx, k.oracle, tP)
		if err != nil {
			return nil, err
		}
		gates := make([]int, 0, len(chart.ActivatedGates))
		for g := range chart.ActivatedGates {
			gates = append(gates, g)
		}
		sort.Ints(gates)
		return gates, nil
	}

	primeGates, ok, err := extractPrimeGates(in.Options)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidInput("gene_keys requires a birth record or options.prime_gates")
	}
	sort.Ints(primeGates)
	return primeGates, nil
}

func (k *Kernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return engine.Output{}, apperrors.TransientFailure("context cancelled", ctx.Err())
	}

	gates, err := k.activeGates(ctx, in)
	if err != nil {
		return engine.Output{}, err
	}

	table := wisdom.GeneKeys()
	assessments := make([]GateAssessment, 0, len(gates))
	themes := make([]string, 0, len(gates))
	for _, g := range gates {
		gk, ok := table[g]
		if !ok {
			continue
		}
		assessments = append(assessments, GateAssessment{
			Gate:       gk.Gate,
			Theme:      gk.Theme,
			ShadowText: gk.ShadowText,
			GiftText:   gk.GiftText,
			SiddhiText: gk.SiddhiText,
		})
		themes = append(themes, gk.Theme)
	}

	result := map[string]interface{}{
		"activeGates": gates,
		"gates":       assessments,
	}

	level := engine.ConsciousnessLevel(in)
	if engine.HasConsciousnessLevel(in) {
		result["suggestedFrequency"] = witness.GeneKeysFrequency(level)
	}

	shape := fmt.Sprintf("%d active gates (%s)", len(gates), strings.Join(themes, "; "))
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
