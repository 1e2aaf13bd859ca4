// Package witness implements the witness prompt contract (spec.md §4.7.5):
// every EngineOutput carries a non-empty narrative string drawn from a
// static table indexed by the engine's result shape and a
// consciousnessLevel bucket, with a guaranteed non-empty fallback.
package witness

import (
	"fmt"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/wisdom"
)

// Depth is the three-tier inquiry-depth bucket consciousnessLevel maps
// into (0-2 seed, 3-4 growth, 5-6 mastery), used by every kernel to pick a
// prompt's register (SPEC_FULL §4.7.2's bucketing convention).
type Depth string

const (
	DepthSeed    Depth = "seed"
	DepthGrowth  Depth = "growth"
	DepthMastery Depth = "mastery"
)

// BucketDepth maps a consciousnessLevel (0..6) to its Depth tier.
func BucketDepth(level int) Depth {
	switch {
	case level <= 2:
		return DepthSeed
	case level <= 4:
		return DepthGrowth
	default:
		return DepthMastery
	}
}

// GeneKeysFrequency maps consciousnessLevel to the suggested Gene Keys
// frequency band per spec.md §4.7.2's exact bucket: 0..2 Shadow, 3..4
// Gift, 5..6 Siddhi.
func GeneKeysFrequency(level int) wisdom.Frequency {
	switch {
	case level <= 2:
		return wisdom.Shadow
	case level <= 4:
		return wisdom.Gift
	default:
		return wisdom.Siddhi
	}
}

// promptTemplates holds one template per engine per depth tier, each with
// a single %s placeholder for the engine's result-shape summary (e.g. "Type
// Generator, Profile 4/6, Sacral authority"). This is the static table
// spec.md §4.7.5 requires, keyed by (engine, depth) rather than by every
// individual shape combination, which would be combinatorially unbounded.
var promptTemplates = map[string]map[Depth]string{
	"human_design": {
		DepthSeed:    "Notice this: %s. Simply observe how your body responds before deciding anything today.",
		DepthGrowth:  "You are %s. Where in the last week did you act from this design, and where did you override it?",
		DepthMastery: "Living as %s is no longer a technique to apply but a recognition already settling into the body. What is it like to stop correcting yourself?",
	},
	"gene_keys": {
		DepthSeed:    "The pattern here is %s. Watch for the moment this shadow shows up today, without trying to fix it yet.",
		DepthGrowth:  "You are working with %s. What has this theme already turned into a usable skill for you?",
		DepthMastery: "%s has stopped requiring effort. Sit with what remains when the striving falls away.",
	},
	"vimshottari": {
		DepthSeed:    "You are in %s. Just notice what this period is asking of you this week.",
		DepthGrowth:  "Under %s, consider what has shifted in your priorities since this period began.",
		DepthMastery: "%s is one chapter in a much longer unfolding. What pattern repeats across the periods before it?",
	},
	"panchanga": {
		DepthSeed:    "Today carries %s. Let that set the tone for one small choice.",
		DepthGrowth:  "With %s in effect, where might you align an important action to this quality?",
		DepthMastery: "%s is texture, not instruction. Notice how the day moves regardless of your plans for it.",
	},
	"numerology": {
		DepthSeed:    "Your numbers point to %s. Keep that in mind the next time you choose between two paths.",
		DepthGrowth:  "%s has likely shown up as a recurring theme in your choices. Where have you resisted it?",
		DepthMastery: "%s describes a tendency, not a destiny. What would it mean to move beyond needing it to prove itself?",
	},
	"biorhythm": {
		DepthSeed:    "Your cycles currently read %s. Pace today accordingly.",
		DepthGrowth:  "With %s, consider whether your schedule this week matches your actual energy.",
		DepthMastery: "%s is a rhythm among many you carry. Which other rhythms are you ignoring to honor this one?",
	},
	"vedic_clock": {
		DepthSeed:    "The hour carries %s. Use it for the task it suits best.",
		DepthGrowth:  "%s governs this window. What have you been doing instead of what it favors?",
		DepthMastery: "%s is one layer of a day built from many overlapping clocks. Which one are you actually living by?",
	},
}

const fallbackTemplate = "This reading shows %s. Sit with it before acting on it."

// Generate renders the witness prompt for engineID at consciousnessLevel,
// describing the engine's result via shapeSummary. It is guaranteed to
// return a non-empty string; if rendering somehow produces an empty
// result, it returns CalculationFailed instead (spec.md §4.7.5).
func Generate(engineID string, consciousnessLevel int, shapeSummary string) (string, error) {
	if shapeSummary == "" {
		shapeSummary = "a pattern worth sitting with"
	}
	depth := BucketDepth(consciousnessLevel)

	tmpl, ok := promptTemplates[engineID][depth]
	if !ok {
		tmpl = fallbackTemplate
	}
	prompt := fmt.Sprintf(tmpl, shapeSummary)
	if prompt == "" {
		return "", apperrors.CalculationFailed(engineID, "witness prompt rendered empty")
	}
	return prompt, nil
}
