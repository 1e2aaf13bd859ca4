package wisdom

import (
	"fmt"
	"strings"
	"sync"
)

// Frequency is one of the three Gene Keys frequency bands.
type Frequency string

const (
	Shadow Frequency = "Shadow"
	Gift   Frequency = "Gift"
	Siddhi Frequency = "Siddhi"
)

// GeneKey carries the full shadow/gift/siddhi archetypal text for one of
// the 64 gates (spec.md §4.7.2). Every description is validated at load
// time to contain at least 10 words.
type GeneKey struct {
	Gate        int
	Theme       string
	ShadowText  string
	GiftText    string
	SiddhiText  string
}

// geneKeyThemes gives each gate a short core theme driving its archetypal
// text; indexed by gate number.
var geneKeyThemes = map[int]string{
	1: "creative self-expression", 2: "direction and orientation", 3: "ordering of new beginnings",
	4: "formulation of answers", 5: "patience and natural rhythm", 6: "emotional friction and intimacy",
	7: "leadership through example", 8: "authentic contribution", 9: "focused attention to detail",
	10: "self-acceptance and behavior", 11: "gathering of ideas", 12: "discernment in expression",
	13: "listening and fellowship", 14: "empowerment through resources", 15: "extremes and magnetism",
	16: "skill through enthusiasm", 17: "opinion and pattern recognition", 18: "correction of imperfection",
	19: "sensitivity to need", 20: "presence in the now", 21: "control and authority over resources",
	22: "grace under emotional pressure", 23: "simplicity of truth-telling", 24: "return and rationalization",
	25: "universal love of spirit", 26: "integrity in persuasion", 27: "care and altruism",
	28: "struggle for meaning", 29: "commitment and perseverance", 30: "desire and feeling",
	31: "influence through humility", 32: "continuity and conservation", 33: "retreat and privacy",
	34: "raw power and strength", 35: "progress through experience", 36: "crisis and emotional intensity",
	37: "family and loyalty", 38: "the fighter's purpose", 39: "provocation toward liberation",
	40: "willpower and deliverance", 41: "anticipation and new experience", 42: "completion and growth",
	43: "breakthrough insight", 44: "alertness to patterns from the past", 45: "gathering and stewardship of resources",
	46: "love of the physical body", 47: "transmutation of mental oppression", 48: "depth of resourcefulness",
	49: "principles and revolution", 50: "values and equilibrium", 51: "shock and initiative",
	52: "stillness and restraint", 53: "expansion and new cycles", 54: "ambition and transformation of drive",
	55: "emotional freedom", 56: "storytelling and wandering", 57: "intuitive clarity",
	58: "joy through vitality", 59: "intimacy and transparency", 60: "acceptance of limitation",
	61: "inner truth and mystery", 62: "precision of detail", 63: "doubt and inquiry",
	64: "confusion before illumination",
}

var (
	geneKeysOnce  sync.Once
	geneKeysCache map[int]GeneKey
)

// GeneKeys returns the 64 gene keys, built lazily and cached.
func GeneKeys() map[int]GeneKey {
	geneKeysOnce.Do(buildGeneKeys)
	return geneKeysCache
}

func buildGeneKeys() {
	geneKeysCache = make(map[int]GeneKey, 64)
	for gate := 1; gate <= 64; gate++ {
		theme := geneKeyThemes[gate]
		geneKeysCache[gate] = GeneKey{
			Gate:  gate,
			Theme: theme,
			ShadowText: fmt.Sprintf(
				"In its shadow frequency, gate %d manifests as a distorted reaction around %s, a reflexive pattern that keeps attention locked in survival until it is consciously witnessed.",
				gate, theme,
			),
			GiftText: fmt.Sprintf(
				"In its gift frequency, gate %d turns %s into a practical skill, a steady capacity that converts earlier struggle into real value for the people nearby.",
				gate, theme,
			),
			SiddhiText: fmt.Sprintf(
				"In its siddhi frequency, gate %d dissolves the struggle around %s entirely, leaving an effortless, radiant expression that no longer requires personal striving to sustain.",
				gate, theme,
			),
		}
	}
}

// ValidateGeneKeys checks every description meets the ten-word minimum
// (spec.md §4.7.2); returns the first offending gate and band, if any.
func ValidateGeneKeys() error {
	for gate, gk := range GeneKeys() {
		for _, pair := range []struct {
			band Frequency
			text string
		}{
			{Shadow, gk.ShadowText},
			{Gift, gk.GiftText},
			{Siddhi, gk.SiddhiText},
		} {
			if wordCount(pair.text) < 10 {
				return fmt.Errorf("gate %d %s text has fewer than 10 words", gate, pair.band)
			}
		}
	}
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
