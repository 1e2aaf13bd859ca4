package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

// Synthesis is the derivative themes/alignments/tensions/unified-witness
// block a workflow produces over its collected EngineOutputs (spec.md
// §4.8 step 5). It is purely a function of those outputs: re-running it
// over the same outputs always yields the same Synthesis.
type Synthesis struct {
	Themes         []string `json:"themes"`
	Alignments     []string `json:"alignments"`
	Tensions       []string `json:"tensions"`
	UnifiedWitness string   `json:"unifiedWitness"`
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "of": true, "to": true,
	"in": true, "is": true, "are": true, "you": true, "your": true, "with": true,
	"this": true, "that": true, "for": true, "at": true, "on": true, "as": true,
	"it": true, "be": true, "by": true,
}

// firstClause returns the leading clause of a witness prompt, up to the
// first sentence terminator, for use as a short theme label.
func firstClause(prompt string) string {
	for _, sep := range []string{". ", "? ", "! "} {
		if idx := strings.Index(prompt, sep); idx > 0 {
			return prompt[:idx]
		}
	}
	return prompt
}

// keywords extracts lowercase alphabetic words longer than three letters,
// excluding stopwords, for naive alignment detection between engines.
func keywords(prompt string) map[string]bool {
	out := make(map[string]bool)
	for _, raw := range strings.Fields(prompt) {
		w := strings.ToLower(strings.Trim(raw, ".,!?;:\"'"))
		if len(w) > 3 && !stopwords[w] {
			out[w] = true
		}
	}
	return out
}

// Compose derives a Synthesis from an ordered set of successful engine
// outputs. It makes no engine-specific assumptions beyond the universal
// EngineOutput contract (engineId, witnessPrompt, consciousnessLevel), so
// it composes equally well over any Spec's outputs.
func Compose(outputs []engine.Output) Synthesis {
	themes := make([]string, 0, len(outputs))
	for _, out := range outputs {
		themes = append(themes, fmt.Sprintf("%s: %s", out.EngineID, firstClause(out.WitnessPrompt)))
	}

	alignments := make([]string, 0)
	tensions := make([]string, 0)
	for i := 0; i < len(outputs); i++ {
		for j := i + 1; j < len(outputs); j++ {
			a, b := outputs[i], outputs[j]
			shared := sharedKeywords(a.WitnessPrompt, b.WitnessPrompt)
			if len(shared) > 0 {
				alignments = append(alignments, fmt.Sprintf("%s and %s both foreground %s", a.EngineID, b.EngineID, strings.Join(shared, ", ")))
			}
			if a.ConsciousnessLevel != b.ConsciousnessLevel {
				deeper, shallower := a.EngineID, b.EngineID
				if b.ConsciousnessLevel > a.ConsciousnessLevel {
					deeper, shallower = b.EngineID, a.EngineID
				}
				tensions = append(tensions, fmt.Sprintf("%s reads at a deeper tier than %s", deeper, shallower))
			}
		}
	}

	unified := "No engines produced a result to synthesize."
	if len(themes) > 0 {
		unified = fmt.Sprintf("Across %d engines: %s", len(outputs), strings.Join(themes, " | "))
	}

	return Synthesis{Themes: themes, Alignments: alignments, Tensions: tensions, UnifiedWitness: unified}
}

// sharedKeywords returns the sorted intersection of a and b's keyword sets,
// capped at 3 words to keep the alignment sentence readable.
func sharedKeywords(a, b string) []string {
	ak, bk := keywords(a), keywords(b)
	var shared []string
	for w := range ak {
		if bk[w] {
			shared = append(shared, w)
		}
	}
	sort.Strings(shared)
	if len(shared) > 3 {
		shared = shared[:3]
	}
	return shared
}

// synthesisCacheKey derives a cache key for a synthesis block from the
// sorted multiset of its constituent engines' cache keys, per spec.md
// §4.8 step 5 ("cache-keyed by the multiset of cache keys of the
// constituent outputs").
func synthesisCacheKey(workflowID string, constituentKeys []string) string {
	sorted := append([]string(nil), constituentKeys...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return cache.BucketKey("synthesis:"+workflowID, hex.EncodeToString(sum[:]))
}
