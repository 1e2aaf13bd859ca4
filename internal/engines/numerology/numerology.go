// Package numerology computes Life Path, Expression and Soul Urge numbers
// from a civil birth date and an optional display name.
package numerology

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/witness"
)

const EngineID = "numerology"

// pythagorean maps A-Z to 1-9, repeating J=1..R=9..Z=8.
var pythagorean = map[rune]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8, 'I': 9,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'O': 6, 'P': 7, 'Q': 8, 'R': 9,
	'S': 1, 'T': 2, 'U': 3, 'V': 4, 'W': 5, 'X': 6, 'Y': 7, 'Z': 8,
}

var vowels = map[rune]bool{'A': true, 'E': true, 'I': true, 'O': true, 'U': true}

// masterNumbers are never reduced further.
func isMasterNumber(n int) bool {
	return n == 11 || n == 22 || n == 33
}

// reduce repeatedly sums a number's digits until it is a single digit or a
// master number.
func reduce(n int) int {
	for n > 9 && !isMasterNumber(n) {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

func digitSum(digits string) int {
	sum := 0
	for _, r := range digits {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return sum
}

// LifePath returns the Life Path number for a YYYY-MM-DD civil date.
func LifePath(civilDate string) (int, error) {
	if len(civilDate) != 10 || civilDate[4] != '-' || civilDate[7] != '-' {
		return 0, apperrors.InvalidInput("civil date must be YYYY-MM-DD")
	}
	return reduce(digitSum(civilDate)), nil
}

// nameNumber sums the letter values of name, optionally restricted to
// vowels, and reduces the result.
func nameNumber(name string, vowelsOnly bool) int {
	sum := 0
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			continue
		}
		if vowelsOnly && !vowels[r] {
			continue
		}
		sum += pythagorean[r]
	}
	return reduce(sum)
}

// Expression returns the Expression number summing every letter in name.
func Expression(name string) int {
	return nameNumber(name, false)
}

// SoulUrge returns the Soul Urge number summing only the vowels in name.
func SoulUrge(name string) int {
	return nameNumber(name, true)
}

// Kernel implements engine.Kernel for numerology.
type Kernel struct{}

func New() *Kernel { return &Kernel{} }

func (k *Kernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return engine.Output{}, apperrors.TransientFailure("context cancelled", ctx.Err())
	}
	if in.Birth == nil || in.Birth.CivilDate == "" {
		return engine.Output{}, apperrors.InvalidInput("numerology requires birth.civilDate")
	}

	lifePath, err := LifePath(in.Birth.CivilDate)
	if err != nil {
		return engine.Output{}, err
	}

	result := map[string]interface{}{
		"lifePath": lifePath,
	}
	shape := fmt.Sprintf("Life Path %d", lifePath)

	if name := strings.TrimSpace(in.Birth.DisplayName); name != "" {
		expression := Expression(name)
		soulUrge := SoulUrge(name)
		result["expression"] = expression
		result["soulUrge"] = soulUrge
		shape = fmt.Sprintf("Life Path %d, Expression %d, Soul Urge %d", lifePath, expression, soulUrge)
	}

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
