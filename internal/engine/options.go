package engine

// ConsciousnessLevel extracts the optional "consciousness_level" option,
// clamped to [0,6], defaulting to 3 (the midpoint "growth" tier) when
// absent or malformed.
func ConsciousnessLevel(in Input) int {
	const def = 3
	if in.Options == nil {
		return def
	}
	raw, ok := in.Options["consciousness_level"]
	if !ok {
		return def
	}
	var level int
	switch v := raw.(type) {
	case int:
		level = v
	case int64:
		level = int(v)
	case float64:
		level = int(v)
	default:
		return def
	}
	if level < 0 {
		return 0
	}
	if level > 6 {
		return 6
	}
	return level
}

// HasConsciousnessLevel reports whether "consciousness_level" was
// explicitly supplied in in.Options (distinguishing "absent" from
// "explicitly 0" for kernels that only attach a suggestion when present,
// e.g. Gene Keys, spec.md §4.7.2).
func HasConsciousnessLevel(in Input) bool {
	if in.Options == nil {
		return false
	}
	_, ok := in.Options["consciousness_level"]
	return ok
}
