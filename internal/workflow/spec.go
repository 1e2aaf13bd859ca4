package workflow

// Spec is a static list of engine ids an executor runs together, plus
// which of them are mandatory (their failure aborts the whole workflow)
// and whether a synthesis pass composes the collected outputs. Two
// built-in specs ship as data, not code (spec.md EXPANSION §4.8).
type Spec struct {
	ID         string
	EngineIDs  []string
	Mandatory  map[string]bool
	Synthesize bool
}

// IsMandatory reports whether engineID must succeed for the workflow to
// succeed. Engines absent from Mandatory default to optional.
func (s Spec) IsMandatory(engineID string) bool {
	return s.Mandatory[engineID]
}

// DailySnapshot composes the three calendrical kernels: Panchanga, Vedic
// Clock, Biorhythm. Each reads the birth record (Panchanga its instant,
// Vedic Clock its timezone, Biorhythm its civil date and timezone).
var DailySnapshot = Spec{
	ID:        "daily_snapshot",
	EngineIDs: []string{"panchanga", "vedic_clock", "biorhythm"},
	Mandatory:  map[string]bool{"panchanga": true, "vedic_clock": true, "biorhythm": true},
	Synthesize: true,
}

// NatalOverview composes the birth-chart kernels. gene_keys is declared
// non-mandatory, so its failure becomes an error entry in the result while
// its siblings' outputs are still returned; a human_design, vimshottari or
// numerology failure aborts the whole run.
var NatalOverview = Spec{
	ID:        "natal_overview",
	EngineIDs: []string{"human_design", "gene_keys", "vimshottari", "numerology"},
	Mandatory:  map[string]bool{"human_design": true, "vimshottari": true, "numerology": true, "gene_keys": false},
	Synthesize: true,
}

// builtins maps workflow id to its Spec.
var builtins = map[string]Spec{
	DailySnapshot.ID: DailySnapshot,
	NatalOverview.ID: NatalOverview,
}

// Lookup returns the built-in Spec for workflowID, or UnknownWorkflow.
func Lookup(workflowID string) (Spec, bool) {
	s, ok := builtins[workflowID]
	return s, ok
}
