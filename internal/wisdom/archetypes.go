package wisdom

// PlanetArchetype carries the descriptive metadata witness-prompt
// generators draw on for a given Vedic planet (spec.md §4.3).
type PlanetArchetype struct {
	Planet       VedicPlanet
	Themes       []string
	LifeAreas    []string
	Challenges   []string
	Opportunities []string
	Description  string
}

// Archetypes is the per-planet archetypal metadata table, keyed by planet.
var Archetypes = map[VedicPlanet]PlanetArchetype{
	Ketu: {
		Planet:       Ketu,
		Themes:       []string{"detachment", "past-life mastery", "spiritual liberation"},
		LifeAreas:    []string{"inner life", "renunciation", "intuition"},
		Challenges:   []string{"isolation", "lack of direction", "restlessness"},
		Opportunities: []string{"moksha", "deep introspection", "letting go of attachment"},
		Description:  "Ketu represents the soul's accumulated mastery from prior cycles, pulling attention inward and away from worldly ambition toward quiet, often unglamorous, spiritual completion.",
	},
	Venus: {
		Planet:       Venus,
		Themes:       []string{"harmony", "relationship", "aesthetic refinement"},
		LifeAreas:    []string{"love", "art", "material comfort"},
		Challenges:   []string{"overindulgence", "vanity", "avoidance of conflict"},
		Opportunities: []string{"partnership", "creative expression", "sensory enjoyment"},
		Description:  "Venus governs affection, beauty and the pleasures that make life worth living, teaching balance between enjoying the world and being owned by its comforts.",
	},
	Sun: {
		Planet:       Sun,
		Themes:       []string{"identity", "vitality", "authority"},
		LifeAreas:    []string{"career", "father figures", "self-expression"},
		Challenges:   []string{"ego inflation", "rigidity", "burnout"},
		Opportunities: []string{"leadership", "clarity of purpose", "radiant confidence"},
		Description:  "The Sun is the seat of individual will and vitality, asking a native to shine in a way that serves more than the self alone.",
	},
	Moon: {
		Planet:       Moon,
		Themes:       []string{"emotion", "nurturing", "memory"},
		LifeAreas:    []string{"home", "mother figures", "emotional security"},
		Challenges:   []string{"moodiness", "over-attachment", "anxiety"},
		Opportunities: []string{"empathy", "intuitive receptivity", "emotional healing"},
		Description:  "The Moon governs the rhythm of feeling and memory, reflecting how a native seeks safety and how readily they offer comfort to others in turn.",
	},
	Mars: {
		Planet:       Mars,
		Themes:       []string{"drive", "courage", "assertion"},
		LifeAreas:    []string{"physical vitality", "competition", "siblings"},
		Challenges:   []string{"impulsiveness", "anger", "conflict-seeking"},
		Opportunities: []string{"decisive action", "protective strength", "disciplined effort"},
		Description:  "Mars supplies the raw energy to act and defend, most useful when its heat is channeled into sustained effort rather than sudden combustion.",
	},
	Rahu: {
		Planet:       Rahu,
		Themes:       []string{"ambition", "obsession", "worldly hunger"},
		LifeAreas:    []string{"unconventional paths", "foreign lands", "technology"},
		Challenges:   []string{"insatiability", "illusion", "boundary confusion"},
		Opportunities: []string{"bold reinvention", "breaking old patterns", "rapid growth"},
		Description:  "Rahu magnifies whatever it touches into an object of intense desire, driving a native toward unfamiliar territory long before they feel ready for it.",
	},
	Jupiter: {
		Planet:       Jupiter,
		Themes:       []string{"wisdom", "expansion", "faith"},
		LifeAreas:    []string{"teaching", "law", "higher learning"},
		Challenges:   []string{"overextension", "dogmatism", "complacency"},
		Opportunities: []string{"mentorship", "generosity", "philosophical insight"},
		Description:  "Jupiter broadens whatever it blesses, offering guidance and abundance to a native willing to keep learning past the point of apparent mastery.",
	},
	Saturn: {
		Planet:       Saturn,
		Themes:       []string{"discipline", "limitation", "time"},
		LifeAreas:    []string{"career structure", "long-term responsibility", "aging"},
		Challenges:   []string{"rigidity", "fear", "delay"},
		Opportunities: []string{"mastery through patience", "durable achievement", "integrity"},
		Description:  "Saturn teaches through constraint and delay, rewarding a native who keeps showing up long after the novelty of an undertaking has worn off.",
	},
	Mercury: {
		Planet:       Mercury,
		Themes:       []string{"communication", "analysis", "adaptability"},
		LifeAreas:    []string{"commerce", "writing", "early education"},
		Challenges:   []string{"overthinking", "scattered focus", "glibness"},
		Opportunities: []string{"clear expression", "quick learning", "skillful negotiation"},
		Description:  "Mercury governs the exchange of information, at its best translating complex perception into language others can immediately act on.",
	},
}
