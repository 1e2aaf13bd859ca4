package wisdom

// VedicPlanet is one of the nine Vimshottari planets.
type VedicPlanet string

const (
	Ketu    VedicPlanet = "Ketu"
	Venus   VedicPlanet = "Venus"
	Sun     VedicPlanet = "Sun"
	Moon    VedicPlanet = "Moon"
	Mars    VedicPlanet = "Mars"
	Rahu    VedicPlanet = "Rahu"
	Jupiter VedicPlanet = "Jupiter"
	Saturn  VedicPlanet = "Saturn"
	Mercury VedicPlanet = "Mercury"
)

// PlanetCycle is the fixed 9-planet Vimshottari order. period years sum to
// 120 (spec.md §3 invariant).
var PlanetCycle = []VedicPlanet{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

// PeriodYears is each planet's Vimshottari maha-dasha length in years.
var PeriodYears = map[VedicPlanet]float64{
	Ketu:    7,
	Venus:   20,
	Sun:     6,
	Moon:    10,
	Mars:    7,
	Rahu:    18,
	Jupiter: 16,
	Saturn:  19,
	Mercury: 17,
}

// TotalCycleYears is the sum of all PeriodYears; must equal 120.
const TotalCycleYears = 120

var planetIndex map[VedicPlanet]int

func init() {
	planetIndex = make(map[VedicPlanet]int, len(PlanetCycle))
	for i, p := range PlanetCycle {
		planetIndex[p] = i
	}
}

// NextPlanet returns the planet following p in the fixed Vimshottari cycle.
func NextPlanet(p VedicPlanet) VedicPlanet {
	idx, ok := planetIndex[p]
	if !ok {
		return PlanetCycle[0]
	}
	return PlanetCycle[(idx+1)%len(PlanetCycle)]
}

// PlanetAt returns the planet offset steps after p in the cycle.
func PlanetAt(p VedicPlanet, offset int) VedicPlanet {
	idx, ok := planetIndex[p]
	if !ok {
		idx = 0
	}
	n := len(PlanetCycle)
	return PlanetCycle[((idx+offset)%n+n)%n]
}
