package wisdom

import "sync"

// NakshatraArcWidth is 360/27 degrees (spec.md §4.3).
const NakshatraArcWidth = 360.0 / 27.0

// Nakshatra is one of the 27 lunar mansions.
type Nakshatra struct {
	Index    int // 1-based, 1..27
	Name     string
	ArcStart float64
	ArcEnd   float64
	Ruler    VedicPlanet
}

var nakshatraNames = []string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Nakshatras returns the 27 nakshatras, built lazily and cached. The
// ruling-planet sequence is the 9-planet Vimshottari cycle repeated three
// times, starting at Ketu for Ashwini (spec.md §3).
func Nakshatras() []Nakshatra {
	nakshatrasOnce.Do(buildNakshatras)
	return nakshatrasCache
}

var (
	nakshatrasOnce  sync.Once
	nakshatrasCache []Nakshatra
)

func buildNakshatras() {
	nakshatrasCache = make([]Nakshatra, 0, 27)
	for i, name := range nakshatraNames {
		start := float64(i) * NakshatraArcWidth
		ruler := PlanetCycle[i%len(PlanetCycle)]
		nakshatrasCache = append(nakshatrasCache, Nakshatra{
			Index:    i + 1,
			Name:     name,
			ArcStart: start,
			ArcEnd:   start + NakshatraArcWidth,
			Ruler:    ruler,
		})
	}
}

// NakshatraForLongitude returns the nakshatra whose arc contains longitude.
// index = floor(λ/(360/27)), clamped to the last nakshatra.
func NakshatraForLongitude(longitude float64) Nakshatra {
	ns := Nakshatras()
	norm := normalizeDegrees(longitude)
	idx := int(norm / NakshatraArcWidth)
	if idx > 26 {
		idx = 26
	}
	if idx < 0 {
		idx = 0
	}
	return ns[idx]
}
