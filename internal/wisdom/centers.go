package wisdom

// Center is one of the nine Human Design centers.
type Center struct {
	Name      string
	Motor     bool
	Awareness bool
}

// Center name constants, used as map keys throughout this package and by
// the Human Design kernel.
const (
	CenterHead        = "Head"
	CenterAjna        = "Ajna"
	CenterThroat      = "Throat"
	CenterG           = "G"
	CenterHeart       = "Heart"
	CenterSpleen      = "Spleen"
	CenterSacral      = "Sacral"
	CenterSolarPlexus = "SolarPlexus"
	CenterRoot        = "Root"
)

// Centers lists the 9 centers with their motor/awareness classification
// (spec.md §4.3).
var Centers = []Center{
	{Name: CenterHead, Motor: false, Awareness: false},
	{Name: CenterAjna, Motor: false, Awareness: true},
	{Name: CenterThroat, Motor: false, Awareness: false},
	{Name: CenterG, Motor: false, Awareness: false},
	{Name: CenterHeart, Motor: true, Awareness: false},
	{Name: CenterSpleen, Motor: false, Awareness: true},
	{Name: CenterSacral, Motor: true, Awareness: false},
	{Name: CenterSolarPlexus, Motor: true, Awareness: true},
	{Name: CenterRoot, Motor: true, Awareness: false},
}

func centerIsMotor(name string) bool {
	for _, c := range Centers {
		if c.Name == name {
			return c.Motor
		}
	}
	return false
}
