package wisdom

import (
	"math"
	"sync"
)

// GateArcWidth is 360/64 degrees, the width of every gate's ecliptic arc
// (spec.md §4.3).
const GateArcWidth = 360.0 / 64.0

// Gate is one of the 64 I-Ching gates, each spanning a fixed-width
// ecliptic arc and belonging to exactly one Human Design center.
type Gate struct {
	Number   int
	ArcStart float64
	ArcEnd   float64
	Center   string
}

// gateCenters maps each of the 64 gates to the center it belongs to.
var gateCenters = map[int]string{
	1: CenterG, 2: CenterG, 3: CenterSacral, 4: CenterAjna, 5: CenterSacral,
	6: CenterSolarPlexus, 7: CenterG, 8: CenterThroat, 9: CenterSacral, 10: CenterG,
	11: CenterAjna, 12: CenterThroat, 13: CenterG, 14: CenterSacral, 15: CenterG,
	16: CenterThroat, 17: CenterAjna, 18: CenterSpleen, 19: CenterRoot, 20: CenterThroat,
	21: CenterHeart, 22: CenterSolarPlexus, 23: CenterThroat, 24: CenterAjna, 25: CenterG,
	26: CenterHeart, 27: CenterSacral, 28: CenterSpleen, 29: CenterSacral, 30: CenterSolarPlexus,
	31: CenterThroat, 32: CenterSpleen, 33: CenterThroat, 34: CenterSacral, 35: CenterThroat,
	36: CenterSolarPlexus, 37: CenterSolarPlexus, 38: CenterRoot, 39: CenterRoot, 40: CenterHeart,
	41: CenterRoot, 42: CenterSacral, 43: CenterAjna, 44: CenterSpleen, 45: CenterThroat,
	46: CenterG, 47: CenterAjna, 48: CenterSpleen, 49: CenterSolarPlexus, 50: CenterSpleen,
	51: CenterHeart, 52: CenterRoot, 53: CenterRoot, 54: CenterRoot, 55: CenterSolarPlexus,
	56: CenterThroat, 57: CenterSpleen, 58: CenterRoot, 59: CenterSacral, 60: CenterRoot,
	61: CenterHead, 62: CenterThroat, 63: CenterHead, 64: CenterHead,
}

// gateOrder is the sequence in which gates are laid around the zodiac
// wheel, starting at 0° Aries. This is the traditional I-Ching wheel order
// used to derive each gate's ecliptic arc.
var gateOrder = []int{
	41, 19, 13, 49, 30, 55, 37, 63, 22, 36, 25, 17, 21, 51, 42, 3,
	27, 24, 2, 23, 8, 20, 16, 35, 45, 12, 15, 52, 39, 53, 62, 56,
	31, 33, 7, 4, 29, 59, 40, 64, 47, 6, 46, 18, 48, 57, 32, 50,
	28, 44, 1, 43, 14, 34, 9, 5, 26, 11, 10, 58, 38, 54, 61, 60,
}

// Gates returns the 64 gates with their ecliptic arcs, built from
// gateOrder and GateArcWidth; lazily computed once and cached.
func Gates() []Gate {
	gatesOnce.Do(buildGates)
	return gatesCache
}

var (
	gatesOnce     sync.Once
	gatesCache    []Gate
	gatesByNumber map[int]Gate
)

func buildGates() {
	gatesCache = make([]Gate, 0, 64)
	gatesByNumber = make(map[int]Gate, 64)
	for i, num := range gateOrder {
		start := float64(i) * GateArcWidth
		g := Gate{
			Number:   num,
			ArcStart: start,
			ArcEnd:   start + GateArcWidth,
			Center:   gateCenters[num],
		}
		gatesCache = append(gatesCache, g)
		gatesByNumber[num] = g
	}
}

// GateForLongitude returns the gate and line whose arc contains longitude
// (normalized to [0,360)). The wheel is divided into 64 equal
// GateArcWidth-wide slots starting at 0° Aries; idx = floor(λ/5.625)
// selects the slot and gateOrder[idx] maps that slot to its traditional
// gate number (spec.md §4.7.1 — gate numbers do not run sequentially
// around the zodiac, see gateOrder and the Open Question decision in
// DESIGN.md). line = floor((λ mod arcWidth)/(arcWidth/6))+1, clamped to
// [1,6].
func GateForLongitude(longitude float64) (gate int, line int) {
	Gates() // ensure built
	norm := normalizeDegrees(longitude)
	idx := int(norm / GateArcWidth)
	if idx > 63 {
		idx = 63
	}
	if idx < 0 {
		idx = 0
	}
	gate = gateOrder[idx]

	within := norm - float64(idx)*GateArcWidth
	lineWidth := GateArcWidth / 6
	lineIdx := int(within / lineWidth)
	if lineIdx > 5 {
		lineIdx = 5
	}
	if lineIdx < 0 {
		lineIdx = 0
	}
	line = lineIdx + 1
	return gate, line
}

// CenterOf returns the center a gate belongs to.
func CenterOf(gateNumber int) string {
	Gates()
	return gatesByNumber[gateNumber].Center
}

func normalizeDegrees(v float64) float64 {
	m := math.Mod(v, 360)
	if m < 0 {
		m += 360
	}
	return m
}
