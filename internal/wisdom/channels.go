package wisdom

import (
	"strconv"
	"sync"
)

// Channel is one of the 36 Human Design channels, a pair of gates plus the
// two centers they connect.
type Channel struct {
	Name    string
	GateA   int
	GateB   int
	CenterA string
	CenterB string
}

// channelGatePairs is the fixed list of the 36 channels, named by their
// constituent gates.
var channelGatePairs = [][2]int{
	{1, 8}, {2, 14}, {3, 60}, {4, 63}, {5, 15}, {6, 59}, {7, 31}, {9, 52},
	{10, 20}, {10, 34}, {10, 57}, {11, 56}, {12, 22}, {13, 33}, {16, 48},
	{17, 62}, {18, 58}, {19, 49}, {20, 34}, {20, 57}, {21, 45}, {23, 43},
	{24, 61}, {25, 51}, {26, 44}, {27, 50}, {28, 38}, {29, 46}, {30, 41},
	{32, 54}, {34, 57}, {35, 36}, {37, 40}, {39, 55}, {42, 53}, {47, 64},
}

// Channels returns the 36 channels, built lazily and cached.
func Channels() []Channel {
	channelsOnce.Do(buildChannels)
	return channelsCache
}

var (
	channelsOnce  sync.Once
	channelsCache []Channel
)

func buildChannels() {
	Gates()
	channelsCache = make([]Channel, 0, len(channelGatePairs))
	for _, pair := range channelGatePairs {
		channelsCache = append(channelsCache, Channel{
			Name:    channelName(pair[0], pair[1]),
			GateA:   pair[0],
			GateB:   pair[1],
			CenterA: gateCenters[pair[0]],
			CenterB: gateCenters[pair[1]],
		})
	}
}

func channelName(a, b int) string {
	return channelLabel(a) + "-" + channelLabel(b)
}

func channelLabel(gate int) string {
	return strconv.Itoa(gate)
}

// ActiveChannels returns the channels active given a set of activated
// gates: both of a channel's gates must be present (spec.md §3 invariant).
func ActiveChannels(activatedGates map[int]bool) []Channel {
	var active []Channel
	for _, c := range Channels() {
		if activatedGates[c.GateA] && activatedGates[c.GateB] {
			active = append(active, c)
		}
	}
	return active
}

// DefinedCenters returns the set of centers touched by at least one active
// channel.
func DefinedCenters(active []Channel) map[string]bool {
	defined := make(map[string]bool)
	for _, c := range active {
		defined[c.CenterA] = true
		defined[c.CenterB] = true
	}
	return defined
}

// ChannelConnects reports whether any active channel directly connects
// centerA and centerB.
func ChannelConnects(active []Channel, centerA, centerB string) bool {
	for _, c := range active {
		if (c.CenterA == centerA && c.CenterB == centerB) || (c.CenterA == centerB && c.CenterB == centerA) {
			return true
		}
	}
	return false
}
