// Package engines wires every native kernel's constructor into an
// engine.Registry with its EngineDescriptor. Bridged (sidecar) engines are
// registered separately once an internal/sidecar client is available.
package engines

import (
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/engines/biorhythm"
	"github.com/vedicsoul/consciousness-engine/internal/engines/genekeys"
	"github.com/vedicsoul/consciousness-engine/internal/engines/humandesign"
	"github.com/vedicsoul/consciousness-engine/internal/engines/numerology"
	"github.com/vedicsoul/consciousness-engine/internal/engines/panchanga"
	"github.com/vedicsoul/consciousness-engine/internal/engines/vedicclock"
	"github.com/vedicsoul/consciousness-engine/internal/engines/vimshottari"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
)

// RegisterNative registers the seven native kernels against reg, sharing
// one EphemerisOracle. Phase requirements reflect each engine's
// dependency depth: the calendrical kernels need no unlock, Human Design
// gates phase 1, and the two kernels that build on it (Gene Keys via HD's
// gate set, Vimshottari as the other load-bearing astrological kernel)
// gate phase 2.
func RegisterNative(reg *engine.Registry, oracle ephemeris.Oracle) {
	reg.Register(engine.Descriptor{
		ID: numerology.EngineID, DisplayName: "Numerology", RequiredPhase: 0, NativeOrBridged: engine.Native,
	}, numerology.New())

	reg.Register(engine.Descriptor{
		ID: biorhythm.EngineID, DisplayName: "Biorhythm", RequiredPhase: 0, NativeOrBridged: engine.Native,
	}, biorhythm.New())

	reg.Register(engine.Descriptor{
		ID: panchanga.EngineID, DisplayName: "Panchanga", RequiredPhase: 0, NativeOrBridged: engine.Native,
	}, panchanga.New(oracle))

	reg.Register(engine.Descriptor{
		ID: vedicclock.EngineID, DisplayName: "Vedic Clock", RequiredPhase: 0, NativeOrBridged: engine.Native,
	}, vedicclock.New())

	reg.Register(engine.Descriptor{
		ID: humandesign.EngineID, DisplayName: "Human Design", RequiredPhase: 1, NativeOrBridged: engine.Native,
	}, humandesign.New(oracle))

	reg.Register(engine.Descriptor{
		ID: genekeys.EngineID, DisplayName: "Gene Keys", RequiredPhase: 2, NativeOrBridged: engine.Native,
	}, genekeys.New(oracle))

	reg.Register(engine.Descriptor{
		ID: vimshottari.EngineID, DisplayName: "Vimshottari Dasha", RequiredPhase: 2, NativeOrBridged: engine.Native,
	}, vimshottari.New(oracle))
}

// BridgedDescriptors lists the five sidecar-backed engines with no
// in-process kernel (spec.md's EXPANSION §4.7); RegisterBridged (in
// internal/sidecar) attaches their dispatch handle once the bridge client
// exists.
var BridgedDescriptors = []engine.Descriptor{
	{ID: "tarot", DisplayName: "Tarot", RequiredPhase: 0, NativeOrBridged: engine.Bridged},
	{ID: "iching", DisplayName: "I Ching", RequiredPhase: 0, NativeOrBridged: engine.Bridged},
	{ID: "enneagram", DisplayName: "Enneagram", RequiredPhase: 0, NativeOrBridged: engine.Bridged},
	{ID: "sacred_geometry", DisplayName: "Sacred Geometry", RequiredPhase: 1, NativeOrBridged: engine.Bridged},
	{ID: "archetype_compass", DisplayName: "Archetype Compass", RequiredPhase: 1, NativeOrBridged: engine.Bridged},
}
