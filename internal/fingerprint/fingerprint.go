// Package fingerprint derives the canonical cache key used by CacheTier and
// the per-request engine memo: a SHA-256 digest over the canonicalized
// (engineId, EngineInput) pair (spec.md §4.1).
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

// subSecondEngines output does not depend on sub-second time; their "now"
// is floored to one-second granularity before hashing so that repeated
// requests within the same second share a cache key.
var subSecondEngines = map[string]bool{
	"panchanga":    true,
	"vimshottari":  true,
	"human_design": true,
	"gene_keys":    true,
}

// Fingerprint is the stable 256-bit digest over an engine id and its
// canonicalized input, hex-encoded.
type Fingerprint string

// Derive computes the Fingerprint for (engineID, in), validating required
// fields first. Equal fingerprints mean equivalent outputs within a cache
// epoch (spec.md §3 invariant).
func Derive(engineID string, in engine.Input) (Fingerprint, error) {
	canon, err := canonicalize(engineID, in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}

// canonicalPayload is the JSON shape fed to the digest: field order is
// fixed by struct declaration order, and encoding/json already emits map
// keys in lexicographic order, which together give byte-stable output for
// equal logical inputs.
type canonicalPayload struct {
	EngineID  string                 `json:"engine_id"`
	Birth     *canonicalBirth        `json:"birth,omitempty"`
	Now       string                 `json:"now"`
	Precision string                 `json:"precision,omitempty"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

type canonicalBirth struct {
	DisplayName string  `json:"display_name,omitempty"`
	CivilDate   string  `json:"civil_date"`
	CivilTime   string  `json:"civil_time"`
	Timezone    string  `json:"tz"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func canonicalize(engineID string, in engine.Input) ([]byte, error) {
	if engineID == "" {
		return nil, apperrors.InvalidInput("engine id is required")
	}

	payload := canonicalPayload{
		EngineID:  engineID,
		Precision: string(in.Precision),
		Options:   in.Options,
	}

	now := in.Now
	if now.IsZero() {
		return nil, apperrors.InvalidInput("now is required").WithDetails("engine_id", engineID)
	}
	if subSecondEngines[engineID] {
		now = now.Truncate(time.Second)
	}
	payload.Now = now.UTC().Format(time.RFC3339Nano)

	if in.Birth != nil {
		b := in.Birth
		if b.CivilDate == "" || b.CivilTime == "" || b.Timezone == "" {
			return nil, apperrors.InvalidInput("birth record requires civilDate, civilTime and tz").
				WithDetails("engine_id", engineID)
		}
		if b.Latitude < -90 || b.Latitude > 90 {
			return nil, apperrors.InvalidInput("latitude out of range").WithDetails("engine_id", engineID)
		}
		if b.Longitude < -180 || b.Longitude > 180 {
			return nil, apperrors.InvalidInput("longitude out of range").WithDetails("engine_id", engineID)
		}
		payload.Birth = &canonicalBirth{
			DisplayName: b.DisplayName,
			CivilDate:   b.CivilDate,
			CivilTime:   b.CivilTime,
			Timezone:    b.Timezone,
			Latitude:    roundCoordinate(b.Latitude),
			Longitude:   roundCoordinate(b.Longitude),
		}
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal canonical payload: %w", err)
	}
	return out, nil
}

// roundCoordinate rounds a geographic coordinate to six decimal places.
func roundCoordinate(v float64) float64 {
	const scale = 1e6
	return math.Round(v*scale) / scale
}
