// Package workflow implements the WorkflowExecutor (spec.md §4.8): bounded
// concurrent engine fan-out with per-request memoization, cache-tier
// read-through, ordered result assembly and a pure synthesis composer.
package workflow

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/time/rate"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/fingerprint"
	"github.com/vedicsoul/consciousness-engine/internal/metrics"
)

// defaultNativeTimeout and defaultBridgedTimeout are the per-engine
// soft-timeout bounds spec.md §5 sets: 2s for in-process kernels, 10s for
// sidecar-bridged ones.
const (
	defaultNativeTimeout  = 2 * time.Second
	defaultBridgedTimeout = 10 * time.Second
)

// bridgedRate and bridgedBurst bound the rate at which this process opens
// sidecar calls, independent of the per-request soft timeout above: a
// request can still wait out its own timeout, but the sidecar as a whole
// never receives more than bridgedRate calls/sec from this process.
const (
	bridgedRate  = 20
	bridgedBurst = 5
)

// bridgedLimiter is the process-wide token bucket (bridgedRate calls per
// second, burst bridgedBurst) that every bridged/sidecar call waits on
// before dispatch. It bounds the call rate, not concurrency, and is
// distinct from internal/ratelimit's principal-keyed sliding window.
var bridgedLimiter = rate.NewLimiter(rate.Limit(bridgedRate), bridgedBurst)

// birthKeyedIndefinitely names the engines spec.md §4.4 calls out as
// birth-keyed and fully input-determined: their cache entries never
// expire out of L1 rather than riding the default TTL every other
// engine uses.
var birthKeyedIndefinitely = map[string]bool{
	"human_design": true,
	"vimshottari":  true,
}

// Invoke runs one engine through the full dispatch path: phase-gate check,
// memo lookup, cache-tier GetOrCompute (which itself collapses concurrent
// misses via single-flight), bounded by a per-engine soft-timeout derived
// from whether the engine is native or bridged. It is shared by the
// single-engine HTTP handler and the workflow executor below so "no engine
// invoked twice per request" holds across both call sites when they share
// a Memo.
func Invoke(ctx context.Context, reg *engine.Registry, tier *cache.Tier, engineVersion int, memo *Memo, principal engine.Principal, engineID string, in engine.Input) (engine.Output, error) {
	if err := reg.ValidateCapability(engineID, principal); err != nil {
		return engine.Output{}, err
	}

	if memo != nil {
		if out, ok := memo.get(engineID); ok {
			out.Metadata.Cached = true
			return out, nil
		}
	}

	descriptor, kernel, err := reg.Get(engineID)
	if err != nil {
		return engine.Output{}, err
	}

	fp, err := fingerprint.Derive(engineID, in)
	if err != nil {
		return engine.Output{}, err
	}
	key := cache.Key(engineID, engineVersion, fp)

	softTimeout := defaultNativeTimeout
	if descriptor.NativeOrBridged == engine.Bridged {
		softTimeout = defaultBridgedTimeout
	}

	compute := func() (cache.Entry, error) {
		callCtx, cancel := context.WithTimeout(ctx, softTimeout)
		defer cancel()

		if descriptor.NativeOrBridged == engine.Bridged {
			if waitErr := bridgedLimiter.Wait(callCtx); waitErr != nil {
				return cache.Entry{}, apperrors.TransientFailure("sidecar concurrency budget exhausted", waitErr)
			}
		}

		out, err := kernel.Calculate(callCtx, in)
		if err != nil {
			if callCtx.Err() != nil && !isServiceError(err) {
				return cache.Entry{}, apperrors.TransientFailure("engine call cancelled or timed out", callCtx.Err())
			}
			return cache.Entry{}, err
		}
		payload, marshalErr := json.Marshal(out)
		if marshalErr != nil {
			return cache.Entry{}, apperrors.CalculationFailed(engineID, "marshal engine output: "+marshalErr.Error())
		}
		return cache.Entry{EngineID: engineID, Version: engineVersion, Payload: payload, StoredAt: time.Now().UTC()}, nil
	}

	start := time.Now()
	var entry cache.Entry
	var cached bool
	if birthKeyedIndefinitely[engineID] {
		entry, cached, err = tier.GetOrComputeIndefinite(ctx, key, compute)
	} else {
		entry, cached, err = tier.GetOrCompute(ctx, key, compute)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordEngineInvocation(engineID, status, time.Since(start))
	if err != nil {
		return engine.Output{}, err
	}

	var out engine.Output
	if err := json.Unmarshal(entry.Payload, &out); err != nil {
		return engine.Output{}, apperrors.CalculationFailed(engineID, "unmarshal cached output: "+err.Error())
	}
	out.Metadata.Cached = cached

	if memo != nil {
		memo.set(engineID, out)
	}
	return out, nil
}

func isServiceError(err error) bool {
	return apperrors.CodeOf(err) != ""
}
