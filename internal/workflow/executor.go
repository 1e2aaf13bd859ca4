package workflow

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/fingerprint"
	"github.com/vedicsoul/consciousness-engine/internal/metrics"
)

// defaultFanOut is the bounded-concurrency ceiling spec.md §4.8/§6 sets
// for dispatching a workflow's cache-miss engines.
const defaultFanOut = 8

// Result is one engine's slot in a WorkflowResult: either a successful
// Output or a structured failure, never both.
type Result struct {
	EngineID     string
	Output       *engine.Output
	ErrorKind    string
	ErrorMessage string
}

// WorkflowResult is the ordered fan-out outcome, plus an optional
// synthesis block.
type WorkflowResult struct {
	EngineOutputs []Result
	Synthesis     *Synthesis
}

// Executor runs WorkflowSpecs against a registry and cache tier with
// bounded concurrency, modeled on the teacher's WaitGroup-plus-guarded-
// result-collection dispatch idiom (packages/com.r3e.services.oracle/
// service/dispatcher.go), generalized from a polling tick to a one-shot
// concurrent fan-out over a fixed engine list.
type Executor struct {
	registry      *engine.Registry
	tier          *cache.Tier
	engineVersion int
	fanOut        int
}

// NewExecutor constructs an Executor. fanOut<=0 defaults to 8.
func NewExecutor(reg *engine.Registry, tier *cache.Tier, engineVersion int, fanOut int) *Executor {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Executor{registry: reg, tier: tier, engineVersion: engineVersion, fanOut: fanOut}
}

// Run dispatches every engine in spec concurrently (bounded by the
// executor's fan-out limit), sharing one cancellation scope derived from
// ctx's deadline. A mandatory engine's failure aborts the whole run and
// is returned as the error; a non-mandatory failure becomes a {engineId,
// errorKind} Result entry and does not stop its siblings. Results are
// assembled in the workflow's declared order regardless of completion
// order (spec.md §4.8/§5).
func (e *Executor) Run(ctx context.Context, spec Spec, in engine.Input, principal engine.Principal, memo *Memo) (WorkflowResult, error) {
	start := time.Now()
	n := len(spec.EngineIDs)
	results := make([]Result, n)

	sem := make(chan struct{}, e.fanOut)
	var wg sync.WaitGroup
	var mandatoryErrMu sync.Mutex
	var mandatoryErr error

	for i, engineID := range spec.EngineIDs {
		wg.Add(1)
		go func(i int, engineID string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{EngineID: engineID, ErrorKind: string(apperrors.CodeTransientFailure), ErrorMessage: ctx.Err().Error()}
				return
			}

			out, err := Invoke(ctx, e.registry, e.tier, e.engineVersion, memo, principal, engineID, in)
			if err != nil {
				if spec.IsMandatory(engineID) {
					mandatoryErrMu.Lock()
					if mandatoryErr == nil {
						mandatoryErr = err
					}
					mandatoryErrMu.Unlock()
				}
				results[i] = Result{EngineID: engineID, ErrorKind: string(apperrors.CodeOf(err)), ErrorMessage: err.Error()}
				return
			}
			results[i] = Result{EngineID: engineID, Output: &out}
		}(i, engineID)
	}
	wg.Wait()

	status := "success"
	if mandatoryErr != nil {
		status = "error"
	}
	metrics.RecordWorkflowExecution(spec.ID, status, time.Since(start))
	if mandatoryErr != nil {
		return WorkflowResult{EngineOutputs: results}, mandatoryErr
	}

	wfResult := WorkflowResult{EngineOutputs: results}
	if spec.Synthesize {
		synthesis, err := e.synthesize(ctx, spec, in, results)
		if err != nil {
			return wfResult, err
		}
		wfResult.Synthesis = &synthesis
	}
	return wfResult, nil
}

// synthesize runs the pure composer over every successful Result,
// read-through cached by the multiset of their constituent cache keys.
func (e *Executor) synthesize(ctx context.Context, spec Spec, in engine.Input, results []Result) (Synthesis, error) {
	outputs := make([]engine.Output, 0, len(results))
	constituentKeys := make([]string, 0, len(results))
	for _, r := range results {
		if r.Output == nil {
			continue
		}
		outputs = append(outputs, *r.Output)
		fp, err := fingerprint.Derive(r.EngineID, in)
		if err != nil {
			continue
		}
		constituentKeys = append(constituentKeys, cache.Key(r.EngineID, e.engineVersion, fp))
	}

	key := synthesisCacheKey(spec.ID, constituentKeys)
	if e.tier != nil {
		if entry, ok := e.tier.Get(ctx, key); ok {
			var s Synthesis
			if err := json.Unmarshal(entry.Payload, &s); err == nil {
				return s, nil
			}
		}
	}

	synthesis := Compose(outputs)
	if e.tier != nil {
		payload, err := json.Marshal(synthesis)
		if err == nil {
			e.tier.Set(ctx, key, cache.Entry{EngineID: "synthesis:" + spec.ID, Version: e.engineVersion, Payload: payload, StoredAt: time.Now().UTC()})
		}
	}
	return synthesis, nil
}
