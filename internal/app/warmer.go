package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vedicsoul/consciousness-engine/internal/app/system"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/workflow"
)

// warmerPrincipal is used only to pass the phase-gate check for the
// calendrical engines, which all sit at phase 0.
var warmerPrincipal = engine.Principal{ID: "cache-warmer", TierLimit: 0, CurrentPhase: 0}

// cacheWarmer periodically recomputes the "now"-only engines (tithi of the
// day, today's choghadiya) so the first real request of the day finds a
// warm cache rather than paying the full calculation cost (SPEC_FULL.md's
// domain-stack entry for robfig/cron/v3). Off by default; enabled only
// when a non-empty schedule is configured.
type cacheWarmer struct {
	app      *Application
	schedule string
	cron     *cron.Cron
	log      *logging.Logger
}

func newCacheWarmer(a *Application, schedule string) *cacheWarmer {
	return &cacheWarmer{app: a, schedule: schedule, log: a.log}
}

func (w *cacheWarmer) Name() string { return "cache-warmer" }

// Descriptor places the warmer in the cache layer for the
// /health/components diagnostics route.
func (w *cacheWarmer) Descriptor() system.Descriptor {
	return system.Descriptor{Name: w.Name(), Layer: system.LayerCache}
}

func (w *cacheWarmer) Start(ctx context.Context) error {
	if w.schedule == "" {
		return nil
	}
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.tick(context.Background())
	}); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *cacheWarmer) Stop(ctx context.Context) error {
	if w.cron == nil {
		return nil
	}
	stopped := w.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	return nil
}

// tick warms panchanga and vedic_clock for "now" — the two engines that
// depend only on the instant, not on a birth chart, and are most likely to
// be hit repeatedly by many principals within the same second.
func (w *cacheWarmer) tick(ctx context.Context) {
	in := engine.Input{Now: time.Now().UTC()}
	for _, engineID := range []string{"panchanga", "vedic_clock"} {
		if _, err := workflow.Invoke(ctx, w.app.registry, w.app.tier, w.app.cfg.Cache.EngineVersion, nil, warmerPrincipal, engineID, in); err != nil {
			w.log.WithRequest(ctx).WithError(err).WithField("engine_id", engineID).Warn("cache warmer tick failed")
		}
	}
}
