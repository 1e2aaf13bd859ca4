// Package app wires the orchestration service's components — config,
// logging, cache tier, rate limiter, ephemeris oracle, engine registry,
// sidecar bridge, workflow executor, HTTP router — into one Application
// with a Start/Stop lifecycle, grounded on the teacher's internal/app
// bootstrap and its applications/system.Manager lifecycle primitive.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/vedicsoul/consciousness-engine/internal/app/system"
	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/config"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/engines"
	"github.com/vedicsoul/consciousness-engine/internal/ephemeris"
	"github.com/vedicsoul/consciousness-engine/internal/httpapi"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/ratelimit"
	"github.com/vedicsoul/consciousness-engine/internal/sidecar"
	"github.com/vedicsoul/consciousness-engine/internal/workflow"
)

// closer is the narrow interface the cache backends' Close methods satisfy.
type closer interface{ Close() error }

// Application owns every wired component of the orchestration service and
// the system.Manager governing their Start/Stop order.
type Application struct {
	cfg *config.Config
	log *logging.Logger

	registry *engine.Registry
	tier     *cache.Tier
	limiter  *ratelimit.Limiter
	oracle   ephemeris.Oracle
	sidecar  *sidecar.Client
	executor *workflow.Executor
	handler  http.Handler

	l2          cache.L2Store
	cacheCloser closer

	manager *system.Manager
}

// New builds a fully wired Application from cfg. Dependencies are
// constructed in the same order the teacher's appserver bootstraps them:
// logging, storage/cache, domain registries, then the HTTP surface.
func New(cfg *config.Config) (*Application, error) {
	log := logging.New("consciousness-engine", cfg.Logging.Level, cfg.Logging.Format)

	tier, l2, cacheCloser, err := buildCacheTier(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build cache tier: %w", err)
	}

	oracle := ephemeris.NewRetryingOracle(ephemeris.NewAnalyticOracle())

	registry := engine.NewRegistry()
	engines.RegisterNative(registry, oracle)

	var bridge *sidecar.Client
	if cfg.Sidecar.URL != "" {
		bridge, err = sidecar.New(sidecar.Config{
			BaseURL: cfg.Sidecar.URL,
			Timeout: time.Duration(cfg.Sidecar.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("build sidecar client: %w", err)
		}
		sidecar.RegisterBridged(registry, bridge, engines.BridgedDescriptors)
	}

	executor := workflow.NewExecutor(registry, tier, cfg.Cache.EngineVersion, fanOutFromCPU())

	limiter := ratelimit.New(time.Duration(cfg.RateLimit.WindowSeconds) * time.Second)
	deriver := httpapi.NewPrincipalDeriver(cfg.Auth.SharedSecret, cfg.RateLimit.DefaultTierLimit)

	a := &Application{
		cfg:         cfg,
		log:         log,
		registry:    registry,
		tier:        tier,
		limiter:     limiter,
		oracle:      oracle,
		sidecar:     bridge,
		executor:    executor,
		l2:          l2,
		cacheCloser: cacheCloser,
		manager:     system.NewManager(),
	}

	if err := a.manager.Register(newHTTPServerService(a)); err != nil {
		return nil, err
	}
	if err := a.manager.Register(newCacheWarmer(a, cfg.Cache.WarmerSchedule)); err != nil {
		return nil, err
	}

	a.handler = httpapi.NewRouter(httpapi.Config{
		Registry:         registry,
		Tier:             tier,
		Executor:         executor,
		EngineVersion:    cfg.Cache.EngineVersion,
		Log:              log,
		Limiter:          limiter,
		PrincipalDeriver: deriver,
		ReadinessChecks:  a.readinessChecks(),
		Components:       componentInfos(a.manager.Descriptors()),
	})

	return a, nil
}

// componentInfos converts the lifecycle manager's descriptors into the
// transport-layer shape httpapi exposes at /health/components.
func componentInfos(descriptors []system.Descriptor) []httpapi.ComponentInfo {
	out := make([]httpapi.ComponentInfo, len(descriptors))
	for i, d := range descriptors {
		out[i] = httpapi.ComponentInfo{Name: d.Name, Layer: string(d.Layer)}
	}
	return out
}

// Start begins every registered lifecycle service.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops every registered lifecycle service in reverse order and
// releases the cache backends' connections, if any.
func (a *Application) Stop(ctx context.Context) error {
	err := a.manager.Stop(ctx)
	if a.cacheCloser != nil {
		if closeErr := a.cacheCloser.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// Handler exposes the wired HTTP handler for tests that want to drive it
// directly via httptest without going through a real listener.
func (a *Application) Handler() http.Handler { return a.handler }

// readinessChecks builds the dependency probes the readiness endpoint runs:
// the L2 cache backend, the ephemeris oracle, and the sidecar bridge if one
// is configured. httpapi stays transport-only; these concrete probes are
// supplied here where the dependencies are actually constructed.
func (a *Application) readinessChecks() map[string]httpapi.ReadinessCheck {
	checks := map[string]httpapi.ReadinessCheck{
		"ephemeris": func(ctx context.Context) error {
			_, err := a.oracle.Position(ctx, ephemeris.Sun, time.Now().UTC())
			return err
		},
	}

	if p, ok := a.l2.(pinger); ok {
		checks["cache_l2"] = p.Ping
	}

	if a.sidecar != nil {
		checks["sidecar"] = a.sidecar.Ping
	}

	return checks
}

// pinger is satisfied by cache backends that can report liveness, such as
// the Redis L2 store. The in-memory L2 store doesn't implement it and is
// simply left out of the readiness check set.
type pinger interface {
	Ping(ctx context.Context) error
}

func buildCacheTier(cfg *config.Config, log *logging.Logger) (*cache.Tier, cache.L2Store, closer, error) {
	var l2 cache.L2Store
	var l2Closer closer
	if cfg.Cache.L2Endpoint != "" {
		redisStore, err := cache.NewRedisL2Store(cfg.Cache.L2Endpoint)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect L2 redis: %w", err)
		}
		l2 = redisStore
		l2Closer = redisStore
	} else {
		log.Warn("CACHE_L2_ENDPOINT not set; using in-memory L2 store (not shared across instances)")
		l2 = cache.NewMemoryL2Store()
	}

	var l3 cache.L3Store
	var l3Closer closer
	if cfg.Cache.L3Enabled {
		store, err := cache.OpenPostgresL3Store(context.Background(), cfg.Cache.L3DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open L3 postgres store: %w", err)
		}
		l3 = store
		l3Closer = store
	}

	tier, err := cache.NewTier(cache.Options{
		L1Size: cfg.Cache.L1Size,
		L1TTL:  time.Duration(cfg.Cache.L1TTLSeconds) * time.Second,
		L2TTL:  time.Duration(cfg.Cache.L2TTLSeconds) * time.Second,
	}, l2, l3, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return tier, l2, combinedCloser{l2: l2Closer, l3: l3Closer}, nil
}

// combinedCloser closes both cache backends, if they support it.
type combinedCloser struct{ l2, l3 closer }

func (c combinedCloser) Close() error {
	var err error
	if c.l2 != nil {
		if e := c.l2.Close(); e != nil {
			err = e
		}
	}
	if c.l3 != nil {
		if e := c.l3.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// fanOutFromCPU sizes the workflow executor's bounded concurrency to the
// machine's logical CPU count, falling back to the executor's own default
// when the count can't be determined (SPEC_FULL.md's domain-stack entry
// for gopsutil: "process resource gauges feeding the worker-pool-sizing
// decision").
func fanOutFromCPU() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
