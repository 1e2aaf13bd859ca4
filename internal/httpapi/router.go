package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/metrics"
	"github.com/vedicsoul/consciousness-engine/internal/ratelimit"
	"github.com/vedicsoul/consciousness-engine/internal/workflow"
)

// ReadinessCheck is a named dependency probe the readiness handler runs.
type ReadinessCheck func(ctx context.Context) error

// ComponentInfo describes one registered lifecycle component for the
// /health/components diagnostics route. It is a transport-layer copy of
// whatever descriptor type the app layer's lifecycle manager collects, so
// this package stays free of a dependency on that manager.
type ComponentInfo struct {
	Name  string `json:"name"`
	Layer string `json:"layer"`
}

// Server holds the dependencies the HTTP handlers close over.
type Server struct {
	registry        *engine.Registry
	tier            *cache.Tier
	executor        *workflow.Executor
	engineVersion   int
	log             *logging.Logger
	readinessChecks map[string]ReadinessCheck
	components      []ComponentInfo
}

// Config bundles everything NewRouter needs to build the HandlerShim.
type Config struct {
	Registry         *engine.Registry
	Tier             *cache.Tier
	Executor         *workflow.Executor
	EngineVersion    int
	Log              *logging.Logger
	Limiter          *ratelimit.Limiter
	PrincipalDeriver *PrincipalDeriver
	CORS             CORSConfig
	ReadinessChecks  map[string]ReadinessCheck
	Components       []ComponentInfo
}

// NewRouter wires the gorilla/mux router, the seven HTTP routes and
// the full middleware chain: recovery, request logging, CORS, body-size
// limit, metrics instrumentation, then (on authenticated routes only) rate
// limiting.
func NewRouter(cfg Config) http.Handler {
	s := &Server{
		registry:        cfg.Registry,
		tier:            cfg.Tier,
		executor:        cfg.Executor,
		engineVersion:   cfg.EngineVersion,
		log:             cfg.Log,
		readinessChecks: cfg.ReadinessChecks,
		components:      cfg.Components,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/engines/{engineId}/calculate", s.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/workflows/{workflowId}/execute", s.handleWorkflowExecute).Methods(http.MethodPost)
	api.HandleFunc("/engines", s.handleListEngines).Methods(http.MethodGet)
	api.Use(rateLimitMiddleware(cfg.Limiter, cfg.PrincipalDeriver, cfg.Log))

	r.HandleFunc("/health/live", s.handleLiveness).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", s.handleReadiness).Methods(http.MethodGet)
	r.HandleFunc("/health/components", s.handleComponents).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return chain(r,
		recoveryMiddleware(cfg.Log),
		requestLogMiddleware(cfg.Log),
		corsMiddleware(cfg.CORS),
		bodyLimitMiddleware,
		metrics.InstrumentHandler,
	)
}
