package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/ratelimit"
)

// maxBodyBytes bounds request bodies the way the teacher's bodylimit
// middleware does, before any handler touches them.
const maxBodyBytes = 1 << 20 // 1 MiB; calculate requests are small JSON payloads.

// recoveryMiddleware recovers from panics in any downstream handler, logs
// the stack, and answers with a generic 500 rather than crashing the
// listener goroutine.
func recoveryMiddleware(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithRequest(r.Context()).WithFields(map[string]interface{}{
						"panic": fmt.Sprintf("%v", rec),
						"stack": string(debug.Stack()),
						"path":  r.URL.Path,
					}).Error("panic recovered")
					writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
						"error": map[string]interface{}{"code": "INTERNAL_ERROR", "message": "internal server error"},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code for
// the access log line written after the handler returns.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// requestLogMiddleware assigns (or propagates) a request id, stores it and
// the derived principal on the request context, and logs one line per
// request with status and latency.
func requestLogMiddleware(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logging.WithRequestID(r.Context(), r.Header.Get("X-Request-ID"))
			r = r.WithContext(ctx)

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Request-ID", logging.RequestIDFrom(ctx))

			next.ServeHTTP(rw, r)

			log.WithRequest(r.Context()).WithFields(map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request handled")
		})
	}
}

// CORSConfig configures the handful of cross-origin behaviors this service
// needs; a nil config allows no origins.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func corsMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	allowAll := false
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || originAllowed(origin, cfg.AllowedOrigins)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if a == origin {
			return true
		}
		if strings.HasPrefix(a, ".") && strings.HasSuffix(host, strings.TrimPrefix(a, ".")) {
			return true
		}
	}
	return false
}

// bodyLimitMiddleware caps request body size before the handler reads it.
func bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware enforces the principal's tier limit and stamps the
// X-RateLimit-* headers spec.md §6 requires on every authenticated
// response, skipping the public health/metrics endpoints.
func rateLimitMiddleware(limiter *ratelimit.Limiter, deriver *PrincipalDeriver, log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := deriver.Derive(r)
			ctx := WithPrincipal(r.Context(), principal)
			ctx = logging.WithPrincipal(ctx, principal.ID)
			r = r.WithContext(ctx)

			decision := limiter.Allow(principal.ID, principal.TierLimit)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetUnix, 10))

			if !decision.Allowed {
				writeError(w, r, log, rateLimitError(decision))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
