package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/cache"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/ratelimit"
	"github.com/vedicsoul/consciousness-engine/internal/workflow"
)

type fakeKernel struct {
	out engine.Output
	err error
}

func (k *fakeKernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	if k.err != nil {
		return engine.Output{}, k.err
	}
	return k.out, nil
}

func newTestServer(t *testing.T) (http.Handler, *engine.Registry) {
	t.Helper()
	reg := engine.NewRegistry()
	reg.Register(engine.Descriptor{ID: "numerology", NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "numerology", Result: map[string]interface{}{"lifePath": 5}, WitnessPrompt: "p"}})
	reg.Register(engine.Descriptor{ID: "human_design", RequiredPhase: 1, NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "human_design", Result: map[string]interface{}{}, WitnessPrompt: "p"}})
	reg.Register(engine.Descriptor{ID: "panchanga", NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "panchanga", Result: map[string]interface{}{}, WitnessPrompt: "panchanga prompt"}})
	reg.Register(engine.Descriptor{ID: "vedic_clock", NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "vedic_clock", Result: map[string]interface{}{}, WitnessPrompt: "clock prompt"}})
	reg.Register(engine.Descriptor{ID: "biorhythm", NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "biorhythm", Result: map[string]interface{}{}, WitnessPrompt: "bio prompt"}})

	tier, err := cache.NewTier(cache.Options{L1Size: 100}, cache.NewMemoryL2Store(), nil, nil)
	require.NoError(t, err)

	exec := workflow.NewExecutor(reg, tier, 1, 8)
	log := logging.New("test", "error", "text")

	handler := NewRouter(Config{
		Registry:         reg,
		Tier:             tier,
		Executor:         exec,
		EngineVersion:    1,
		Log:              log,
		Limiter:          ratelimit.New(time.Minute),
		PrincipalDeriver: NewPrincipalDeriver("test-secret", 1000),
		CORS:             CORSConfig{AllowedOrigins: []string{"*"}},
		ReadinessChecks:  map[string]ReadinessCheck{},
	})
	return handler, reg
}

func TestHandleCalculateSuccess(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/numerology/calculate", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))

	var out engine.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "numerology", out.EngineID)
}

func TestHandleCalculateUnknownEngineReturns404(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/nonexistent/calculate", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCalculatePhaseGatedReturns403(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/human_design/calculate", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleCalculateWithValidBearerTokenUnlocksPhase(t *testing.T) {
	handler, _ := newTestServer(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TierLimit: 50,
		Phase:     2,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/human_design/calculate", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCalculateMalformedBodyReturns400(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/numerology/calculate", bytes.NewBufferString(`not json`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWorkflowExecuteReturnsOrderedOutputsAndSynthesis(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/daily_snapshot/execute", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		EngineOutputs json.RawMessage     `json:"engine_outputs"`
		Synthesis     *workflow.Synthesis `json:"synthesis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Synthesis)
	assert.Contains(t, string(body.EngineOutputs), "panchanga")
}

func TestHandleWorkflowExecuteUnknownWorkflowReturns404(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/nonexistent/execute", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListEnginesFiltersByPhase(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/engines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Engines []engine.Descriptor `json:"engines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, d := range body.Engines {
		assert.NotEqual(t, "human_design", d.ID)
	}
}

func TestHandleLivenessAlwaysOK(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadinessReportsFailingCheck(t *testing.T) {
	reg := engine.NewRegistry()
	tier, err := cache.NewTier(cache.Options{L1Size: 10}, cache.NewMemoryL2Store(), nil, nil)
	require.NoError(t, err)
	exec := workflow.NewExecutor(reg, tier, 1, 8)

	handler := NewRouter(Config{
		Registry:         reg,
		Tier:             tier,
		Executor:         exec,
		EngineVersion:    1,
		Log:              logging.New("test", "error", "text"),
		Limiter:          ratelimit.New(time.Minute),
		PrincipalDeriver: NewPrincipalDeriver("test-secret", 1000),
		ReadinessChecks: map[string]ReadinessCheck{
			"sidecar": func(ctx context.Context) error { return apperrors.TransientFailure("unreachable", nil) },
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitExceededReturns429WithHeaders(t *testing.T) {
	reg := engine.NewRegistry()
	reg.Register(engine.Descriptor{ID: "numerology", NativeOrBridged: engine.Native},
		&fakeKernel{out: engine.Output{EngineID: "numerology", Result: map[string]interface{}{}, WitnessPrompt: "p"}})
	tier, err := cache.NewTier(cache.Options{L1Size: 10}, cache.NewMemoryL2Store(), nil, nil)
	require.NoError(t, err)
	exec := workflow.NewExecutor(reg, tier, 1, 8)

	handler := NewRouter(Config{
		Registry:         reg,
		Tier:             tier,
		Executor:         exec,
		EngineVersion:    1,
		Log:              logging.New("test", "error", "text"),
		Limiter:          ratelimit.New(time.Minute),
		PrincipalDeriver: NewPrincipalDeriver("test-secret", 1),
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/engines/numerology/calculate", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 1 {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		}
	}
}
