package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/workflow"
)

// calculateRequest is the POST body for a single-engine calculation.
type calculateRequest struct {
	Birth     *engine.BirthRecord    `json:"birth,omitempty"`
	Now       *time.Time             `json:"now,omitempty"`
	Precision engine.Precision       `json:"precision,omitempty"`
	Options   map[string]interface{} `json:"options,omitempty"`
}

func (r calculateRequest) toInput() engine.Input {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now.UTC()
	}
	return engine.Input{Birth: r.Birth, Now: now, Precision: r.Precision, Options: r.Options}
}

// handleCalculate serves POST /api/v1/engines/{engineId}/calculate.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	engineID := mux.Vars(r)["engineId"]
	principal := PrincipalFrom(r.Context())

	var req calculateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, s.log, apperrors.InvalidInput("malformed request body: "+err.Error()))
			return
		}
	}

	out, err := workflow.Invoke(r.Context(), s.registry, s.tier, s.engineVersion, nil, principal, engineID, req.toInput())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// workflowExecuteResponse is the POST /api/v1/workflows/{workflowId}/execute body.
type workflowExecuteResponse struct {
	EngineOutputs *orderedOutputs     `json:"engine_outputs"`
	Synthesis     *workflow.Synthesis `json:"synthesis,omitempty"`
}

// handleWorkflowExecute serves POST /api/v1/workflows/{workflowId}/execute.
func (s *Server) handleWorkflowExecute(w http.ResponseWriter, r *http.Request) {
	workflowID := mux.Vars(r)["workflowId"]
	principal := PrincipalFrom(r.Context())

	spec, ok := workflow.Lookup(workflowID)
	if !ok {
		writeError(w, r, s.log, apperrors.UnknownWorkflow(workflowID))
		return
	}

	var req calculateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, s.log, apperrors.InvalidInput("malformed request body: "+err.Error()))
			return
		}
	}

	result, err := s.executor.Run(r.Context(), spec, req.toInput(), principal, workflow.NewMemo())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	outputs := newOrderedOutputs(len(result.EngineOutputs))
	for _, res := range result.EngineOutputs {
		if res.Output != nil {
			outputs.set(res.EngineID, res.Output)
		} else {
			outputs.set(res.EngineID, map[string]interface{}{"error": map[string]string{"kind": res.ErrorKind, "message": res.ErrorMessage}})
		}
	}
	writeJSON(w, http.StatusOK, workflowExecuteResponse{EngineOutputs: outputs, Synthesis: result.Synthesis})
}

// handleListEngines serves GET /api/v1/engines.
func (s *Server) handleListEngines(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"engines": s.registry.ListDescriptors(principal)})
}

// handleLiveness serves GET /health/live: the process is up.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleComponents serves GET /health/components: the set of long-running
// components the process manages (HTTP listener, cache warmer), sorted by
// layer then name, as supplied by the app layer's lifecycle manager.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"components": s.components})
}

// handleReadiness serves GET /health/ready: every registered dependency
// check (cache L2, ephemeris init, sidecar ping) must succeed.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.readinessChecks))
	healthy := true
	for name, check := range s.readinessChecks {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}
	status := http.StatusOK
	body := map[string]interface{}{"status": "ready", "checks": checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "not_ready"
	}
	writeJSON(w, status, body)
}
