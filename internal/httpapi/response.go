package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/ratelimit"
)

// rateLimitError builds the ServiceError the rate-limit middleware returns
// when a principal exhausts its window.
func rateLimitError(d ratelimit.Decision) error {
	return apperrors.RateLimitExceeded(d.Limit, d.ResetUnix)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// orderedOutputs marshals as a JSON object whose keys appear in insertion
// order, so a workflow's engine_outputs preserve the spec's declared-order
// guarantee even though Go's map encoding would otherwise sort keys.
type orderedOutputs struct {
	keys   []string
	values map[string]interface{}
}

func newOrderedOutputs(n int) *orderedOutputs {
	return &orderedOutputs{keys: make([]string, 0, n), values: make(map[string]interface{}, n)}
}

func (o *orderedOutputs) set(key string, value interface{}) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *orderedOutputs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeError maps err to the HTTP status its apperrors.Code carries and
// writes the ServiceError's code/message/details as the response body
// (spec.md §7's "the shim maps error kinds to HTTP codes").
func writeError(w http.ResponseWriter, r *http.Request, log *logging.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(apperrors.CodeOf(err)),
			"message": err.Error(),
		},
	}
	if status >= 500 {
		log.WithRequest(r.Context()).WithError(err).Error("request failed")
	}
	writeJSON(w, status, body)
}
