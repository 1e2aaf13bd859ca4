// Package sidecar bridges the five non-astronomical engines (tarot, iching,
// enneagram, sacred_geometry, archetype_compass) to an external HTTP process
// per spec.md §6: a JSON POST of {engineId, input} returning an EngineOutput
// or a structured error envelope. The core treats the sidecar as a black
// box; this package owns only transport, timeout and retry.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
	"github.com/vedicsoul/consciousness-engine/internal/engine"
	"github.com/vedicsoul/consciousness-engine/internal/metrics"
	"github.com/vedicsoul/consciousness-engine/internal/resilience"
)

const defaultTimeout = 10 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Retry      resilience.Config
}

// Client invokes bridged engines over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      resilience.Config
}

// New builds a Client. A nil/zero HTTPClient gets a fresh one with the
// configured timeout; a zero Retry config falls back to
// resilience.DefaultConfig().
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("sidecar client: base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	} else if httpClient.Timeout == 0 {
		copied := *httpClient
		copied.Timeout = timeout
		httpClient = &copied
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = resilience.DefaultConfig()
	}

	return &Client{baseURL: cfg.BaseURL, httpClient: httpClient, retry: retry}, nil
}

// requestEnvelope is the wire body sent to the sidecar.
type requestEnvelope struct {
	EngineID string       `json:"engineId"`
	Input    engine.Input `json:"input"`
}

// errorEnvelope is the sidecar's structured error shape.
type errorEnvelope struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// transientError marks a sidecar call failure as retryable: network
// errors and 5xx responses are transient, 4xx responses are permanent.
type transientError struct{ err error }

func (t transientError) Error() string { return t.err.Error() }
func (t transientError) Unwrap() error { return t.err }

func isRetryable(err error) bool {
	_, ok := err.(transientError)
	return ok
}

// invoke is the shared call path, retrying transient failures per the
// resilience policy. engineID is threaded explicitly so one Client can
// back several per-engine Kernel adapters (see Bind).
func (c *Client) invoke(ctx context.Context, engineID string, in engine.Input) (engine.Output, error) {
	var out engine.Output

	err := resilience.Retry(ctx, c.retry, isRetryable, func() error {
		result, callErr := c.doCall(ctx, engineID, in)
		if callErr != nil {
			return callErr
		}
		out = result
		return nil
	})
	if err != nil {
		if te, ok := err.(transientError); ok {
			metrics.RecordSidecarCall(engineID, "transient_error")
			return engine.Output{}, apperrors.TransientFailure(fmt.Sprintf("sidecar call to %q failed", engineID), te.err)
		}
		metrics.RecordSidecarCall(engineID, "error")
		return engine.Output{}, err
	}
	metrics.RecordSidecarCall(engineID, "success")
	return out, nil
}

func (c *Client) doCall(ctx context.Context, engineID string, in engine.Input) (engine.Output, error) {
	body, err := json.Marshal(requestEnvelope{EngineID: engineID, Input: in})
	if err != nil {
		return engine.Output{}, apperrors.CalculationFailed(engineID, "marshal sidecar request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return engine.Output{}, apperrors.CalculationFailed(engineID, "build sidecar request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return engine.Output{}, apperrors.TransientFailure("sidecar call cancelled", ctx.Err())
		}
		return engine.Output{}, transientError{err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return engine.Output{}, transientError{fmt.Errorf("read sidecar response: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return engine.Output{}, transientError{fmt.Errorf("sidecar returned %d: %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Message != "" {
			return engine.Output{}, apperrors.CalculationFailed(engineID, fmt.Sprintf("sidecar error (%s): %s", envelope.Error.Kind, envelope.Error.Message))
		}
		return engine.Output{}, apperrors.CalculationFailed(engineID, fmt.Sprintf("sidecar returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var out engine.Output
	if err := json.Unmarshal(respBody, &out); err != nil {
		return engine.Output{}, apperrors.CalculationFailed(engineID, "unmarshal sidecar response: "+err.Error())
	}
	return out, nil
}

// Ping checks sidecar reachability for the readiness probe (spec.md §6).
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return apperrors.TransientFailure("build sidecar ping request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.TransientFailure("sidecar unreachable", err)
	}
	defer resp.Body.Close()
	return nil
}

// boundKernel adapts Client to engine.Kernel for one fixed engine id, since
// the registry stores one Kernel per descriptor.
type boundKernel struct {
	client   *Client
	engineID string
}

func (b boundKernel) Calculate(ctx context.Context, in engine.Input) (engine.Output, error) {
	return b.client.invoke(ctx, b.engineID, in)
}

// Bind returns an engine.Kernel that invokes engineID over c.
func (c *Client) Bind(engineID string) engine.Kernel {
	return boundKernel{client: c, engineID: engineID}
}

// RegisterBridged binds every descriptor in engines.BridgedDescriptors to
// reg using c, completing the registry alongside RegisterNative.
func RegisterBridged(reg *engine.Registry, c *Client, descriptors []engine.Descriptor) {
	for _, d := range descriptors {
		reg.Register(d, c.Bind(d.ID))
	}
}
