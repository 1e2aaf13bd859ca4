// Package apperrors defines the error taxonomy every engine kernel, cache
// tier, rate limiter and handler in this service returns. Every kind maps to
// exactly one user-visible HTTP status; callers should compare with
// errors.Is against the sentinels below, never by inspecting message text.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error kind from the orchestration-core taxonomy.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodePhaseGated        Code = "PHASE_GATED"
	CodeUnknownEngine     Code = "UNKNOWN_ENGINE"
	CodeUnknownWorkflow   Code = "UNKNOWN_WORKFLOW"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	CodeCalculationFailed Code = "CALCULATION_FAILED"
	CodeTransientFailure  Code = "TRANSIENT_FAILURE"
	CodeIntegrityError    Code = "INTEGRITY_ERROR"
)

// Sentinels usable with errors.Is. ServiceError.Unwrap() resolves to one of
// these so callers never need to inspect Code directly.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPhaseGated        = errors.New("phase gated")
	ErrUnknownEngine     = errors.New("unknown engine")
	ErrUnknownWorkflow   = errors.New("unknown workflow")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrCalculationFailed = errors.New("calculation failed")
	ErrTransientFailure  = errors.New("transient failure")
	ErrIntegrityError    = errors.New("integrity error")
)

var httpStatus = map[Code]int{
	CodeInvalidInput:      http.StatusBadRequest,
	CodePhaseGated:        http.StatusForbidden,
	CodeUnknownEngine:     http.StatusNotFound,
	CodeUnknownWorkflow:   http.StatusNotFound,
	CodeRateLimitExceeded: http.StatusTooManyRequests,
	CodeCalculationFailed: http.StatusInternalServerError,
	CodeTransientFailure:  http.StatusServiceUnavailable,
	CodeIntegrityError:    http.StatusInternalServerError,
}

var sentinelFor = map[Code]error{
	CodeInvalidInput:      ErrInvalidInput,
	CodePhaseGated:        ErrPhaseGated,
	CodeUnknownEngine:     ErrUnknownEngine,
	CodeUnknownWorkflow:   ErrUnknownWorkflow,
	CodeRateLimitExceeded: ErrRateLimitExceeded,
	CodeCalculationFailed: ErrCalculationFailed,
	CodeTransientFailure:  ErrTransientFailure,
	CodeIntegrityError:    ErrIntegrityError,
}

// ServiceError is the structured error every component in this service returns.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap lets errors.Is(err, apperrors.ErrPhaseGated) etc. work regardless of
// whether the ServiceError wraps an underlying cause.
func (e *ServiceError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinelFor[e.Code]
}

// WithDetails attaches structured context (e.g. {"field": "birth.latitude"}).
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New builds a ServiceError for the given code.
func New(code Code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus[code]}
}

// Wrap builds a ServiceError that preserves an underlying cause.
func Wrap(code Code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus[code], Err: err}
}

func InvalidInput(message string) *ServiceError { return New(CodeInvalidInput, message) }

func PhaseGated(engineID string, required, current int) *ServiceError {
	return New(CodePhaseGated, fmt.Sprintf("engine %q requires phase %d, principal is at phase %d", engineID, required, current)).
		WithDetails("engine_id", engineID).WithDetails("required_phase", required).WithDetails("current_phase", current)
}

func UnknownEngine(engineID string) *ServiceError {
	return New(CodeUnknownEngine, fmt.Sprintf("unknown engine %q", engineID)).WithDetails("engine_id", engineID)
}

func UnknownWorkflow(workflowID string) *ServiceError {
	return New(CodeUnknownWorkflow, fmt.Sprintf("unknown workflow %q", workflowID)).WithDetails("workflow_id", workflowID)
}

func RateLimitExceeded(limit int, resetEpoch int64) *ServiceError {
	return New(CodeRateLimitExceeded, "rate limit exceeded").
		WithDetails("limit", limit).WithDetails("reset", resetEpoch)
}

func CalculationFailed(engineID, message string) *ServiceError {
	return New(CodeCalculationFailed, message).WithDetails("engine_id", engineID)
}

func TransientFailure(message string, err error) *ServiceError {
	return Wrap(CodeTransientFailure, message, err)
}

func IntegrityError(message string) *ServiceError {
	return New(CodeIntegrityError, message)
}

// HTTPStatus returns the status code for any error, mapping unmapped / bare
// errors to 500 Internal Server Error.
func HTTPStatus(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.HTTPStatus
	}
	return http.StatusInternalServerError
}

// CodeOf returns the error's Code, or "" if err is not a *ServiceError.
func CodeOf(err error) Code {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
