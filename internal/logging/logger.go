// Package logging provides structured logging with request-id propagation,
// wrapping logrus the way the rest of the service stack does.
package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContextKey is the type used for context values carried by this package.
type ContextKey string

const (
	// RequestIDKey is the context key for the per-request id.
	RequestIDKey ContextKey = "request_id"
	// PrincipalKey is the context key for the authenticated principal id.
	PrincipalKey ContextKey = "principal_id"
)

// Logger wraps logrus.Logger with service-level conveniences.
type Logger struct {
	*logrus.Logger
	service string
}

// New creates a Logger for the given service name, level and format ("json" or "text").
func New(service, level, format string) *Logger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}
	l.SetOutput(os.Stdout)

	return &Logger{Logger: l, service: service}
}

// NewFromEnv builds a Logger using LOG_LEVEL/LOG_FORMAT, defaulting to info/json.
func NewFromEnv(service string) *Logger {
	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	format := strings.TrimSpace(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = "json"
	}
	return New(service, level, format)
}

// WithRequest returns an entry annotated with the request id and principal id
// carried in ctx, if any.
func (l *Logger) WithRequest(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{"service": l.service}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		fields["request_id"] = id
	}
	if pid, ok := ctx.Value(PrincipalKey).(string); ok && pid != "" {
		fields["principal_id"] = pid
	}
	return l.Logger.WithFields(fields)
}

// WithRequestID returns a context carrying a new request id, generating one
// if none is provided.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithPrincipal returns a context carrying the given principal id.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, PrincipalKey, principalID)
}

// RequestIDFrom extracts the request id from ctx, or "" if absent.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
