// Package httpapi implements the HandlerShim (spec.md §4.9/§6): a
// gorilla/mux router, a middleware chain, and the seven HTTP routes the
// orchestration core expects, wired on top of internal/workflow and
// internal/engine.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

type principalContextKey struct{}

// claims is the bearer token's expected shape: sub (principal id),
// tier_limit, phase.
type claims struct {
	TierLimit int `json:"tier_limit"`
	Phase     int `json:"phase"`
	jwt.RegisteredClaims
}

// PrincipalDeriver parses a bearer JWT into a Principal. A missing or
// invalid token is not an authentication error: it yields an
// unauthenticated Principal with the configured anonymous tier limit and
// phase 0, so phase-gated engines still 403 rather than 401 (auth token
// *validity* is ambient; *authorization* stays in the engine registry).
type PrincipalDeriver struct {
	sharedSecret       string
	anonymousTierLimit int
}

// NewPrincipalDeriver builds a PrincipalDeriver. anonymousTierLimit backs
// requests with no valid bearer token.
func NewPrincipalDeriver(sharedSecret string, anonymousTierLimit int) *PrincipalDeriver {
	return &PrincipalDeriver{sharedSecret: sharedSecret, anonymousTierLimit: anonymousTierLimit}
}

// Derive extracts a Principal from r's Authorization header.
func (d *PrincipalDeriver) Derive(r *http.Request) engine.Principal {
	anon := engine.Principal{ID: "anonymous", TierLimit: d.anonymousTierLimit, CurrentPhase: 0}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return anon
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(d.sharedSecret), nil
	})
	if err != nil || !token.Valid {
		return anon
	}
	c, ok := token.Claims.(*claims)
	if !ok || c.Subject == "" {
		return anon
	}

	return engine.Principal{
		ID:           c.Subject,
		TierLimit:    c.TierLimit,
		CurrentPhase: c.Phase,
		APIKeyID:     c.ID,
	}
}

// WithPrincipal stores principal on ctx for downstream handlers.
func WithPrincipal(ctx context.Context, p engine.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom reads the Principal stored on ctx by the auth middleware.
func PrincipalFrom(ctx context.Context) engine.Principal {
	p, _ := ctx.Value(principalContextKey{}).(engine.Principal)
	return p
}
