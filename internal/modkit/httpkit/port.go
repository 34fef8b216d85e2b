// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"context"
	"net/http"
	"strings"

	perrs "sentimeter/internal/platform/errors"
)

// TokenFunc verifies a bearer token and returns the authenticated user id
type TokenFunc func(ctx context.Context, token string) (userID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the user id from an Authorization Bearer token.
// A missing or malformed header and a rejected token map to distinct 401 details
func (p *Port) Parse(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	// normalize whitespace around the whole header
	s := strings.TrimSpace(authz)
	if s == "" {
		return "", perrs.Unauthorizedf("Not authenticated")
	}
	ls := strings.ToLower(s)
	const prefix = "bearer"
	if !strings.HasPrefix(ls, prefix) {
		return "", perrs.Unauthorizedf("Not authenticated")
	}
	// slice after "Bearer" (no trailing space required), then trim any spaces before token
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("Not authenticated")
	}

	if p.parse == nil {
		return "", perrs.Unauthorizedf("Could not validate credentials")
	}

	uid, err := p.parse(r.Context(), raw)
	if err != nil {
		return "", perrs.Unauthorizedf("Could not validate credentials")
	}
	return uid, nil
}
