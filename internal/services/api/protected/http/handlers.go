// Package http provides the authenticated probe endpoint
package http

import (
	stdhttp "net/http"

	"sentimeter/internal/modkit/httpkit"
	authdom "sentimeter/internal/services/api/auth/domain"
)

// ProbeUser is the identity subset echoed by the probe
type ProbeUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProbeResponse is the probe body
type ProbeResponse struct {
	Message string    `json:"message"`
	User    ProbeUser `json:"user"`
}

// Register mounts the probe on the given router
func Register(r httpkit.Router, auth authdom.ServicePort) {
	h := &handlers{auth: auth}
	httpkit.Get(r, "/test", h.test)
}

type handlers struct{ auth authdom.ServicePort }

// @Summary Authenticated round-trip probe
// @Tags Protected
// @Produce json
// @Success 200 {object} ProbeResponse "ok"
// @Router /protected/test [get]
func (h *handlers) test(r *stdhttp.Request) (any, error) {
	u, err := h.auth.UserByID(r.Context(), httpkit.MustUser(r))
	if err != nil {
		return nil, err
	}
	return ProbeResponse{
		Message: "This is a protected route",
		User:    ProbeUser{ID: u.ID, Username: u.Username, Email: u.Email},
	}, nil
}
