// Package http provides http transport for users
package http

import (
	stdhttp "net/http"

	"sentimeter/internal/modkit/httpkit"
	authdom "sentimeter/internal/services/api/auth/domain"
)

// Register mounts user endpoints on the given router
func Register(r httpkit.Router, auth authdom.ServicePort) {
	h := &handlers{auth: auth}
	httpkit.Get(r, "/me", h.me)
}

type handlers struct{ auth authdom.ServicePort }

// @Summary Current user profile
// @Tags Users
// @Produce json
// @Success 200 {object} authdom.User "ok"
// @Router /users/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	return h.auth.UserByID(r.Context(), httpkit.MustUser(r))
}
