// Package http provides http transport for auth
package http

import (
	stdhttp "net/http"

	perr "sentimeter/internal/platform/errors"

	"sentimeter/internal/modkit/httpkit"
	"sentimeter/internal/services/api/auth/domain"
	svc "sentimeter/internal/services/api/auth/service"
)

// Register mounts auth endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RegisterInput](r, "/register", h.register)
	r.Post("/login", httpkit.Handle(h.login))
}

type handlers struct{ svc svc.Service }

// @Summary Register a new user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body domain.RegisterInput true "New user"
// @Success 201 {object} domain.User "created"
// @Failure 400 {object} errors.Wire "username or email already registered"
// @Router /auth/register [post]
func (h *handlers) register(r *stdhttp.Request, in domain.RegisterInput) (any, error) {
	u, err := h.svc.Register(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(u), nil
}

// @Summary Login and obtain an access token
// @Tags Authentication
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} domain.Token "token"
// @Failure 401 {object} errors.Wire "incorrect username or password"
// @Router /auth/login [post]
func (h *handlers) login(r *stdhttp.Request) httpkit.Response {
	// OAuth2 password flow posts a urlencoded form, not JSON
	if err := r.ParseForm(); err != nil {
		return httpkit.Error(perr.Newf(perr.ErrorCodeValidation, "malformed form body"))
	}
	in := domain.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if in.Username == "" || in.Password == "" {
		return httpkit.Error(perr.Newf(perr.ErrorCodeValidation, "username and password are required"))
	}
	tok, err := h.svc.Login(r.Context(), in)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(tok)
}
