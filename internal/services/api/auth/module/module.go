// Package module wires auth into the API using modkit
package module

import (
	"net/http"
	"time"

	modkit "sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	"sentimeter/internal/platform/config"
	str "sentimeter/internal/platform/strings"

	authhttp "sentimeter/internal/services/api/auth/http"
	authrepo "sentimeter/internal/services/api/auth/repo"
	authsvc "sentimeter/internal/services/api/auth/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc authsvc.Service
}

// New constructs an auth module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("auth"), modkit.WithPrefix("/auth")}, opts...)...)

	sc := SignerFromConfig(deps.Cfg)
	signer, err := authsvc.NewSigner(sc.Secret, sc.Algorithm, sc.TTL)
	if err != nil {
		panic("auth module: " + err.Error())
	}
	svc := authsvc.New(deps.PG, authrepo.NewPG(), signer)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Auth: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		authhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// SignerConfig holds the token signing settings
type SignerConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// SignerFromConfig reads AUTH_* values from process config/env
func SignerFromConfig(cfg config.Conf) SignerConfig {
	ac := cfg.Prefix("AUTH_")
	return SignerConfig{
		Secret:    ac.MustString("SECRET_KEY"),
		Algorithm: ac.MayString("ALGORITHM", "HS256"),
		TTL:       time.Duration(ac.MayInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports exposes the auth service port for cross module wiring
func (m *Module) Ports() any { return m.ports }
