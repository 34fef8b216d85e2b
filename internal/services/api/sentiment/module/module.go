// Package module wires sentiment into the API using modkit
package module

import (
	"net/http"

	modkit "sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	str "sentimeter/internal/platform/strings"

	senthttp "sentimeter/internal/services/api/sentiment/http"
	sentrepo "sentimeter/internal/services/api/sentiment/repo"
	sentsvc "sentimeter/internal/services/api/sentiment/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     Ports
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc sentsvc.Service
}

// New constructs the sentiment module. The batch ports and the scorer
// must be injected via modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sentiment"), modkit.WithPrefix("/sentiment")}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Submit == nil || ports.Jobs == nil || ports.Scorer == nil {
		panic("sentiment module requires batch ports and a scorer via WithPorts")
	}
	svc := sentsvc.New(deps.PG, sentrepo.NewPG(), ports.Scorer)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     ports,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		senthttp.Register(r, m.svc, ports.Submit, ports.Jobs)
		if external != nil {
			external(r)
		}
	}
	return m
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

// Ports exposes nothing; sentiment only consumes ports
func (m *Module) Ports() any { return nil }
