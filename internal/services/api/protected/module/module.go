// Package module wires the protected probe into the API using modkit
package module

import (
	"net/http"

	modkit "sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	str "sentimeter/internal/platform/strings"

	authdom "sentimeter/internal/services/api/auth/domain"
	prothttp "sentimeter/internal/services/api/protected/http"
)

// Ports holds the cross module dependencies injected into protected
type Ports struct {
	Auth authdom.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)
}

// New constructs the protected module. The auth port must be injected
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("protected"), modkit.WithPrefix("/protected")}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Auth == nil {
		panic("protected module requires the auth port via WithPorts")
	}

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		prothttp.Register(r, ports.Auth)
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
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports exposes nothing; protected only consumes ports
func (m *Module) Ports() any { return nil }
