// Package module wires users into the API using modkit
package module

import (
	"net/http"

	modkit "sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	str "sentimeter/internal/platform/strings"

	authdom "sentimeter/internal/services/api/auth/domain"
	usershttp "sentimeter/internal/services/api/users/http"
)

// Ports holds the cross module dependencies injected into users
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

// New constructs the users module. The auth port must be injected
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("users"), modkit.WithPrefix("/users")}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Auth == nil {
		panic("users module requires the auth port via WithPorts")
	}

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	external := b.Register
	m.register = func(r httpkit.Router) {
		usershttp.Register(r, ports.Auth)
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

// Ports exposes nothing; users only consumes ports
func (m *Module) Ports() any { return nil }
