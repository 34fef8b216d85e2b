// Package module wires the batch job service and exposes its ports
package module

import (
	"sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	dom "sentimeter/internal/services/batch/domain"
	"sentimeter/internal/services/batch/repo"
	"sentimeter/internal/services/batch/service"
)

// Module defines the batch job module. It carries no routes of its own;
// the sentiment module drives its submit and query ports over HTTP and
// the worker process drives HandleDispatch
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the batch module. scorer may be nil on the API process,
// which only submits and queries
func New(deps modkit.Deps, scorer dom.Scorer) *Module {
	// job leases follow the task timeout: a processing row older than the
	// execution bound belongs to a dead worker
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), deps.Queue, scorer, opts.TaskTimeout)

	m := &Module{deps: deps}
	m.ports = Ports{
		Submitter: svc,
		Jobs:      svc,
		Handler:   svc,
	}
	return m
}

// Ports returns the module ports (Submitter, Jobs, Handler)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "batch" }

// Prefix returns the module config prefix (none for portless module)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
