// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"fmt"
	"net/http"
	"time"

	"sentimeter/internal/core/version"
	"sentimeter/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	RDS         any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes at the router root
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/", h.root)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

//
// Swagger DTOs and route docs
//

// HealthResponse reports the API and its dependencies.
// Always served with HTTP 200; degradation lives in the body
// swagger:model
type HealthResponse struct {
	Status   string `json:"status"   example:"healthy"` // healthy unhealthy
	API      string `json:"api"      example:"ok"`
	Database string `json:"database" example:"ok"`
	Redis    string `json:"redis"    example:"ok"`
}

// RootResponse describes the service entry point
type RootResponse struct {
	Message string `json:"message" example:"Sentiment Analysis API"`
	Version string `json:"version" example:"1.0.0"`
	Docs    string `json:"docs"    example:"/api/docs"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"sentimeter-api"`
	Started string `json:"started" example:"2026-01-02T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Health of the API and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "always 200, see body for degradation"
// @Router /health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	out := HealthResponse{Status: "healthy", API: "ok", Database: "ok", Redis: "ok"}

	probe := func(c any) string {
		if c == nil {
			return "error: not configured"
		}
		p, ok := c.(Pinger)
		if !ok {
			return "error: not probeable"
		}
		ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return "ok"
	}

	if out.Database = probe(h.deps.PG); out.Database != "ok" {
		out.Status = "unhealthy"
	}
	if out.Redis = probe(h.deps.RDS); out.Redis != "ok" {
		out.Status = "unhealthy"
	}
	return out, nil
}

// @Summary Root endpoint
// @Tags Health
// @Produce json
// @Success 200 {object} RootResponse "ok"
// @Router / [get]
func (h *handlers) root(_ *http.Request) (any, error) {
	return RootResponse{
		Message: "Sentiment Analysis API",
		Version: version.Info().Version,
		Docs:    "/api/docs",
	}, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
