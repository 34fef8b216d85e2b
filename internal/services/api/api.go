// Package api provides the HTTP API for the application
package api

import (
	"context"

	"sentimeter/internal/platform/config"
	"sentimeter/internal/platform/logger"
	"sentimeter/internal/platform/metrics"
	phttp "sentimeter/internal/platform/net/http"
	"sentimeter/internal/platform/queue"
	"sentimeter/internal/platform/store"

	"sentimeter/internal/modkit"
	"sentimeter/internal/modkit/httpkit"
	"sentimeter/internal/modkit/module"
	"sentimeter/internal/modkit/swaggerkit"

	authmod "sentimeter/internal/services/api/auth/module"
	metamod "sentimeter/internal/services/api/meta/module"
	protectedmod "sentimeter/internal/services/api/protected/module"
	sentimentdom "sentimeter/internal/services/api/sentiment/domain"
	sentimentmod "sentimeter/internal/services/api/sentiment/module"
	usersmod "sentimeter/internal/services/api/users/module"
	batchmod "sentimeter/internal/services/batch/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// Queue is the dispatch producer for batch submissions
	Queue queue.Enqueuer

	// Scorer is the loaded classification model
	Scorer sentimentdom.Scorer

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		RDS:   opt.Store.RDS,
		Queue: opt.Queue,
	}

	// the batch module owns the job store and queue; the API side only
	// submits and polls, so no scorer is wired here
	batch := batchmod.New(deps, nil)
	batchPorts := module.MustPortsOf[batchmod.Ports](batch)

	// auth owns identity and tokens; its service port backs the bearer
	// middleware and the users/protected modules
	auth := authmod.New(deps)
	authPort := module.MustPortsOf[authmod.Ports](auth).Auth

	bearer := httpkit.Auth(httpkit.NewPortFunc(func(ctx context.Context, token string) (string, error) {
		u, err := authPort.Authorize(ctx, token)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}))

	sentiment := sentimentmod.New(deps, modkit.WithPorts(sentimentmod.Ports{
		Submit: batchPorts.Submitter,
		Jobs:   batchPorts.Jobs,
		Scorer: opt.Scorer,
	}), modkit.WithMiddlewares(bearer))

	users := usersmod.New(deps, modkit.WithPorts(usersmod.Ports{Auth: authPort}),
		modkit.WithMiddlewares(bearer))
	protected := protectedmod.New(deps, modkit.WithPorts(protectedmod.Ports{Auth: authPort}),
		modkit.WithMiddlewares(bearer))

	// meta mounts at the router root so /health and / stay unversioned
	meta := metamod.New(deps)
	module.Register(meta.Name(), meta.Ports())
	meta.MountRoutes(r)

	mods := []module.Module{auth, batch, sentiment, users, protected}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	r.Handle("/metrics", metrics.Handler())
}
