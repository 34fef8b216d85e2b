package main

import (
	"context"

	"sentimeter/internal/core/scorer"
	"sentimeter/internal/migrate"
	"sentimeter/internal/modkit"
	"sentimeter/internal/modkit/module"
	"sentimeter/internal/platform/config"
	"sentimeter/internal/platform/logger"
	"sentimeter/internal/platform/queue"
	"sentimeter/internal/platform/store"

	batchdom "sentimeter/internal/services/batch/domain"
	batchmod "sentimeter/internal/services/batch/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	dburl := pgCfg.MustString("DBURL")
	if err := migrate.Up(context.Background(), dburl); err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dburl,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// the model loads once; a missing or corrupt artifact is fatal
	sc, err := scorer.Open(root.Prefix("SCORER_").MayString("MODEL_PATH", "models/sentiment_model.json"))
	if err != nil {
		l.Panic().Err(err).Msg("model load failed")
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	mod := batchmod.New(deps, sc)
	module.Register(mod.Name(), mod.Ports())
	handler := module.MustPortsOf[batchmod.Ports](mod).Handler

	// retry budget and task timeout are stamped at enqueue by the producer;
	// the consumer only sizes its worker pool
	opts := batchmod.FromConfig(root)
	srv, err := queue.NewServer(queue.Config{
		RedisURL:    rdsCfg.MustString("URL"),
		Concurrency: opts.Concurrency,
	}, *l)
	if err != nil {
		l.Panic().Err(err).Msg("queue server failed")
	}
	srv.Handle(batchdom.TaskTypeBatchAnalysis, handler.HandleDispatch)

	l.Info().
		Int("concurrency", opts.Concurrency).
		Dur("job_lease", opts.TaskTimeout).
		Msg("batch worker starting")

	// Run blocks until SIGTERM/SIGINT, then drains in-flight tasks
	if err := srv.Run(); err != nil {
		l.Fatal().Err(err).Msg("batch worker failed")
	}
}
