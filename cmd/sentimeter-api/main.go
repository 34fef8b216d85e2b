// @title         Sentiment Analysis API
// @version       1.0.0
// @description   JWT-authenticated sentiment scoring with async batch jobs

package main

import (
	"context"

	"sentimeter/internal/core/scorer"
	"sentimeter/internal/migrate"
	"sentimeter/internal/platform/config"
	"sentimeter/internal/platform/logger"
	phttp "sentimeter/internal/platform/net/http"
	"sentimeter/internal/platform/queue"
	"sentimeter/internal/platform/store"

	"sentimeter/internal/services/api"
	batchmod "sentimeter/internal/services/batch/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")  // pgCfg lives under SERVICE_PGSQL_*
	rdsCfg := root.Prefix("SERVICE_REDIS_") // rdsCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	dburl := pgCfg.MustString("DBURL")
	if err := migrate.Up(context.Background(), dburl); err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}

	// open the platform store (postgres + redis)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         dburl,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			RDS: store.RedisConfig{
				Enabled: true,
				URL:     rdsCfg.MustString("URL"),
			},
		},
		store.WithLogger(*logger.Get()),
	)
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

	// producer for batch dispatch messages; the retry budget and task
	// timeout are stamped per task here, not on the consumer
	wopts := batchmod.FromConfig(root)
	enq, err := queue.NewClient(queue.Config{
		RedisURL:    rdsCfg.MustString("URL"),
		MaxRetry:    wopts.MaxRetry,
		TaskTimeout: wopts.TaskTimeout,
	})
	if err != nil {
		l.Panic().Err(err).Msg("queue client failed")
	}
	defer func() {
		if err := enq.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close queue client")
		}
	}()

	// rate limiting belongs to the edge proxy; the value is logged so a
	// misconfigured deploy is visible in one place
	l.Info().
		Int("rate_limit_per_minute", apiCfg.MayInt("RATE_LIMIT_PER_MINUTE", 60)).
		Msg("edge rate limit (not enforced in-process)")

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Queue:          enq,
			Scorer:         sc,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
