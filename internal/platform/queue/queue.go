// Package queue wraps asynq behind small seams for producers and consumers.
// Redis carries only task ids; job state of record lives in postgres
package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"sentimeter/internal/platform/logger"
)

// Config configures broker connectivity and worker behavior
type Config struct {
	// RedisURL is a redis:// connection string shared by producers and consumers
	RedisURL string

	// Concurrency is the number of concurrent workers, consumer side only
	Concurrency int

	// MaxRetry is the per-task retry ceiling before a task is archived.
	// asynq applies it at enqueue time, so it is producer side only
	MaxRetry int

	// TaskTimeout bounds a single task execution; producer side only,
	// stamped on each task at enqueue
	TaskTimeout time.Duration
}

// Enqueuer is the producer seam handed to API modules
type Enqueuer interface {
	// Enqueue submits a task by type name and opaque payload
	Enqueue(ctx context.Context, typename string, payload []byte) error
	Close() error
}

// Handler processes one task payload; returning an error requeues per retry policy
type Handler func(ctx context.Context, payload []byte) error

// client adapts asynq.Client to the Enqueuer seam
type client struct {
	inner    *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewClient builds a producer from config
func NewClient(cfg Config) (Enqueuer, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return &client{
		inner:    asynq.NewClient(opt),
		maxRetry: cfg.MaxRetry,
		timeout:  cfg.TaskTimeout,
	}, nil
}

func (c *client) Enqueue(ctx context.Context, typename string, payload []byte) error {
	opts := enqueueOptions(c.maxRetry, c.timeout)
	_, err := c.inner.EnqueueContext(ctx, asynq.NewTask(typename, payload), opts...)
	return err
}

// enqueueOptions stamps the retry budget and execution bound on each task;
// zero values fall through to asynq defaults
func enqueueOptions(maxRetry int, timeout time.Duration) []asynq.Option {
	opts := []asynq.Option{}
	if maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(maxRetry))
	}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return opts
}

func (c *client) Close() error { return c.inner.Close() }

// Server is the consumer side; register handlers by type name then Run
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer builds a consumer from config
func NewServer(cfg Config, log logger.Logger) (*Server, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	conc := cfg.Concurrency
	if conc <= 0 {
		conc = 4
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: conc,
		Logger:      zerologAdapter{log: log},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task_type", task.Type()).Msg("task failed")
		}),
	})
	return &Server{srv: srv, mux: asynq.NewServeMux()}, nil
}

// Handle registers a handler for a task type
func (s *Server) Handle(typename string, h Handler) {
	s.mux.HandleFunc(typename, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, t.Payload())
	})
}

// Run blocks processing tasks until Shutdown
func (s *Server) Run() error { return s.srv.Run(s.mux) }

// Shutdown drains in-flight tasks and stops the server
func (s *Server) Shutdown() { s.srv.Shutdown() }

// RetryCount reports the current retry attempt for the task on ctx
func RetryCount(ctx context.Context) int {
	n, _ := asynq.GetRetryCount(ctx)
	return n
}

// MaxRetry reports the retry ceiling for the task on ctx
func MaxRetry(ctx context.Context) int {
	n, _ := asynq.GetMaxRetry(ctx)
	return n
}

// LastAttempt reports whether the task on ctx has exhausted its retries
func LastAttempt(ctx context.Context) bool {
	return RetryCount(ctx) >= MaxRetry(ctx)
}

// zerologAdapter satisfies asynq.Logger over our logger
type zerologAdapter struct{ log logger.Logger }

func (z zerologAdapter) Debug(args ...any) { z.log.Debug().Msgf("%v", args) }
func (z zerologAdapter) Info(args ...any)  { z.log.Info().Msgf("%v", args) }
func (z zerologAdapter) Warn(args ...any)  { z.log.Warn().Msgf("%v", args) }
func (z zerologAdapter) Error(args ...any) { z.log.Error().Msgf("%v", args) }
func (z zerologAdapter) Fatal(args ...any) { z.log.Fatal().Msgf("%v", args) }
