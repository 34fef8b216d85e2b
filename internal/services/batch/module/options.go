package module

import (
	"time"

	"sentimeter/internal/platform/config"
)

// Options controls the batch analysis worker
type Options struct {
	Concurrency int
	MaxRetry    int
	TaskTimeout time.Duration
}

// FromConfig reads with WORKER_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WORKER_")
	return Options{
		Concurrency: c.MayInt("CONCURRENCY", 4),
		MaxRetry:    c.MayInt("MAX_RETRY", 3),
		TaskTimeout: c.MayDuration("TASK_TIMEOUT", 2*time.Minute),
	}
}
