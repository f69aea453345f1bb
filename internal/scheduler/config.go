package scheduler

import (
	"time"

	"github.com/smallbiznis/estate/internal/config"
)

// Config controls scheduler intervals and per-job limits.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration
	// EnabledJobs restricts which jobs run; empty means all of them.
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: time.Hour,
		JobTimeout:  30 * time.Second,
	}
}

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval: cfg.Scheduler.RunInterval,
		JobTimeout:  cfg.Scheduler.JobTimeout,
		EnabledJobs: cfg.Scheduler.EnabledJobs,
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
