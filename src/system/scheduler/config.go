package scheduler

import "time"

// Config carries the scheduler's tunables.
type Config struct {
	MaxConcurrentJobs int
	CycleInterval     time.Duration
	JobTimeout        time.Duration
	MaxQueueSize      int
}

// DefaultConfig returns a reasonable set of default tunables.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 4,
		CycleInterval:     time.Second,
		JobTimeout:        30 * time.Second,
		MaxQueueSize:      1000,
	}
}
