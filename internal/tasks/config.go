package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Queue settings for dictionary enrichment. A lookup is one HTTP round trip
// behind a rate limiter, so single tasks get a short timeout and quick
// retries; the sweep walks every pending annotation and gets a long one.
const (
	lookupMaxAttempts = 3
	lookupBackoff     = 30 * time.Second
	lookupTimeout     = time.Minute

	sweepTimeout = 30 * time.Minute

	// Finished tasks are kept a day; payloads only for failures.
	taskRetention = 24 * time.Hour
)

func retention() *backlite.Retention {
	return &backlite.Retention{
		Duration:   taskRetention,
		OnlyFailed: false,
		Data:       &backlite.RetainData{OnlyFailed: true},
	}
}

// Config sizes the enrichment worker pool.
type Config struct {
	// Workers run lookups concurrently; the dictionary client's rate limiter
	// is shared, so more than a few only adds waiting goroutines.
	Workers int

	// ReleaseAfter hands a claimed task back to the queue when its worker
	// vanished. It must exceed the sweep timeout or a slow sweep runs twice.
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task rows are deleted.
	CleanupInterval time.Duration
}

// DefaultConfig returns the settings used when TASK_WORKERS is unset.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    sweepTimeout + 5*time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills zero fields from DefaultConfig and keeps ReleaseAfter
// above the sweep timeout.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= sweepTimeout {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}
