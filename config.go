package shelfcache

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment surface. It covers the knobs a deployment tunes
// without touching code; everything else is Options.
//
//	CACHE_TTL_SECONDS      snapshot freshness bound, positive integer seconds
//	BULK_PROCESS_INTERVAL  processor tick rate, Go duration ("2m", "90s")
//	BULK_QUEUE_RETENTION   safety-net expiry on orphaned queues, Go duration
type Config struct {
	CacheTTLSeconds int           `env:"CACHE_TTL_SECONDS" envDefault:"60"`
	ProcessInterval time.Duration `env:"BULK_PROCESS_INTERVAL" envDefault:"2m"`
	QueueRetention  time.Duration `env:"BULK_QUEUE_RETENTION" envDefault:"168h"`
}

// ConfigFromEnv parses and validates the environment.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("shelfcache: parse env: %w", err)
	}
	if c.CacheTTLSeconds <= 0 {
		return Config{}, fmt.Errorf("shelfcache: CACHE_TTL_SECONDS must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.ProcessInterval <= 0 {
		return Config{}, fmt.Errorf("shelfcache: BULK_PROCESS_INTERVAL must be positive, got %s", c.ProcessInterval)
	}
	if c.QueueRetention <= 0 {
		return Config{}, fmt.Errorf("shelfcache: BULK_QUEUE_RETENTION must be positive, got %s", c.QueueRetention)
	}
	return c, nil
}

// CacheTTL returns the TTL as a duration for Options.CacheTTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
