package reliability

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// suiteConfig is read from REDISZ_RELIABILITY_* environment variables.
// An empty Level skips the suite.
type suiteConfig struct {
	Level         string        `envconfig:"LEVEL"`
	Duration      time.Duration `envconfig:"DURATION" default:"10s"`
	MaxGoroutines int           `envconfig:"MAX_GOROUTINES" default:"50"`
	PoolSize      int           `envconfig:"POOL_SIZE" default:"10"`
}

func loadSuiteConfig() (suiteConfig, error) {
	var cfg suiteConfig
	err := envconfig.Process("REDISZ_RELIABILITY", &cfg)
	return cfg, err
}
