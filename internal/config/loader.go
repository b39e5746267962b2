package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if GENEMAP_CONFIG is set
//  3. env (prefix GENEMAP_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GENEMAP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: GENEMAP_API_KEY, GENEMAP_WORKER_COUNT, ...
	// Map env keys like GENEMAP_WORKER_COUNT -> worker_count (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GENEMAP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "genemap_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.MetricsAddr == "":
		return fmt.Errorf("%w: metrics_addr must not be empty", ErrInvalidConfig)
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.MaxResults <= 0:
		return fmt.Errorf("%w: max_results must be positive", ErrInvalidConfig)
	case c.RetryAttempts < 1:
		return fmt.Errorf("%w: retry_attempts must be at least 1", ErrInvalidConfig)
	case c.RetryDelayMS < 0:
		return fmt.Errorf("%w: retry_delay_ms must not be negative", ErrInvalidConfig)
	case c.RatePerSecond <= 0:
		return fmt.Errorf("%w: rate_per_second must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be at least 1", ErrInvalidConfig)
	case c.ZeroTolerance < 0:
		return fmt.Errorf("%w: zero_tolerance must not be negative", ErrInvalidConfig)
	case c.MaxZeroFraction < 0 || c.MaxZeroFraction > 1:
		return fmt.Errorf("%w: max_zero_fraction must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}
