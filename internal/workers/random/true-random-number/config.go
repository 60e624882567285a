package truerandomnumber

import (
	"fmt"
	"math"
	"net/url"
	"time"

	"random-workers/internal/common/config"
)

type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxJobsActive  int           `mapstructure:"max_jobs_active"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	ProviderURL    string        `mapstructure:"provider_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Locale         string        `mapstructure:"locale"`
	DefaultMin     float64       `mapstructure:"default_min"`
	DefaultMax     float64       `mapstructure:"default_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		ProviderURL:    config.DefaultRandomOrgURL,
		UserAgent:      config.DefaultUserAgent,
		RequestTimeout: 10 * time.Second,
		Locale:         config.DefaultLocale,
		DefaultMin:     0,
		DefaultMax:     60,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	u, err := url.Parse(c.ProviderURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("provider_url must be an absolute URL")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	if !isFinite(c.DefaultMin) || !isFinite(c.DefaultMax) {
		return fmt.Errorf("default_min and default_max must be finite")
	}
	if c.DefaultMin > c.DefaultMax {
		return fmt.Errorf("default_min must be <= default_max")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
