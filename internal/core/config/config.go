package config

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/janhicken/cloud-bigtable-client/internal/call"
	redisclient "github.com/janhicken/cloud-bigtable-client/internal/infra/redis"
	"github.com/janhicken/cloud-bigtable-client/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Admin    AdminConfig        `yaml:"admin"`
	Call     CallConfig         `yaml:"call"`
	Cache    CacheConfig        `yaml:"cache"`
	Logging  LoggingConfig      `yaml:"logging"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
}

// AdminConfig holds the admin endpoint settings.
type AdminConfig struct {
	Endpoint string `yaml:"endpoint"`
	Instance string `yaml:"instance"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// CacheConfig holds the read-result cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"` // e.g. "30s"
}

// CallConfig holds the retry parameters for one logical call. Duration
// fields are strings parsed with time.ParseDuration. RetryableCodes is
// the data-driven retryable allow-list, by status-code name.
type CallConfig struct {
	MaxAttempts    int      `yaml:"max_attempts"`
	InitialDelay   string   `yaml:"initial_delay"`
	MaxDelay       string   `yaml:"max_delay"`
	Multiplier     float64  `yaml:"multiplier"`
	JitterFraction float64  `yaml:"jitter_fraction"`
	AttemptTimeout string   `yaml:"attempt_timeout"`
	Timeout        string   `yaml:"timeout"`
	RetryableCodes []string `yaml:"retryable_codes"`
}

// BackoffConfig converts the call section into the engine's backoff
// configuration.
func (c CallConfig) BackoffConfig() (call.BackoffConfig, error) {
	cfg := call.DefaultBackoffConfig
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	if c.Multiplier > 0 {
		cfg.Multiplier = c.Multiplier
	}
	if c.JitterFraction > 0 {
		cfg.JitterFraction = c.JitterFraction
	}
	var err error
	if cfg.InitialDelay, err = parseDuration(c.InitialDelay, cfg.InitialDelay); err != nil {
		return cfg, fmt.Errorf("invalid initial_delay: %w", err)
	}
	if cfg.MaxDelay, err = parseDuration(c.MaxDelay, cfg.MaxDelay); err != nil {
		return cfg, fmt.Errorf("invalid max_delay: %w", err)
	}
	return cfg, nil
}

// AttemptTimeoutDuration parses the per-attempt timeout; zero means
// none.
func (c CallConfig) AttemptTimeoutDuration() (time.Duration, error) {
	d, err := parseDuration(c.AttemptTimeout, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid attempt_timeout: %w", err)
	}
	return d, nil
}

// TimeoutDuration parses the overall per-call timeout spanning all
// attempts; zero means none. Callers turn it into the absolute backoff
// deadline when an operation starts.
func (c CallConfig) TimeoutDuration() (time.Duration, error) {
	d, err := parseDuration(c.Timeout, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %w", err)
	}
	return d, nil
}

// RetryableSet parses the configured status-code names. An empty list
// yields the default retryable set.
func (c CallConfig) RetryableSet() ([]codes.Code, error) {
	if len(c.RetryableCodes) == 0 {
		return call.DefaultRetryableCodes, nil
	}
	out := make([]codes.Code, 0, len(c.RetryableCodes))
	for _, name := range c.RetryableCodes {
		code, err := ParseStatusCode(name)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

// TTLDuration parses the cache TTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	d, err := parseDuration(c.TTL, 30*time.Second)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl: %w", err)
	}
	return d, nil
}

// ParseStatusCode resolves a gRPC status-code name such as
// "UNAVAILABLE" to its code.
func ParseStatusCode(name string) (codes.Code, error) {
	var c codes.Code
	quoted := `"` + strings.ToUpper(strings.TrimSpace(name)) + `"`
	if err := c.UnmarshalJSON([]byte(quoted)); err != nil {
		return 0, fmt.Errorf("unknown status code %q: %w", name, err)
	}
	return c, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
