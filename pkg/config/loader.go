package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrEmptyFile    = errors.New("configuration file is empty")
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "MOCKINGJ_"

// Load builds the configuration from defaults, an optional YAML file, and
// MOCKINGJ_* environment overrides, in that order of precedence. An empty
// path skips file loading. The returned config is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays MOCKINGJ_* environment variables onto cfg. Variables
// that fail to parse are ignored rather than treated as errors; the
// validator catches any resulting out-of-range values.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setBool(&cfg.Server.Debug, "SERVER_DEBUG")
	setBool(&cfg.Server.TLS.Enabled, "TLS_ENABLED")
	setString(&cfg.Server.TLS.CertFile, "TLS_CERT_FILE")
	setString(&cfg.Server.TLS.KeyFile, "TLS_KEY_FILE")

	setInt64(&cfg.Mock.Seed, "MOCK_SEED")
	setBool(&cfg.Mock.ConsistentResponses, "MOCK_CONSISTENT_RESPONSES")
	setBool(&cfg.Mock.CacheEnabled, "MOCK_CACHE_ENABLED")
	setInt(&cfg.Mock.CacheTTL, "MOCK_CACHE_TTL")
	setBool(&cfg.Mock.ResponseDelay.Enabled, "MOCK_DELAY_ENABLED")
	setInt(&cfg.Mock.ResponseDelay.MinMS, "MOCK_DELAY_MIN_MS")
	setInt(&cfg.Mock.ResponseDelay.MaxMS, "MOCK_DELAY_MAX_MS")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// ValidationError aggregates every configuration problem found so the
// operator can fix them in one pass.
type ValidationError struct {
	Problems []string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the configuration and returns a *ValidationError listing
// every problem, or nil when the configuration is usable.
func (c *Config) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.Host == "" {
		addf("server.host must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		addf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			addf("server.tls.certFile is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			addf("server.tls.keyFile is required when TLS is enabled")
		}
	}

	if c.Mock.CacheEnabled && (c.Mock.CacheTTL < MinCacheTTL || c.Mock.CacheTTL > MaxCacheTTL) {
		addf("mock.cacheTtl must be in %d-%d seconds, got %d", MinCacheTTL, MaxCacheTTL, c.Mock.CacheTTL)
	}
	if d := c.Mock.ResponseDelay; d.Enabled {
		if d.MinMS < 0 {
			addf("mock.responseDelay.minMs must not be negative, got %d", d.MinMS)
		}
		if d.MaxMS < d.MinMS {
			addf("mock.responseDelay.maxMs must be >= minMs, got %d < %d", d.MaxMS, d.MinMS)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		addf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		addf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
