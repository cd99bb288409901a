// Package config provides the configuration types and loader for the
// mock server. The loaded Config value is threaded through constructors
// explicitly; nothing in this package is a global.
package config

import "time"

// Bounds accepted for the mock cache TTL, in seconds.
const (
	MinCacheTTL = 30
	MaxCacheTTL = 86400
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Mock    MockConfig    `yaml:"mock"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `yaml:"host"`
	// Port is the listen port (1-65535).
	Port int `yaml:"port"`
	// Debug enables verbose request logging.
	Debug bool `yaml:"debug"`
	// TLS configures HTTPS serving.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig defines TLS settings for the server. CertFile and KeyFile
// are required when Enabled is true.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"certFile,omitempty"`
	KeyFile  string `yaml:"keyFile,omitempty"`
}

// MockConfig controls the generation engine.
type MockConfig struct {
	// Seed drives all generation determinism.
	Seed int64 `yaml:"seed"`
	// ConsistentResponses makes structurally identical schemas return
	// identical values across requests. When false the cache is bypassed
	// and per-call variation is allowed.
	ConsistentResponses bool `yaml:"consistentResponses"`
	// CacheEnabled turns the generated-value cache on.
	CacheEnabled bool `yaml:"cacheEnabled"`
	// CacheTTL is the cache entry lifetime in seconds (30-86400).
	CacheTTL int `yaml:"cacheTtl"`
	// ResponseDelay simulates upstream latency.
	ResponseDelay ResponseDelayConfig `yaml:"responseDelay"`
}

// CacheTTLDuration returns the TTL as a time.Duration.
func (m MockConfig) CacheTTLDuration() time.Duration {
	return time.Duration(m.CacheTTL) * time.Second
}

// ResponseDelayConfig simulates response latency within [MinMS, MaxMS].
type ResponseDelayConfig struct {
	Enabled bool `yaml:"enabled"`
	MinMS   int  `yaml:"minMs"`
	MaxMS   int  `yaml:"maxMs"`
}

// LoggingConfig selects log verbosity and output encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Mock: MockConfig{
			Seed:                12345,
			ConsistentResponses: true,
			CacheEnabled:        true,
			CacheTTL:            300,
			ResponseDelay: ResponseDelayConfig{
				Enabled: false,
				MinMS:   0,
				MaxMS:   100,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
