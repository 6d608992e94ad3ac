package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Store     StoreConfig
	Mock      MockConfig
	Playout   PlayoutConfig
	Subtitles SubtitlesConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StoreConfig selects the backend for my-list, progress and preferences
type StoreConfig struct {
	Driver    string // memory, redis
	KeyPrefix string
}

// MockConfig controls the simulated backend
type MockConfig struct {
	Latency     time.Duration
	CatalogSize int
	Seed        int64
}

// PlayoutConfig holds the URL templates used by the playout resolver
type PlayoutConfig struct {
	CDNBaseURL             string
	DRMBaseURL             string
	FairplayCertificateURL string
	AdServerURL            string
}

// SubtitlesConfig holds subtitle loading configuration
type SubtitlesConfig struct {
	FallbackBaseURL string
	FetchTimeout    time.Duration
	MaxBytes        int64
	AllowedHosts    []string // empty allows any host
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	RPS     int
	Burst   int
}

// Load reads configuration from file and environment variables.
// An empty path loads defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults alone
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks config values are within acceptable bounds
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported store driver %q (valid: memory, redis)", c.Store.Driver)
	}

	if c.Mock.CatalogSize <= 0 {
		return errors.New("mock.catalogSize must be positive")
	}
	if c.Mock.Latency < 0 {
		return errors.New("mock.latency cannot be negative")
	}
	if c.Subtitles.FetchTimeout <= 0 {
		return errors.New("subtitles.fetchTimeout must be positive")
	}
	if c.Playout.CDNBaseURL == "" || c.Playout.DRMBaseURL == "" {
		return errors.New("playout base URLs cannot be empty")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Store defaults
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.keyPrefix", "streamtv")

	// Mock backend defaults
	v.SetDefault("mock.latency", "300ms")
	v.SetDefault("mock.catalogSize", 40)
	v.SetDefault("mock.seed", 42)

	// Playout defaults
	v.SetDefault("playout.cdnBaseURL", "https://cdn.streamtv.example.com")
	v.SetDefault("playout.drmBaseURL", "https://drm.streamtv.example.com")
	v.SetDefault("playout.fairplayCertificateURL", "https://drm.streamtv.example.com/fairplay/certificate.der")
	v.SetDefault("playout.adServerURL", "https://ads.streamtv.example.com/vast")

	// Subtitle defaults
	v.SetDefault("subtitles.fallbackBaseURL", "https://subtitles.streamtv.example.com")
	v.SetDefault("subtitles.fetchTimeout", "10s")
	v.SetDefault("subtitles.maxBytes", 5*1024*1024) // 5MB
	v.SetDefault("subtitles.allowedHosts", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "streamtv-api")
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.rps", 20)
	v.SetDefault("rateLimit.burst", 40)
}
