package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"Natalis/internal/services/natal"
)

type Config struct {
	Environment string `yaml:"environment" env:"NATALIS_ENV"`
	Server      struct {
		Port            int           `yaml:"port" env:"NATALIS_PORT"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigins  []string      `yaml:"allowed_origins" env:"NATALIS_ALLOWED_ORIGINS"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Ephemeris struct {
		URL        string        `yaml:"url" env:"EPHEMERIS_URL"`
		APIKey     string        `yaml:"api_key" env:"EPHEMERIS_API_KEY"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
	} `yaml:"ephemeris"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled" env:"KAFKA_ENABLED"`
		Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS"`
		RequestTopic string   `yaml:"request_topic" env:"KAFKA_REQUEST_TOPIC"`
		ReportTopic  string   `yaml:"report_topic" env:"KAFKA_REPORT_TOPIC"`
		LogTopic     string   `yaml:"log_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Tracing struct {
		Enabled     bool    `yaml:"enabled" env:"TRACING_ENABLED"`
		Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure    bool    `yaml:"insecure"`
		SampleRatio float64 `yaml:"sample_ratio"`
		ServiceName string  `yaml:"service_name"`
	} `yaml:"tracing"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	Analysis struct {
		FixedStarOrb    float64                 `yaml:"fixed_star_orb"`
		StelliumOrb     float64                 `yaml:"stellium_orb"`
		StelliumMinSize int                     `yaml:"stellium_min_size"`
		Profile         natal.ProfileThresholds `yaml:"profile"`
	} `yaml:"analysis"`
}

// Default returns a configuration that runs locally without any backing
// services.
func Default() *Config {
	var c Config
	c.Environment = "development"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.AllowedOrigins = []string{"*"}
	c.Logger.Level = "info"
	c.Logger.Format = "json"
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Ephemeris.Timeout = 10 * time.Second
	c.Ephemeris.MaxRetries = 2
	c.Cache.TTL = 24 * time.Hour
	c.Kafka.RequestTopic = "natalis.chart.requests"
	c.Kafka.ReportTopic = "natalis.chart.reports"
	c.Kafka.LogTopic = "natalis.logs"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Consumer.GroupID = "natalis"
	c.Kafka.Consumer.Workers = 4
	c.Kafka.Consumer.BufferSize = 100
	c.Kafka.Consumer.RetryMax = 3
	c.Kafka.Consumer.BackoffMin = 100 * time.Millisecond
	c.Kafka.Consumer.BackoffMax = 5 * time.Second
	c.Tracing.SampleRatio = 1
	c.Tracing.ServiceName = "natalis"
	c.RateLimit.RPS = 20
	c.RateLimit.Burst = 40
	c.Analysis.FixedStarOrb = natal.DefaultFixedStarOrb
	c.Analysis.StelliumOrb = natal.DefaultPatternOptions().StelliumOrb
	c.Analysis.StelliumMinSize = natal.DefaultPatternOptions().StelliumMinSize
	c.Analysis.Profile = natal.DefaultProfileThresholds()
	return &c
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// An empty path skips the file and starts from the defaults.
func LoadWithEnv(path string) (*Config, error) {
	c := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.RequestTopic == "" || c.Kafka.ReportTopic == "" {
			return fmt.Errorf("kafka.request_topic and kafka.report_topic are required")
		}
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive")
	}
	if orb := c.Analysis.FixedStarOrb; orb <= 0 || orb > natal.MaxFixedStarOrb {
		return fmt.Errorf("analysis.fixed_star_orb must be in (0, %.0f], got %.2f", natal.MaxFixedStarOrb, orb)
	}
	if c.Analysis.StelliumMinSize < 2 {
		return fmt.Errorf("analysis.stellium_min_size must be at least 2")
	}
	return nil
}

// PatternOptions returns the stellium settings for the engine.
func (c *Config) PatternOptions() natal.PatternOptions {
	return natal.PatternOptions{
		StelliumOrb:     c.Analysis.StelliumOrb,
		StelliumMinSize: c.Analysis.StelliumMinSize,
	}
}
