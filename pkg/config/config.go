package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps"`
		RateLimitBurst  float64       `yaml:"rate_limit_burst"`
	} `yaml:"server"`
	Engine struct {
		Window  int `yaml:"window"`
		MaxLag  int `yaml:"max_lag"`
		Workers int `yaml:"workers"`
	} `yaml:"engine"`
	Instruments []string `yaml:"instruments"`
	Source      struct {
		Type    string `yaml:"type"` // "csv" or "clickhouse"
		DataDir string `yaml:"data_dir"`
		Table   string `yaml:"table"`
	} `yaml:"source"`
	Backend struct {
		Type      string `yaml:"type"` // "clickhouse", "kafka" or "none"
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		Linger       time.Duration `yaml:"linger"`
		BatchSize    int           `yaml:"batch_size"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		Type  string        `yaml:"type"` // "memory" or "redis"
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("INSTRUMENTS"); v != "" {
		c.Instruments = strings.Split(v, ",")
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Source.DataDir = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Engine.Workers = n
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.Window == 0 {
		c.Engine.Window = 8
	}
	if c.Engine.MaxLag == 0 {
		c.Engine.MaxLag = 60
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Source.Type == "" {
		c.Source.Type = "csv"
	}
	if c.Source.DataDir == "" {
		c.Source.DataDir = "data"
	}
	if c.Source.Table == "" {
		c.Source.Table = "lagscan.moving_averages"
	}
	if c.Backend.Type == "" {
		c.Backend.Type = "none"
	}
	if c.Backend.BatchSize == 0 {
		c.Backend.BatchSize = 2000
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid. Invalid engine parameters
// are programmer errors and must fail here, at startup, never mid-batch.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Engine.Window < 2 {
		return fmt.Errorf("engine.window must be >= 2, got %d", c.Engine.Window)
	}
	if c.Engine.MaxLag < 0 {
		return fmt.Errorf("engine.max_lag must be >= 0, got %d", c.Engine.MaxLag)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be >= 1, got %d", c.Engine.Workers)
	}
	if len(c.Instruments) < 2 {
		return fmt.Errorf("at least two instruments are required, got %d", len(c.Instruments))
	}
	switch c.Source.Type {
	case "csv", "clickhouse":
	default:
		return fmt.Errorf("source.type must be 'csv' or 'clickhouse', got '%s'", c.Source.Type)
	}
	switch c.Backend.Type {
	case "clickhouse", "kafka", "none":
	default:
		return fmt.Errorf("backend.type must be 'clickhouse', 'kafka' or 'none', got '%s'", c.Backend.Type)
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty with backend.type=kafka")
	}
	if (c.Backend.Type == "clickhouse" || c.Source.Type == "clickhouse") && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	switch c.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis', got '%s'", c.Cache.Type)
	}
	if c.Cache.Type == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required with cache.type=redis")
	}
	return nil
}
