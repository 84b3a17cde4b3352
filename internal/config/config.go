// Package config defines the configuration structures for molsdg. No I/O
// lives in this file, only data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LayoutConfig holds the tunables of the structure-diagram pipeline.
type LayoutConfig struct {
	// BondLength is the edge length of generated ring polygons.
	BondLength float64 `mapstructure:"bond_length"`

	// MaxSharedBonds is the peeling cutoff: rings sharing more bonds than this
	// with the rest of their group are never peeled as fused/spiro.
	MaxSharedBonds int `mapstructure:"max_shared_bonds"`

	// MaxBetaAtoms demotes chain candidates with more beta atoms than this.
	MaxBetaAtoms int `mapstructure:"max_beta_atoms"`

	// MaxAtoms rejects input before the cubic stages run.
	MaxAtoms int `mapstructure:"max_atoms"`

	// BatchWorkers bounds concurrency of batch layout requests.
	BatchWorkers int `mapstructure:"batch_workers"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// CORSAllowedOrigins enables CORS for these origins. "*" allows any.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// RedisConfig holds the layout cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the batch worker's broker parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	GroupID      string        `mapstructure:"group_id"`
	RequestTopic string        `mapstructure:"request_topic"`
	ResultTopic  string        `mapstructure:"result_topic"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// MinIOConfig holds the layout archive's object-storage parameters.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`

	// RetentionDays expires archived layouts after this many days. Zero keeps
	// them forever.
	RetentionDays int `mapstructure:"retention_days"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Layout  LayoutConfig      `mapstructure:"layout"`
	Server  ServerConfig      `mapstructure:"server"`
	Redis   RedisConfig       `mapstructure:"redis"`
	Kafka   KafkaConfig       `mapstructure:"kafka"`
	MinIO   MinIOConfig       `mapstructure:"minio"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Log     logging.LogConfig `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a defaulted Config and returns the
// first problem found.
func (c *Config) Validate() error {
	// Layout
	if c.Layout.BondLength <= 0 {
		return fmt.Errorf("config: layout.bond_length must be > 0, got %g", c.Layout.BondLength)
	}
	if c.Layout.MaxSharedBonds < 1 {
		return fmt.Errorf("config: layout.max_shared_bonds must be ≥ 1, got %d", c.Layout.MaxSharedBonds)
	}
	if c.Layout.MaxBetaAtoms < 1 {
		return fmt.Errorf("config: layout.max_beta_atoms must be ≥ 1, got %d", c.Layout.MaxBetaAtoms)
	}
	if c.Layout.MaxAtoms < 1 {
		return fmt.Errorf("config: layout.max_atoms must be ≥ 1, got %d", c.Layout.MaxAtoms)
	}
	if c.Layout.BatchWorkers < 1 {
		return fmt.Errorf("config: layout.batch_workers must be ≥ 1, got %d", c.Layout.BatchWorkers)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.RequestTopic == "" || c.Kafka.ResultTopic == "" {
			return fmt.Errorf("config: kafka.request_topic and kafka.result_topic are required")
		}
	}

	// MinIO
	if c.MinIO.Enabled && c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required when minio is enabled")
	}
	if c.MinIO.RetentionDays < 0 {
		return fmt.Errorf("config: minio.retention_days must not be negative")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
