package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "MOLSDG"

// configKeys lists every leaf key so that AutomaticEnv can resolve values that
// never appear in a file (viper only consults env for keys it knows about).
var configKeys = []string{
	"layout.bond_length", "layout.max_shared_bonds", "layout.max_beta_atoms",
	"layout.max_atoms", "layout.batch_workers",
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"redis.default_ttl", "redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.group_id", "kafka.request_topic",
	"kafka.result_topic", "kafka.batch_size", "kafka.batch_timeout", "kafka.max_retries",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.bucket", "minio.region", "minio.use_ssl",
	"metrics.enabled", "metrics.namespace", "metrics.path",
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	"log.enable_caller", "log.enable_stacktrace",
}

// newViper builds a Viper instance with YAML file type, the MOLSDG_ env
// prefix and a "." → "_" key replacer, so "layout.bond_length" resolves to
// MOLSDG_LAYOUT_BOND_LENGTH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges MOLSDG_* overrides, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from MOLSDG_* environment variables only.
//
//	MOLSDG_<SECTION>_<FIELD>   e.g.  MOLSDG_LAYOUT_BOND_LENGTH, MOLSDG_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadFromFile loads configPath when non-empty and falls back to LoadFromEnv.
func LoadFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the reparsed Config
// after every write. Invalid revisions are reported to onError and otherwise
// ignored. Only the log level and layout tunables are safe to apply live.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

//Personal.AI order the ending
