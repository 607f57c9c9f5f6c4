// Package config loads csvql settings from defaults, an optional config
// file, CSVQL_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vegasq/csvql/output"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// CSVQL_DATA_DIR or CSVQL_S3_ENDPOINT.
const EnvPrefix = "CSVQL"

// Config holds all csvql settings
type Config struct {
	DataDir         string    `mapstructure:"data_dir"`
	Format          string    `mapstructure:"format"`
	Limit           int       `mapstructure:"limit"`
	Distinct        bool      `mapstructure:"distinct"`
	ConcurrentLoads bool      `mapstructure:"concurrent_loads"`
	MetricsAddr     string    `mapstructure:"metrics_addr"`
	Log             LogConfig `mapstructure:"log"`
	S3              S3Config  `mapstructure:"s3"`
}

// LogConfig configures the slog logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// S3Config configures loading tables from an S3-compatible bucket. Tables
// are read from local files when Endpoint is empty.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

var (
	// ErrInvalidFormat is returned for an output format not in output.Formats
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrNegativeLimit is returned when limit is below zero
	ErrNegativeLimit = errors.New("limit must be non-negative")

	// ErrMissingBucket is returned when an S3 endpoint has no bucket
	ErrMissingBucket = errors.New("s3 bucket is required when an endpoint is set")
)

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"data-dir":         "data_dir",
	"format":           "format",
	"limit":            "limit",
	"distinct":         "distinct",
	"concurrent-loads": "concurrent_loads",
	"metrics-addr":     "metrics_addr",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"s3-endpoint":      "s3.endpoint",
	"s3-bucket":        "s3.bucket",
	"s3-prefix":        "s3.prefix",
	"s3-access-key":    "s3.access_key",
	"s3-secret-key":    "s3.secret_key",
	"s3-ssl":           "s3.use_ssl",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("format", "jsonl")
	v.SetDefault("limit", 0)
	v.SetDefault("distinct", false)
	v.SetDefault("concurrent_loads", false)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.format", "text")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", false)
}

// Load resolves the configuration. path names an optional config file
// (yaml, toml or json); flags may be nil. Only flags the user actually set
// override file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values
func (c *Config) Validate() error {
	valid := false
	for _, f := range output.Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q (supported: %s)", ErrInvalidFormat, c.Format, strings.Join(output.Formats, ", "))
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeLimit, c.Limit)
	}
	if c.S3.Endpoint != "" && c.S3.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}
