package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mendel/internal/storage"
)

// Config holds all mendel configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Breeder BreederConfig `yaml:"breeder"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Kind        string   `yaml:"kind"` // memory, sqlite, postgres, s3
	SQLitePath  string   `yaml:"sqlite_path"`
	PostgresDSN string   `yaml:"postgres_dsn"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// BreederConfig configures crossing. A zero seed means one is drawn from
// the clock at startup.
type BreederConfig struct {
	Seed int64 `yaml:"seed"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

var validStores = []string{storage.KindMemory, storage.KindSQLite, storage.KindPostgres, storage.KindS3}

var validLevels = []string{"debug", "info", "warn", "error"}

func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Kind:       storage.KindMemory,
			SQLitePath: "mendel.db",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides file settings with MENDEL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MENDEL_STORE"); v != "" {
		c.Store.Kind = v
	}
	if v := os.Getenv("MENDEL_SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv("MENDEL_POSTGRES_DSN"); v != "" {
		c.Store.PostgresDSN = v
	}
	if v := os.Getenv("MENDEL_S3_BUCKET"); v != "" {
		c.Store.S3.Bucket = v
	}
	if v := os.Getenv("MENDEL_S3_REGION"); v != "" {
		c.Store.S3.Region = v
	}
	if v := os.Getenv("MENDEL_S3_ENDPOINT"); v != "" {
		c.Store.S3.Endpoint = v
		c.Store.S3.PathStyle = true
	}
	if v := os.Getenv("MENDEL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MENDEL_SEED: %w", err)
		}
		c.Breeder.Seed = seed
	}
	if v := os.Getenv("MENDEL_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

func (c *Config) Validate() error {
	if !contains(validStores, c.Store.Kind) {
		return fmt.Errorf("invalid store kind: %q (valid: %v)", c.Store.Kind, validStores)
	}
	switch c.Store.Kind {
	case storage.KindSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite store")
		}
	case storage.KindS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is required for the s3 store")
		}
	}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q (valid: %v)", c.Logging.Level, validLevels)
	}
	return nil
}

// StoreOptions maps the store section onto storage.NewStore options.
// S3 credentials always come from the default AWS chain.
func (c *Config) StoreOptions() storage.Options {
	return storage.Options{
		SQLitePath:  c.Store.SQLitePath,
		PostgresDSN: c.Store.PostgresDSN,
		S3: storage.S3Config{
			Bucket:    c.Store.S3.Bucket,
			Region:    c.Store.S3.Region,
			Endpoint:  c.Store.S3.Endpoint,
			Prefix:    c.Store.S3.Prefix,
			PathStyle: c.Store.S3.PathStyle,
		},
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
