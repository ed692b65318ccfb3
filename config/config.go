package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. HEALTHDASH_HTTP_ADDR.
const EnvPrefix = "HEALTHDASH"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// AI providers.
const (
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

type StorageConfig struct {
	Driver      string `yaml:"driver" envconfig:"STORE_DRIVER"`
	SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" envconfig:"POSTGRES_DSN"`
	S3Bucket    string `yaml:"s3_bucket" envconfig:"S3_BUCKET"`
	S3Region    string `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Prefix    string `yaml:"s3_prefix" envconfig:"S3_PREFIX"`
	S3Endpoint  string `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT"`
}

type AIConfig struct {
	Provider         string        `yaml:"provider" envconfig:"AI_PROVIDER"`
	GeminiAPIKey     string        `yaml:"gemini_api_key" envconfig:"GEMINI_API_KEY"`
	GeminiModel      string        `yaml:"gemini_model" envconfig:"GEMINI_MODEL"`
	HuggingFaceToken string        `yaml:"huggingface_token" envconfig:"HUGGINGFACE_TOKEN"`
	HuggingFaceModel string        `yaml:"huggingface_model" envconfig:"HUGGINGFACE_MODEL"`
	HuggingFaceURL   string        `yaml:"huggingface_url" envconfig:"HUGGINGFACE_URL"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"AI_TIMEOUT"`
	MaxRetries       int           `yaml:"max_retries" envconfig:"AI_MAX_RETRIES"`
	ActivityLevel    string        `yaml:"activity_level" envconfig:"ACTIVITY_LEVEL"`
}

// Config is the full runtime configuration.
type Config struct {
	HTTPAddr  string `yaml:"http_addr" envconfig:"HTTP_ADDR"`
	Timezone  string `yaml:"timezone" envconfig:"TIMEZONE"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// Embedded so envconfig keeps flat names (HEALTHDASH_STORE_DRIVER, ...).
	StorageConfig `yaml:"storage"`
	AIConfig      `yaml:"ai"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:  "127.0.0.1:8080",
		Timezone:  "Local",
		LogLevel:  "info",
		LogFormat: "console",
		StorageConfig: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "healthdash.db",
			S3Region:   "us-east-1",
			S3Prefix:   "healthdash",
		},
		AIConfig: AIConfig{
			Provider:         ProviderGemini,
			GeminiModel:      "gemini-1.5-flash",
			HuggingFaceModel: "google/flan-t5-small",
			HuggingFaceURL:   "https://api-inference.huggingface.co",
			Timeout:          30 * time.Second,
			MaxRetries:       2,
			ActivityLevel:    "Moderate",
		},
	}
}

// Load resolves configuration in order: defaults, the optional YAML file at
// path, then environment variables (a .env file in the working directory is
// loaded first when present). Unprefixed names such as GEMINI_API_KEY are
// honoured when the prefixed variable is unset.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver and provider names and time zone.
func (c *Config) Validate() error {
	switch c.StorageConfig.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverS3:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StorageConfig.Driver)
	}
	switch c.AIConfig.Provider {
	case ProviderGemini, ProviderHuggingFace:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER: %s", c.AIConfig.Provider)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.AIConfig.MaxRetries < 0 {
		c.AIConfig.MaxRetries = 0
	}
	if c.AIConfig.ActivityLevel == "" {
		c.AIConfig.ActivityLevel = "Moderate"
	}
	return nil
}

// Location resolves Timezone; "Local" or empty means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
