// Package config provides Viper-based hierarchical configuration management:
// defaults, then an optional config.yaml, then TXNLENS_-prefixed environment
// variables. A .env file in the working directory is honored via godotenv.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled         bool    `mapstructure:"enabled" yaml:"enabled"`
		Model           string  `mapstructure:"model" yaml:"model"`
		Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
		MaxTokensSingle int     `mapstructure:"max_tokens_single" yaml:"max_tokens_single"`
		MaxTokensChunk  int     `mapstructure:"max_tokens_chunk" yaml:"max_tokens_chunk"`
		APIKey          string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Enrich struct {
		// BatchSize bounds per-item concurrency in item mode.
		BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
		// ChunkSize is the number of transactions per single model call in chunk mode.
		ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
		// Mode selects "item" (one call per transaction) or "chunk" (one call per chunk).
		Mode string `mapstructure:"mode" yaml:"mode"`
	} `mapstructure:"enrich" yaml:"enrich"`

	Reference struct {
		TablePath   string `mapstructure:"table_path" yaml:"table_path"`
		BucketsPath string `mapstructure:"buckets_path" yaml:"buckets_path"`
	} `mapstructure:"reference" yaml:"reference"`

	Source struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"source" yaml:"source"`

	Server struct {
		Port int `mapstructure:"port" yaml:"port"`
	} `mapstructure:"server" yaml:"server"`
}

// Modes for Enrich.Mode.
const (
	ModeItem  = "item"
	ModeChunk = "chunk"
)

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or its parent. Missing files are not an error.
func LoadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// Initialize builds the configuration with hierarchical loading.
func Initialize() (*Config, error) {
	v := viper.New()

	// 1. Defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.txnlens")
	v.AddConfigPath(".txnlens")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("TXNLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key always comes from the unprefixed env var
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_tokens_single", 200)
	v.SetDefault("ai.max_tokens_chunk", 500)

	v.SetDefault("enrich.batch_size", 80)
	v.SetDefault("enrich.chunk_size", 20)
	v.SetDefault("enrich.mode", ModeItem)

	v.SetDefault("reference.table_path", "reference/categories.csv")
	v.SetDefault("reference.buckets_path", "")

	v.SetDefault("source.path", "response.json")

	v.SetDefault("server.port", 8080)
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.Temperature < 0.0 || config.AI.Temperature > 1.0 {
		return fmt.Errorf("ai.temperature must be between 0.0 and 1.0, got: %f", config.AI.Temperature)
	}

	if config.AI.MaxTokensSingle < 150 || config.AI.MaxTokensSingle > 4000 {
		return fmt.Errorf("ai.max_tokens_single must be between 150 and 4000, got: %d", config.AI.MaxTokensSingle)
	}

	if config.AI.MaxTokensChunk < 150 || config.AI.MaxTokensChunk > 4000 {
		return fmt.Errorf("ai.max_tokens_chunk must be between 150 and 4000, got: %d", config.AI.MaxTokensChunk)
	}

	if config.Enrich.BatchSize < 1 {
		return fmt.Errorf("enrich.batch_size must be at least 1, got: %d", config.Enrich.BatchSize)
	}

	if config.Enrich.ChunkSize < 1 {
		return fmt.Errorf("enrich.chunk_size must be at least 1, got: %d", config.Enrich.ChunkSize)
	}

	if config.Enrich.Mode != ModeItem && config.Enrich.Mode != ModeChunk {
		return fmt.Errorf("enrich.mode must be %q or %q, got: %s", ModeItem, ModeChunk, config.Enrich.Mode)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", config.Server.Port)
	}

	return nil
}
