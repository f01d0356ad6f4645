package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Vision   VisionConfig
	Search   SearchConfig
	Store    StoreConfig
	Analysis AnalysisConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

// VisionConfig holds vision model API configuration
type VisionConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Referer string        `mapstructure:"referer"`
	Title   string        `mapstructure:"title"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds price search API configuration
type SearchConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig holds catalog and blob storage configuration
type StoreConfig struct {
	DBPath  string `mapstructure:"db_path"`
	BlobDir string `mapstructure:"blob_dir"`
	BaseURL string `mapstructure:"base_url"`
}

// AnalysisConfig holds analysis workflow configuration
type AnalysisConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/beautylens/")

	v.SetEnvPrefix("BEAUTYLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", int64(10*1024*1024))

	// Vision defaults
	v.SetDefault("vision.base_url", "https://api.vsegpt.ru/v1")
	v.SetDefault("vision.model", "openai/gpt-4o-mini")
	v.SetDefault("vision.referer", "https://beauty-ai.app")
	v.SetDefault("vision.title", "Beauty AI")
	v.SetDefault("vision.timeout", "60s")

	// Search defaults
	v.SetDefault("search.base_url", "https://api.tavily.com")
	v.SetDefault("search.timeout", "15s")

	// Store defaults
	v.SetDefault("store.db_path", "data/catalog.db")
	v.SetDefault("store.blob_dir", "data/blobs")
	v.SetDefault("store.base_url", "/blobs")

	// Analysis defaults
	v.SetDefault("analysis.confidence_threshold", 0.7)
	v.SetDefault("analysis.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Vision.APIKey == "" {
		return fmt.Errorf("vision API key is required (set BEAUTYLENS_VISION_API_KEY)")
	}

	if config.Analysis.ConfidenceThreshold <= 0 || config.Analysis.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in (0, 1], got: %v", config.Analysis.ConfidenceThreshold)
	}

	if config.Store.DBPath == "" {
		return fmt.Errorf("store db_path is required")
	}

	return nil
}
