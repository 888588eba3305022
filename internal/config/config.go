package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Database configuration
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// Data directories for the ETL pipeline
	RawDataDir       string `mapstructure:"RAW_DATA_DIR"`
	ProcessedDataDir string `mapstructure:"PROCESSED_DATA_DIR"`

	// OpenFoodFacts extraction
	OpenFoodFactsURL  string `mapstructure:"OPENFOODFACTS_URL"`
	ProductSampleRows int    `mapstructure:"PRODUCT_SAMPLE_ROWS"`

	// Marmiton scraping
	MarmitonBaseURL      string  `mapstructure:"MARMITON_BASE_URL"`
	ScrapeDelaySeconds   float64 `mapstructure:"SCRAPE_DELAY_SECONDS"`
	ScrapeTimeoutSeconds int     `mapstructure:"SCRAPE_TIMEOUT_SECONDS"`

	// Product/ingredient matching
	MatchThreshold float64 `mapstructure:"MATCH_THRESHOLD"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("LOG_LEVEL", "info")

	// Database defaults
	viper.SetDefault("DATABASE_PATH", filepath.Join("database", "openfoodfacts.db"))

	// Data directory defaults
	viper.SetDefault("RAW_DATA_DIR", filepath.Join("data", "raw"))
	viper.SetDefault("PROCESSED_DATA_DIR", filepath.Join("data", "processed"))

	// Extraction defaults
	viper.SetDefault("OPENFOODFACTS_URL", "https://static.openfoodfacts.org/data/en.openfoodfacts.org.products.csv.gz")
	viper.SetDefault("PRODUCT_SAMPLE_ROWS", 100000)

	// Scraping defaults
	viper.SetDefault("MARMITON_BASE_URL", "https://www.marmiton.org")
	viper.SetDefault("SCRAPE_DELAY_SECONDS", 0.8)
	viper.SetDefault("SCRAPE_TIMEOUT_SECONDS", 10)

	// Matching defaults
	viper.SetDefault("MATCH_THRESHOLD", 0.5)

	// CORS defaults
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})
}

func validate(config *Config) error {
	if config.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}

	if config.ProductSampleRows < 0 {
		return fmt.Errorf("PRODUCT_SAMPLE_ROWS must be positive")
	}

	if config.MatchThreshold < 0 || config.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be between 0 and 1")
	}

	return nil
}

// RawFile returns the path of a file inside the raw data directory
func (c *Config) RawFile(name string) string {
	return filepath.Join(c.RawDataDir, name)
}

// ProcessedFile returns the path of a file inside the processed data directory
func (c *Config) ProcessedFile(name string) string {
	return filepath.Join(c.ProcessedDataDir, name)
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
