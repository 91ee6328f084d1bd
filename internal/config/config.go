// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	TokenLifetimeMinutes int    `mapstructure:"TOKEN_LIFETIME_MINUTES"`
	Port                 string `mapstructure:"PORT"`
	DBHost               string `mapstructure:"DB_HOST"`
	DBPort               string `mapstructure:"DB_PORT"`
	DBUser               string `mapstructure:"DB_USER"`
	DBPassword           string `mapstructure:"DB_PASSWORD"`
	DBName               string `mapstructure:"DB_NAME"`
	DBSSLMode            string `mapstructure:"DB_SSLMODE"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	AllowedOrigins       string `mapstructure:"ALLOWED_ORIGINS"`
	Env                  string `mapstructure:"APP_ENV"`

	// Music provider credentials and endpoints
	ProviderClientID     string `mapstructure:"PROVIDER_CLIENT_ID"`
	ProviderClientSecret string `mapstructure:"PROVIDER_CLIENT_SECRET"`
	ProviderTokenURL     string `mapstructure:"PROVIDER_TOKEN_URL"`
	ProviderAPIURL       string `mapstructure:"PROVIDER_API_URL"`
	// TokenRefreshMargin is the number of seconds of remaining validity
	// below which a cached provider access token is refreshed.
	TokenRefreshMargin int `mapstructure:"TOKEN_REFRESH_MARGIN"`

	// SongOfDayPath is the JSON file persisting the daily song pick.
	SongOfDayPath string `mapstructure:"SONG_OF_DAY_PATH"`

	// Tracing
	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults
	// cover the development case.
	_ = viper.ReadInConfig()

	// Set default values for development
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("TOKEN_LIFETIME_MINUTES", 30)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "tonality")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PROVIDER_TOKEN_URL", "https://accounts.spotify.com/api/token")
	viper.SetDefault("PROVIDER_API_URL", "https://api.spotify.com/v1")
	viper.SetDefault("TOKEN_REFRESH_MARGIN", 300)
	viper.SetDefault("SONG_OF_DAY_PATH", "song_of_day.json")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 0.1)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenLifetimeMinutes <= 0 {
		return errors.New("TOKEN_LIFETIME_MINUTES must be positive")
	}
	if c.TokenRefreshMargin < 0 {
		return errors.New("TOKEN_REFRESH_MARGIN must not be negative")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.ProviderClientID == "" || c.ProviderClientSecret == "" {
			return errors.New("PROVIDER_CLIENT_ID and PROVIDER_CLIENT_SECRET are required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// IsTest reports whether the application runs under the test profile.
func (c *Config) IsTest() bool {
	return c.Env == "test"
}
