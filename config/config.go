package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        int    `mapstructure:"PORT"`
	Version     string `mapstructure:"VERSION"`
	RateLimit   int    `mapstructure:"RATE_LIMIT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Frontend base URL used for OAuth redirects (dashboard/login pages)
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// CORS Configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Tyms API Configuration
	TymsAPIURL      string `mapstructure:"TYMS_API_URL"`
	TymsClientID    string `mapstructure:"TYMS_CLIENT_ID"`
	TymsSecretKey   string `mapstructure:"TYMS_SECRET_KEY"`
	TymsRedirectURI string `mapstructure:"TYMS_REDIRECT_URI"`
	TymsTermsURL    string `mapstructure:"TYMS_TERMS_URL"`
	TymsPrivacyURL  string `mapstructure:"TYMS_PRIVACY_URL"`
	TymsReference   string `mapstructure:"TYMS_REFERENCE"`

	// SMTP Configuration
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASS"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`

	// Invoice PDF Archive Storage (R2/S3-compatible, optional)
	ArchiveBucket   string `mapstructure:"ARCHIVE_BUCKET"`
	ArchiveRegion   string `mapstructure:"ARCHIVE_REGION"`
	ArchiveEndpoint string `mapstructure:"ARCHIVE_ENDPOINT"`
	ArchiveKey      string `mapstructure:"ARCHIVE_KEY"`
	ArchiveSecret   string `mapstructure:"ARCHIVE_SECRET"`

	// Token cookie lifetimes
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig loads the configuration from environment variables and config files
func LoadConfig(configPath string) (*Config, error) {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Set default values
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("VERSION", "1.0.0")
	viper.SetDefault("RATE_LIMIT", 100) // 100 requests per minute per IP
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("TYMS_API_URL", "https://api.tyms.io/api/v1")
	viper.SetDefault("TYMS_REFERENCE", "bdn-tyms")
	viper.SetDefault("SMTP_PORT", 587)

	// Read environment variables
	viper.AutomaticEnv()
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("TYMS_CLIENT_ID")
	_ = viper.BindEnv("TYMS_SECRET_KEY")
	_ = viper.BindEnv("TYMS_REDIRECT_URI")
	_ = viper.BindEnv("SMTP_HOST")
	_ = viper.BindEnv("SMTP_USER")
	_ = viper.BindEnv("SMTP_PASS")
	_ = viper.BindEnv("EMAIL_FROM")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Derived values; Tyms access tokens live for an hour, refresh tokens
	// for thirty days
	config.AccessTokenDuration = 1 * time.Hour
	config.RefreshTokenDuration = 30 * 24 * time.Hour

	return &config, nil
}
