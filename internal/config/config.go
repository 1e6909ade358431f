// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-change-me"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                string  `mapstructure:"APP_ENV"`
	Port               string  `mapstructure:"PORT"`
	DatabaseURL        string  `mapstructure:"DATABASE_URL"`
	DBAutoMigrate      bool    `mapstructure:"DB_AUTO_MIGRATE"`
	JWTSecret          string  `mapstructure:"JWT_SECRET"`
	SessionTTLHours    int     `mapstructure:"SESSION_TTL_HOURS"`
	CookieName         string  `mapstructure:"COOKIE_NAME"`
	CookieDomain       string  `mapstructure:"COOKIE_DOMAIN"`
	CookieSecure       bool    `mapstructure:"COOKIE_SECURE"`
	PublicURL          string  `mapstructure:"PUBLIC_URL"`
	RedisURL           string  `mapstructure:"REDIS_URL"`
	AllowedOrigins     string  `mapstructure:"ALLOWED_ORIGINS"`
	GitHubClientID     string  `mapstructure:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string  `mapstructure:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string  `mapstructure:"GITHUB_REDIRECT_URL"`
	GoogleClientID     string  `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string  `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string  `mapstructure:"GOOGLE_REDIRECT_URL"`
	RequestLogCapacity int     `mapstructure:"REQUEST_LOG_CAPACITY"`
	RateLimitEnabled   bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// OAuthCredentials are the client settings of one OAuth provider.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether all three values are set.
func (o OAuthCredentials) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

func (o OAuthCredentials) partial() bool {
	set := 0
	for _, v := range []string{o.ClientID, o.ClientSecret, o.RedirectURL} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 3
}

// LoadConfig loads application configuration from .env, file and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		slog.Info("loaded profile-specific configuration", "file", "config."+env+".yml")
	}

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "sqlite:bizsite.db")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("COOKIE_NAME", "session")
	viper.SetDefault("COOKIE_DOMAIN", "")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("PUBLIC_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("GITHUB_CLIENT_ID", "")
	viper.SetDefault("GITHUB_CLIENT_SECRET", "")
	viper.SetDefault("GITHUB_REDIRECT_URL", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("REQUEST_LOG_CAPACITY", 500)
	viper.SetDefault("RATE_LIMIT_ENABLED", env != "development" && env != "test")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 168
	}
	if c.RequestLogCapacity <= 0 {
		c.RequestLogCapacity = 500
	}
}

// IsProduction reports whether the app runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SessionTTL is the lifetime of issued session tokens.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// OAuth returns the credentials for provider ("github" or "google").
func (c *Config) OAuth(provider string) OAuthCredentials {
	switch provider {
	case "github":
		return OAuthCredentials{c.GitHubClientID, c.GitHubClientSecret, c.GitHubRedirectURL}
	case "google":
		return OAuthCredentials{c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL}
	}
	return OAuthCredentials{}
}

// Origins splits ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	for _, p := range []string{"github", "google"} {
		if c.OAuth(p).partial() {
			return fmt.Errorf("%s OAuth requires client id, client secret and redirect url", p)
		}
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if !c.CookieSecure {
			return errors.New("COOKIE_SECURE must be enabled in production")
		}
		if c.AllowedOrigins == "*" {
			slog.Warn("ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		slog.Warn("JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
