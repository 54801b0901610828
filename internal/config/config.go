package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the service, loaded from the
// environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	StaticTokens []string `env:"STATIC_TOKENS" envSeparator:","`
	JWTSecret    string   `env:"JWT_HMAC_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
	GoogleCalendarID   string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`

	// Timezone applied to every calendar event; events are never written in
	// the booking's local zone.
	Timezone string `env:"EVENT_TIMEZONE" envDefault:"Europe/Madrid"`

	// SettingsURL is where the OAuth callback redirects the operator.
	SettingsURL string `env:"SETTINGS_URL" envDefault:"/settings"`

	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	OperatorEmail string `env:"OPERATOR_EMAIL"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// GoogleConfigured reports whether the calendar OAuth client is usable.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}
