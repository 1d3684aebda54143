package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"
)

const (
	envConfig   = "STREAKS_CONFIG"
	defaultPath = "config.yaml"
)

type OIDCProvider struct {
	Id           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	IssuerURL    string   `yaml:"issuer_url"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

type Notify struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	FromAddress  string `yaml:"from_address"`
	ToAddress    string `yaml:"to_address"`
}

type Config struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
	APIBaseURL string `yaml:"api_base_url,omitempty"`

	StoreDriver string `yaml:"store_driver,omitempty"` // "bolt" or "sqlite"
	DBPath      string `yaml:"db_path,omitempty"`

	// WeekStartsOn is 0 (Sunday) or 1 (Monday).
	WeekStartsOn int `yaml:"week_starts_on,omitempty"`
	// LookbackDays bounds how much completion history summary reads consider.
	LookbackDays int `yaml:"lookback_days,omitempty"`

	AuthEnabled   bool           `yaml:"auth_enabled,omitempty"`
	OIDCProviders []OIDCProvider `yaml:"oidc_providers,omitempty"`

	Notify Notify `yaml:"notify"`
}

// Load reads the YAML config at path. An empty path falls back to the
// STREAKS_CONFIG environment variable, then to "config.yaml".
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path == "" {
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ListenAddr:   ":8080",
		APIBaseURL:   "http://localhost:8080",
		StoreDriver:  "bolt",
		DBPath:       "streaks.db",
		WeekStartsOn: 1,
		LookbackDays: 90,
	}
}

func (c *Config) validate() error {
	if c.StoreDriver != "bolt" && c.StoreDriver != "sqlite" {
		return fmt.Errorf("bad store_driver %q: must be bolt or sqlite", c.StoreDriver)
	}
	if c.WeekStartsOn != 0 && c.WeekStartsOn != 1 {
		return fmt.Errorf("bad week_starts_on %d: must be 0 (Sunday) or 1 (Monday)", c.WeekStartsOn)
	}
	if c.LookbackDays <= 0 {
		return fmt.Errorf("bad lookback_days %d: must be positive", c.LookbackDays)
	}
	if c.AuthEnabled && len(c.OIDCProviders) == 0 {
		return fmt.Errorf("auth_enabled requires at least one oidc provider")
	}
	return nil
}

// WeekStart converts the configured week start index to a time.Weekday.
func (c *Config) WeekStart() time.Weekday {
	return time.Weekday(c.WeekStartsOn)
}
