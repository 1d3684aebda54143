package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

func TestLoad_MissingConfig(t *testing.T) {
	t.Setenv("STREAKS_CONFIG", "nonexistent.yaml")
	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func writeConfig(t *testing.T, c Config) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	d, err := yaml.Marshal(&c)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(configFile, d, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestLoad_CustomConfig(t *testing.T) {
	path := writeConfig(t, Config{})
	t.Setenv("STREAKS_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.StoreDriver != "bolt" {
		t.Fatalf("store_driver=%q want bolt default", cfg.StoreDriver)
	}
	if cfg.WeekStartsOn != 1 {
		t.Fatalf("week_starts_on=%d want 1 default", cfg.WeekStartsOn)
	}
	if cfg.LookbackDays != 90 {
		t.Fatalf("lookback_days=%d want 90 default", cfg.LookbackDays)
	}
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	path := writeConfig(t, Config{ListenAddr: ":9999"})
	t.Setenv("STREAKS_CONFIG", "nonexistent.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("listen_addr=%q want :9999", cfg.ListenAddr)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad driver", Config{StoreDriver: "postgres"}},
		{"bad week start", Config{WeekStartsOn: 3}},
		{"auth without providers", Config{AuthEnabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.cfg)); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
