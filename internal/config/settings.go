package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rgehrsitz/goalfund/internal/domain"
)

// Environment overrides, applied after the settings file.
const (
	EnvSimulationURL = "GOALFUND_SIMULATION_URL"
	EnvLogLevel      = "GOALFUND_LOG_LEVEL"
	EnvCatalog       = "GOALFUND_CATALOG"
	EnvCachePath     = "GOALFUND_CACHE_PATH"
)

// Duration is a time.Duration that reads and writes as "5s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Settings holds user preferences for the CLI, server and TUI.
type Settings struct {
	Catalog             string                     `toml:"catalog,omitempty"`
	Output              string                     `toml:"output"`
	Simulation          SimulationSettings         `toml:"simulation"`
	Cache               CacheSettings              `toml:"cache"`
	Logging             LoggingSettings            `toml:"logging"`
	Server              ServerSettings             `toml:"server"`
	CapitalPreservation domain.CapitalPreservation `toml:"capital_preservation"`
}

// SimulationSettings configures the external simulation collaborator. An empty BaseURL
// disables it and every commit uses the fixed-rate fallback.
type SimulationSettings struct {
	BaseURL string   `toml:"base_url,omitempty"`
	Timeout Duration `toml:"timeout"`
}

// CacheSettings bounds the simulation response cache.
type CacheSettings struct {
	Enabled    bool     `toml:"enabled"`
	Path       string   `toml:"path,omitempty"`
	TTL        Duration `toml:"ttl"`
	MaxEntries int      `toml:"max_entries"`
}

// LoggingSettings holds the log level.
type LoggingSettings struct {
	Level string `toml:"level"`
}

// ServerSettings holds the listen address for the JSON endpoint.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Output: "console",
		Simulation: SimulationSettings{
			Timeout: Duration{5 * time.Second},
		},
		Cache: CacheSettings{
			Enabled:    true,
			TTL:        Duration{6 * time.Hour},
			MaxEntries: 256,
		},
		Logging:             LoggingSettings{Level: "info"},
		Server:              ServerSettings{Addr: "127.0.0.1:8080"},
		CapitalPreservation: domain.DefaultCapitalPreservation(),
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "goalfund")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "goalfund")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CachePath returns where the simulation cache lives unless overridden.
func (s Settings) CachePath() string {
	if s.Cache.Path != "" {
		return s.Cache.Path
	}
	return filepath.Join(ConfigDir(), "simulation-cache.db")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
// An empty path means SettingsPath().
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()
	if path == "" {
		path = SettingsPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return cfg, nil
}

// SaveSettings writes the settings to disk.
func SaveSettings(path string, cfg Settings) error {
	if path == "" {
		path = SettingsPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges that TOML decoding cannot.
func (s Settings) Validate() error {
	if s.Simulation.Timeout.Duration < 0 {
		return fmt.Errorf("simulation timeout cannot be negative")
	}
	if s.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	if s.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries cannot be negative")
	}
	if s.CapitalPreservation.Rate < 0 {
		return fmt.Errorf("capital preservation rate cannot be negative")
	}
	return nil
}

// LoadEnvFiles loads .env files into the process environment. Missing files are skipped;
// variables already set are not overwritten.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvSimulationURL); v != "" {
		s.Simulation.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.Logging.Level = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		s.Catalog = v
	}
	if v := os.Getenv(EnvCachePath); v != "" {
		s.Cache.Path = v
	}
}
