package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Defaults for the refresh policy.
const (
	// DefaultRefreshDelay spaces consecutive provider requests in a batch.
	DefaultRefreshDelay = 15 * time.Second

	// DefaultLiveInterval is the time between live refresh cycles.
	DefaultLiveInterval = 5 * time.Minute

	// DefaultToastTTL is how long a toast stays visible.
	DefaultToastTTL = 5 * time.Second

	// DefaultHTTPTimeout bounds a single provider request.
	DefaultHTTPTimeout = 30 * time.Second
)

// Config is the persistent application configuration
type Config struct {
	// Provider settings
	Provider ProviderConfig `json:"provider"`

	// Refresh policy
	Refresh RefreshConfig `json:"refresh"`

	// UI Preferences
	UI UIConfig `json:"ui"`

	// DatabasePath overrides the default SQLite location
	DatabasePath string `json:"database_path,omitempty"`
}

// ProviderConfig holds trend-data provider settings
type ProviderConfig struct {
	BaseURL   string `json:"base_url"`
	Region    string `json:"region"` // empty = worldwide
	TimeoutMs int    `json:"timeout_ms"`
}

// RefreshConfig holds pacing for manual and live refreshes
type RefreshConfig struct {
	DelaySeconds        int `json:"delay_seconds"`         // pause between requests in a batch
	LiveIntervalSeconds int `json:"live_interval_seconds"` // time between live cycles
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme          string `json:"theme"`
	ToastTTLMs     int    `json:"toast_ttl_ms"`
	ShowMonitor    bool   `json:"show_monitor"`
	SparklineWidth int    `json:"sparkline_width"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:   "http://localhost:8000",
			Region:    "",
			TimeoutMs: int(DefaultHTTPTimeout / time.Millisecond),
		},
		Refresh: RefreshConfig{
			DelaySeconds:        int(DefaultRefreshDelay / time.Second),
			LiveIntervalSeconds: int(DefaultLiveInterval / time.Second),
		},
		UI: UIConfig{
			Theme:          "dark",
			ToastTTLMs:     int(DefaultToastTTL / time.Millisecond),
			ShowMonitor:    true,
			SparklineWidth: 12,
		},
	}
}

// RefreshDelay returns the configured inter-request delay.
func (c *Config) RefreshDelay() time.Duration {
	if c.Refresh.DelaySeconds <= 0 {
		return DefaultRefreshDelay
	}
	return time.Duration(c.Refresh.DelaySeconds) * time.Second
}

// LiveInterval returns the configured live cycle interval.
func (c *Config) LiveInterval() time.Duration {
	if c.Refresh.LiveIntervalSeconds <= 0 {
		return DefaultLiveInterval
	}
	return time.Duration(c.Refresh.LiveIntervalSeconds) * time.Second
}

// ToastTTL returns the configured toast lifetime.
func (c *Config) ToastTTL() time.Duration {
	if c.UI.ToastTTLMs <= 0 {
		return DefaultToastTTL
	}
	return time.Duration(c.UI.ToastTTLMs) * time.Millisecond
}

// HTTPTimeout returns the configured provider request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.Provider.TimeoutMs <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.Provider.TimeoutMs) * time.Millisecond
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trendwatch", "trends.db")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trendwatch", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
