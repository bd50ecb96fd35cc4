package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GaugeStyle selects which gauges the dashboard draws
type GaugeStyle string

const (
	GaugeRing GaugeStyle = "ring"
	GaugeBar  GaugeStyle = "bar"
	GaugeBoth GaugeStyle = "both"
)

// Config holds all application configuration
type Config struct {
	Progress ProgressConfig `mapstructure:"progress"`
	Vault    VaultConfig    `mapstructure:"vault"`
	UI       UIConfig       `mapstructure:"ui"`
	Store    StoreConfig    `mapstructure:"store"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ProgressConfig holds gauge animation settings
type ProgressConfig struct {
	DurationMS int        `mapstructure:"duration_ms"`
	Radius     float64    `mapstructure:"radius"`     // Ring radius, sets the stroke circumference
	FrameRate  int        `mapstructure:"frame_rate"` // Frames per second
	Style      GaugeStyle `mapstructure:"style"`
}

// VaultConfig holds completion settings
type VaultConfig struct {
	Profile string             `mapstructure:"profile"`
	Weights map[string]float64 `mapstructure:"weights"` // Category -> share of 100
	Targets map[string]int     `mapstructure:"targets"` // Category -> count considered done
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme     string `mapstructure:"theme"`
	AltScreen bool   `mapstructure:"alt_screen"`
}

// StoreConfig holds vault store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // Directory for vault.db; empty keeps data in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Progress: ProgressConfig{
			DurationMS: 1200,
			Radius:     54,
			FrameRate:  60,
			Style:      GaugeBoth,
		},
		Vault: VaultConfig{
			Profile: defaultProfile(),
		},
		UI: UIConfig{
			Theme:     "default",
			AltScreen: true,
		},
		Store: StoreConfig{
			Path: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "vaultmeter.log"),
			Level: "INFO",
		},
	}
}

// Duration returns the animation duration
func (p ProgressConfig) Duration() time.Duration {
	return time.Duration(p.DurationMS) * time.Millisecond
}

func defaultProfile() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "vaultmeter")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vaultmeter")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vaultmeter")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "vaultmeter")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return load(viper.GetViper(), defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration from the given directories only
func LoadConfigFrom(dirs ...string) (*Config, error) {
	return load(viper.New(), dirs...)
}

func load(v *viper.Viper, dirs ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Environment variable overrides (VAULTMETER_PROGRESS_DURATION_MS, ...)
	v.SetEnvPrefix("VAULTMETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnv(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv registers scalar keys so AutomaticEnv reaches them during Unmarshal
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"progress.duration_ms",
		"progress.radius",
		"progress.frame_rate",
		"progress.style",
		"vault.profile",
		"ui.theme",
		"ui.alt_screen",
		"store.path",
		"logging.file",
		"logging.level",
	} {
		v.BindEnv(key)
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Progress.DurationMS <= 0 {
		return fmt.Errorf("progress.duration_ms must be positive, got %d", c.Progress.DurationMS)
	}
	if c.Progress.Radius <= 0 {
		return fmt.Errorf("progress.radius must be positive, got %v", c.Progress.Radius)
	}
	if c.Progress.FrameRate <= 0 || c.Progress.FrameRate > 240 {
		return fmt.Errorf("progress.frame_rate must be in 1..240, got %d", c.Progress.FrameRate)
	}
	switch c.Progress.Style {
	case GaugeRing, GaugeBar, GaugeBoth:
	default:
		return fmt.Errorf("progress.style must be ring, bar or both, got %q", c.Progress.Style)
	}
	if strings.TrimSpace(c.Vault.Profile) == "" {
		return fmt.Errorf("vault.profile must not be empty")
	}
	return nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveTo(viper.GetViper(), defaultConfigPath(), cfg)
}

func saveTo(v *viper.Viper, configPath string, cfg *Config) error {
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("progress.duration_ms", cfg.Progress.DurationMS)
	v.Set("progress.radius", cfg.Progress.Radius)
	v.Set("progress.frame_rate", cfg.Progress.FrameRate)
	v.Set("progress.style", string(cfg.Progress.Style))

	v.Set("vault.profile", cfg.Vault.Profile)
	if len(cfg.Vault.Weights) > 0 {
		v.Set("vault.weights", cfg.Vault.Weights)
	}
	if len(cfg.Vault.Targets) > 0 {
		v.Set("vault.targets", cfg.Vault.Targets)
	}

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.alt_screen", cfg.UI.AltScreen)

	v.Set("store.path", cfg.Store.Path)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
