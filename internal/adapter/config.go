package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Account AccountConfig `mapstructure:"account"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AccountConfig tunes the local account backend
type AccountConfig struct {
	Latency         time.Duration `mapstructure:"latency"`           // Simulated round-trip per backend call
	SyncFailureRate float64       `mapstructure:"sync_failure_rate"` // 0..1, fraction of syncs that fail
}

// StorageConfig holds settings store configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // Empty keeps settings in memory
}

// UIConfig holds UI configuration
type UIConfig struct {
	SpinnerInterval time.Duration `mapstructure:"spinner_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Account: AccountConfig{
			Latency:         800 * time.Millisecond,
			SyncFailureRate: 0,
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		UI: UIConfig{
			SpinnerInterval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vrsettings", "vrsettings.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vrsettings", "vrsettings.log")
	}
}

// defaultDataPath returns the default settings database directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "vrsettings", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vrsettings", "data")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vrsettings")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "vrsettings")
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(cfg *Config) {
	viper.SetDefault("account.latency", cfg.Account.Latency)
	viper.SetDefault("account.sync_failure_rate", cfg.Account.SyncFailureRate)
	viper.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	viper.SetDefault("ui.spinner_interval", cfg.UI.SpinnerInterval)
	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	viper.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(cfg)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides (VRSETTINGS_LOGGING_LEVEL, ...)
	viper.SetEnvPrefix("VRSETTINGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the backend and UI cannot work with
func (c *Config) Validate() error {
	if c.Account.Latency < 0 {
		return fmt.Errorf("account.latency must not be negative, got %s", c.Account.Latency)
	}
	if c.Account.SyncFailureRate < 0 || c.Account.SyncFailureRate > 1 {
		return fmt.Errorf("account.sync_failure_rate must be within [0, 1], got %g", c.Account.SyncFailureRate)
	}
	if c.UI.SpinnerInterval <= 0 {
		return fmt.Errorf("ui.spinner_interval must be positive, got %s", c.UI.SpinnerInterval)
	}
	return nil
}

// SaveConfig writes the configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("account.latency", cfg.Account.Latency.String())
	viper.Set("account.sync_failure_rate", cfg.Account.SyncFailureRate)

	viper.Set("storage.data_dir", cfg.Storage.DataDir)

	viper.Set("ui.spinner_interval", cfg.UI.SpinnerInterval.String())

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)
	viper.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	viper.Set("logging.max_backups", cfg.Logging.MaxBackups)
	viper.Set("logging.max_age_days", cfg.Logging.MaxAgeDays)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigFilePath returns the path SaveConfig writes to
func ConfigFilePath() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}
