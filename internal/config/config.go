package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds every tunable for talking to the router. It is loaded once
// at startup and not mutated afterwards, except for the explicit CLI flag
// overrides applied immediately after Load.
type Config struct {
	TargetNetwork       string `mapstructure:"target_network"`
	RouterURL           string `mapstructure:"router_url"`
	AdminURL            string `mapstructure:"admin_url"`
	Timeout             int    `mapstructure:"timeout"` // seconds
	ServiceName         string `mapstructure:"service_name"`
	Headless            bool   `mapstructure:"headless"`
	RetryAttempts       int    `mapstructure:"retry_attempts"`
	RetryDelay          int    `mapstructure:"retry_delay"` // seconds
	EnableNotifications bool   `mapstructure:"enable_notifications"`
	DebugMode           bool   `mapstructure:"debug_mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TargetNetwork: "1_lemonlemon_1",
		RouterURL:     "https://routerlogin.net/",
		AdminURL:      "https://routerlogin.net/adv_index.htm",
		Timeout:       10,
		ServiceName:   "router_admin",
		Headless:      false,
		RetryAttempts: 3,
		RetryDelay:    2,
	}
}

// DefaultPath is the config file location used when --config is not given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".radioctl.yaml"
	}
	return filepath.Join(home, ".radioctl.yaml")
}

var knownKeys = []string{
	"target_network", "router_url", "admin_url", "timeout", "service_name",
	"headless", "retry_attempts", "retry_delay", "enable_notifications",
	"debug_mode",
}

// Load reads the YAML file at configPath. A missing file yields defaults.
// Fields with the wrong type or an out-of-range value are dropped with a
// warning and the default substituted; unknown keys are warned about and
// ignored.
func Load(configPath string, logger *logrus.Logger) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debugf("No config file at %s, using defaults", configPath)
		return &cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	known := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		known[k] = true
	}
	for _, k := range v.AllKeys() {
		if !known[k] {
			logger.Warnf("Unknown config key %q ignored", k)
		}
	}

	stringField(v, logger, "target_network", &cfg.TargetNetwork)
	stringField(v, logger, "router_url", &cfg.RouterURL)
	stringField(v, logger, "admin_url", &cfg.AdminURL)
	intField(v, logger, "timeout", 1, &cfg.Timeout)
	stringField(v, logger, "service_name", &cfg.ServiceName)
	boolField(v, logger, "headless", &cfg.Headless)
	intField(v, logger, "retry_attempts", 1, &cfg.RetryAttempts)
	intField(v, logger, "retry_delay", 0, &cfg.RetryDelay)
	boolField(v, logger, "enable_notifications", &cfg.EnableNotifications)
	boolField(v, logger, "debug_mode", &cfg.DebugMode)

	return &cfg, nil
}

// Save writes cfg back out as YAML, mirroring the key set Load reads.
func Save(configPath string, cfg *Config) error {
	v := viper.New()
	v.Set("target_network", cfg.TargetNetwork)
	v.Set("router_url", cfg.RouterURL)
	v.Set("admin_url", cfg.AdminURL)
	v.Set("timeout", cfg.Timeout)
	v.Set("service_name", cfg.ServiceName)
	v.Set("headless", cfg.Headless)
	v.Set("retry_attempts", cfg.RetryAttempts)
	v.Set("retry_delay", cfg.RetryDelay)
	v.Set("enable_notifications", cfg.EnableNotifications)
	v.Set("debug_mode", cfg.DebugMode)
	return v.WriteConfigAs(configPath)
}

func stringField(v *viper.Viper, logger *logrus.Logger, key string, dst *string) {
	if !v.IsSet(key) {
		return
	}
	val, err := cast.ToStringE(v.Get(key))
	if err != nil || val == "" {
		logger.Warnf("Invalid value for %q (%v), using default %q", key, v.Get(key), *dst)
		return
	}
	*dst = val
}

func intField(v *viper.Viper, logger *logrus.Logger, key string, min int, dst *int) {
	if !v.IsSet(key) {
		return
	}
	val, err := cast.ToIntE(v.Get(key))
	if err != nil || val < min {
		logger.Warnf("Invalid value for %q (%v), using default %d", key, v.Get(key), *dst)
		return
	}
	*dst = val
}

func boolField(v *viper.Viper, logger *logrus.Logger, key string, dst *bool) {
	if !v.IsSet(key) {
		return
	}
	val, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		logger.Warnf("Invalid value for %q (%v), using default %t", key, v.Get(key), *dst)
		return
	}
	*dst = val
}
