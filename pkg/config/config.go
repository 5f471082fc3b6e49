// Package config holds the tunables of the sampling engine.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srodi/proclens/pkg/alert"
	"github.com/srodi/proclens/pkg/group"
)

// DefaultInterval is the nominal tick length.
const DefaultInterval = time.Second

// Environment variables read by NewConfig.
const (
	EnvInterval     = "PROCLENS_INTERVAL"
	EnvCPUAlert     = "PROCLENS_CPU_ALERT"
	EnvMemAlertMB   = "PROCLENS_MEM_ALERT_MB"
	EnvAlertTrigger = "PROCLENS_ALERT_TRIGGER"
	EnvAlertTimeout = "PROCLENS_ALERT_TIMEOUT"
	EnvCatalog      = "PROCLENS_CATALOG"
)

// Config holds application configuration
type Config struct {
	Interval time.Duration `yaml:"interval"`

	// Alerting
	CPUAlertThreshold float64       `yaml:"cpuAlertThreshold"` // percent
	MemoryAlertMB     float64       `yaml:"memoryAlertMB"`
	AlertTriggerCount int           `yaml:"alertTriggerCount"`
	AlertTimeout      time.Duration `yaml:"alertTimeout"`

	// Grouping
	HighCPUThreshold float64 `yaml:"highCpuThreshold"` // percent
	HighMemoryMB     float64 `yaml:"highMemoryMB"`
	CatalogPath      string  `yaml:"catalog"` // empty selects the built-in catalog

	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new configuration with defaults, then applies
// environment overrides.
func NewConfig() *Config {
	a := alert.DefaultConfig()
	t := group.DefaultThresholds()
	return &Config{
		Interval:          getEnvDuration(EnvInterval, DefaultInterval),
		CPUAlertThreshold: getEnvFloat(EnvCPUAlert, a.CPUThreshold),
		MemoryAlertMB:     getEnvFloat(EnvMemAlertMB, a.MemoryThreshold),
		AlertTriggerCount: getEnvInt(EnvAlertTrigger, a.TriggerCount),
		AlertTimeout:      getEnvDuration(EnvAlertTimeout, a.Timeout),
		HighCPUThreshold:  t.HighCPU,
		HighMemoryMB:      t.HighMemoryMB,
		CatalogPath:       os.Getenv(EnvCatalog),
	}
}

// LoadFile overlays the keys present in a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decoding config %s: %w", path, err)
	}
	return nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.CPUAlertThreshold < 0 || c.CPUAlertThreshold > 100 {
		return fmt.Errorf("cpu alert threshold must be within 0-100, got %.1f", c.CPUAlertThreshold)
	}
	if c.HighCPUThreshold < 0 || c.HighCPUThreshold > 100 {
		return fmt.Errorf("high cpu threshold must be within 0-100, got %.1f", c.HighCPUThreshold)
	}
	if c.MemoryAlertMB <= 0 || c.HighMemoryMB <= 0 {
		return fmt.Errorf("memory thresholds must be positive")
	}
	if c.AlertTriggerCount < 1 {
		return fmt.Errorf("alert trigger count must be at least 1")
	}
	if c.AlertTimeout < 0 {
		return fmt.Errorf("alert timeout must not be negative")
	}
	return nil
}

// Alert returns the alert detector settings.
func (c *Config) Alert() alert.Config {
	return alert.Config{
		CPUThreshold:    c.CPUAlertThreshold,
		MemoryThreshold: c.MemoryAlertMB,
		TriggerCount:    c.AlertTriggerCount,
		Timeout:         c.AlertTimeout,
	}
}

// Thresholds returns the resource group bounds.
func (c *Config) Thresholds() group.Thresholds {
	t := group.DefaultThresholds()
	t.HighCPU = c.HighCPUThreshold
	t.HighMemoryMB = c.HighMemoryMB
	return t
}

// Catalog loads the configured catalog, or the built-in one.
func (c *Config) Catalog() (*group.Catalog, error) {
	if c.CatalogPath == "" {
		return group.DefaultCatalog(), nil
	}
	return group.LoadCatalog(c.CatalogPath)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
