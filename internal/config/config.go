package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"barstack/internal/errors"
	"barstack/internal/layout"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Chart  ChartConfig
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset loading settings
type DataConfig struct {
	ManifestPath string
	FetchTimeout time.Duration
}

// ChartConfig holds the responsive layout properties shared by every render
type ChartConfig struct {
	HeightRelativeToWidth float64
	BreakpointSmallScreen float64
	DefaultWidth          float64
	ResizeDebounce        time.Duration
	Palette               []string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// DefaultPalette is the orange two-tone scheme used for the stacked segments.
var DefaultPalette = layout.DefaultPalette

// LayoutProps returns the settings every chart layout is computed with.
func (c ChartConfig) LayoutProps() layout.Props {
	return layout.Props{
		HeightRelativeToWidth: c.HeightRelativeToWidth,
		BreakpointSmallScreen: c.BreakpointSmallScreen,
		Palette:               append([]string(nil), c.Palette...),
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: *loadServerConfig(),
		Data:   *loadDataConfig(),
		Chart:  *loadChartConfig(),
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		ManifestPath: getEnvOrDefault("DATASETS_MANIFEST", "datasets.yaml"),
		FetchTimeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 10*time.Second),
	}
}

func loadChartConfig() *ChartConfig {
	palette := DefaultPalette
	if value := os.Getenv("CHART_PALETTE"); value != "" {
		palette = splitList(value)
	}
	return &ChartConfig{
		HeightRelativeToWidth: getEnvFloatOrDefault("HEIGHT_RELATIVE_TO_WIDTH", 0.62),
		BreakpointSmallScreen: getEnvFloatOrDefault("BREAKPOINT_SMALL_SCREEN", 400),
		DefaultWidth:          getEnvFloatOrDefault("DEFAULT_WIDTH", 600),
		ResizeDebounce:        getEnvDurationOrDefault("RESIZE_DEBOUNCE", 200*time.Millisecond),
		Palette:               palette,
	}
}

func validateConfig(config *Config) error {
	if config.Data.ManifestPath == "" {
		return errors.ConfigInvalid("dataset manifest path is required")
	}
	if !(config.Chart.HeightRelativeToWidth > 0) || math.IsInf(config.Chart.HeightRelativeToWidth, 0) {
		return errors.ConfigInvalid("HEIGHT_RELATIVE_TO_WIDTH must be positive")
	}
	if config.Chart.BreakpointSmallScreen < 0 {
		return errors.ConfigInvalid("BREAKPOINT_SMALL_SCREEN must not be negative")
	}
	if !(config.Chart.DefaultWidth > 0) || math.IsInf(config.Chart.DefaultWidth, 0) {
		return errors.ConfigInvalid("DEFAULT_WIDTH must be positive")
	}
	if len(config.Chart.Palette) == 0 {
		return errors.ConfigInvalid("CHART_PALETTE must name at least one color")
	}
	if config.Data.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
