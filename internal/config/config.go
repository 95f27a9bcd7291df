package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/runtimepath"
	"github.com/luriusTM/Seelen-UI/internal/weg"
	"gopkg.in/yaml.v3"
)

// LoggingConfig controls the persistent log file mirrored from stderr.
type LoggingConfig struct {
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
	MaxFiles  int    `yaml:"max_files,omitempty"`
}

// Config holds the bar configuration.
type Config struct {
	HideMode             weg.HideMode         `yaml:"hide_mode"`
	Mode                 weg.Mode             `yaml:"mode"`
	Position             weg.Position         `yaml:"position"`
	Size                 int                  `yaml:"size"`
	SpaceBetweenItems    int                  `yaml:"space_between_items"`
	VisibleSeparators    bool                 `yaml:"visible_separators"`
	Behaviour            weg.DisplayBehaviour `yaml:"multitaskbar_item_visibility_behaviour"`
	Language             string               `yaml:"language"`
	SurfaceClass         string               `yaml:"surface_class"`
	RefreshIntervalMs    int                  `yaml:"refresh_interval_ms"`
	PinsFile             string               `yaml:"pins_file,omitempty"`
	ToggleHideModeHotkey string               `yaml:"toggle_hide_mode_hotkey"`
	Display              string               `yaml:"display,omitempty"`
	LogLevel             string               `yaml:"log_level"`
	Logging              LoggingConfig        `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	s := weg.DefaultSettings()
	return &Config{
		HideMode:             s.HideMode,
		Mode:                 s.Mode,
		Position:             s.Position,
		Size:                 s.Size,
		SpaceBetweenItems:    s.SpaceBetweenItems,
		VisibleSeparators:    s.VisibleSeparators,
		Behaviour:            s.Behaviour,
		Language:             "en",
		SurfaceClass:         "seelenweg",
		RefreshIntervalMs:    500,
		ToggleHideModeHotkey: "Mod4-Mod1-w", // Super+Alt+W
		LogLevel:             "info",
	}
}

// Settings returns the part of the configuration the bar core reacts to.
func (c *Config) Settings() weg.Settings {
	return weg.Settings{
		HideMode:          c.HideMode,
		Mode:              c.Mode,
		Position:          c.Position,
		Size:              c.Size,
		SpaceBetweenItems: c.SpaceBetweenItems,
		VisibleSeparators: c.VisibleSeparators,
		Behaviour:         c.Behaviour,
	}
}

// ApplySettings copies bar settings back into the configuration.
func (c *Config) ApplySettings(s weg.Settings) {
	c.HideMode = s.HideMode
	c.Mode = s.Mode
	c.Position = s.Position
	c.Size = s.Size
	c.SpaceBetweenItems = s.SpaceBetweenItems
	c.VisibleSeparators = s.VisibleSeparators
	c.Behaviour = s.Behaviour
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		dir, err := runtimepath.DataDir()
		if err != nil {
			dir = "."
		}
		cfg.File = filepath.Join(dir, "weg.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// GetPinsFile resolves the pins file, defaulting next to the config file.
func (c *Config) GetPinsFile() (string, error) {
	if c != nil && strings.TrimSpace(c.PinsFile) != "" {
		return expandHome(c.PinsFile)
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "pinned.yaml"), nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if _, err := weg.ParseHideMode(string(c.HideMode)); err != nil {
		return &ValidationError{Path: "hide_mode", Err: err}
	}
	if _, err := weg.ParseMode(string(c.Mode)); err != nil {
		return &ValidationError{Path: "mode", Err: err}
	}
	if _, err := weg.ParsePosition(string(c.Position)); err != nil {
		return &ValidationError{Path: "position", Err: err}
	}
	if _, err := weg.ParseDisplayBehaviour(string(c.Behaviour)); err != nil {
		return &ValidationError{Path: "multitaskbar_item_visibility_behaviour", Err: err}
	}
	if c.Size <= 0 || c.Size > 512 {
		return &ValidationError{Path: "size", Err: fmt.Errorf("size must be between 1 and 512")}
	}
	if c.SpaceBetweenItems < 0 {
		return &ValidationError{Path: "space_between_items", Err: fmt.Errorf("space_between_items must be >= 0")}
	}
	if c.RefreshIntervalMs < 50 {
		return &ValidationError{Path: "refresh_interval_ms", Err: fmt.Errorf("refresh_interval_ms must be >= 50")}
	}
	if strings.TrimSpace(c.SurfaceClass) == "" {
		return &ValidationError{Path: "surface_class", Err: fmt.Errorf("surface_class is required")}
	}
	if strings.TrimSpace(c.Language) == "" {
		return &ValidationError{Path: "language", Err: fmt.Errorf("language is required")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
