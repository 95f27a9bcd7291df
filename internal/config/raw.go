package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawLoggingConfig struct {
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one YAML document before defaults are applied. Nil fields
// were not set by the file.
type RawConfig struct {
	Include              IncludeList       `yaml:"include"`
	HideMode             *string           `yaml:"hide_mode"`
	Mode                 *string           `yaml:"mode"`
	Position             *string           `yaml:"position"`
	Size                 *int              `yaml:"size"`
	SpaceBetweenItems    *int              `yaml:"space_between_items"`
	VisibleSeparators    *bool             `yaml:"visible_separators"`
	Behaviour            *string           `yaml:"multitaskbar_item_visibility_behaviour"`
	Language             *string           `yaml:"language"`
	SurfaceClass         *string           `yaml:"surface_class"`
	RefreshIntervalMs    *int              `yaml:"refresh_interval_ms"`
	PinsFile             *string           `yaml:"pins_file"`
	ToggleHideModeHotkey *string           `yaml:"toggle_hide_mode_hotkey"`
	Display              *string           `yaml:"display"`
	LogLevel             *string           `yaml:"log_level"`
	Logging              *RawLoggingConfig `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.HideMode != nil {
		out.HideMode = overlay.HideMode
	}
	if overlay.Mode != nil {
		out.Mode = overlay.Mode
	}
	if overlay.Position != nil {
		out.Position = overlay.Position
	}
	if overlay.Size != nil {
		out.Size = overlay.Size
	}
	if overlay.SpaceBetweenItems != nil {
		out.SpaceBetweenItems = overlay.SpaceBetweenItems
	}
	if overlay.VisibleSeparators != nil {
		out.VisibleSeparators = overlay.VisibleSeparators
	}
	if overlay.Behaviour != nil {
		out.Behaviour = overlay.Behaviour
	}
	if overlay.Language != nil {
		out.Language = overlay.Language
	}
	if overlay.SurfaceClass != nil {
		out.SurfaceClass = overlay.SurfaceClass
	}
	if overlay.RefreshIntervalMs != nil {
		out.RefreshIntervalMs = overlay.RefreshIntervalMs
	}
	if overlay.PinsFile != nil {
		out.PinsFile = overlay.PinsFile
	}
	if overlay.ToggleHideModeHotkey != nil {
		out.ToggleHideModeHotkey = overlay.ToggleHideModeHotkey
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			merged.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &merged
	}

	return out
}
