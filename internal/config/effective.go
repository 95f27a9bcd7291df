package config

import (
	"fmt"
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of DefaultConfig. Enum values are
// normalised, so "OnOverlap" and "on-overlap" are equivalent.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.HideMode != nil {
		m, err := weg.ParseHideMode(*raw.HideMode)
		if err != nil {
			return nil, &ValidationError{Path: "hide_mode", Err: err}
		}
		cfg.HideMode = m
	}
	if raw.Mode != nil {
		m, err := weg.ParseMode(*raw.Mode)
		if err != nil {
			return nil, &ValidationError{Path: "mode", Err: err}
		}
		cfg.Mode = m
	}
	if raw.Position != nil {
		p, err := weg.ParsePosition(*raw.Position)
		if err != nil {
			return nil, &ValidationError{Path: "position", Err: err}
		}
		cfg.Position = p
	}
	if raw.Behaviour != nil {
		b, err := weg.ParseDisplayBehaviour(*raw.Behaviour)
		if err != nil {
			return nil, &ValidationError{Path: "multitaskbar_item_visibility_behaviour", Err: err}
		}
		cfg.Behaviour = b
	}
	cfg.Size = derefInt(raw.Size, cfg.Size)
	cfg.SpaceBetweenItems = derefInt(raw.SpaceBetweenItems, cfg.SpaceBetweenItems)
	cfg.RefreshIntervalMs = derefInt(raw.RefreshIntervalMs, cfg.RefreshIntervalMs)
	if raw.VisibleSeparators != nil {
		cfg.VisibleSeparators = *raw.VisibleSeparators
	}
	if raw.Language != nil {
		cfg.Language = strings.TrimSpace(*raw.Language)
	}
	if raw.SurfaceClass != nil {
		cfg.SurfaceClass = strings.TrimSpace(*raw.SurfaceClass)
	}
	if raw.PinsFile != nil {
		cfg.PinsFile = strings.TrimSpace(*raw.PinsFile)
	}
	if raw.ToggleHideModeHotkey != nil {
		cfg.ToggleHideModeHotkey = strings.TrimSpace(*raw.ToggleHideModeHotkey)
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Logging != nil {
		if raw.Logging.File != nil {
			cfg.Logging.File = strings.TrimSpace(*raw.Logging.File)
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
