package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the top-level keys of the config file plus
// logging.file, logging.max_size_mb and logging.max_files. "pins_file"
// reports the resolved path.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "logging" {
		logging := cfg.GetLoggingConfig()
		if len(parts) == 1 {
			return logging, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "file":
			return logging.File, nil
		case "max_size_mb":
			return logging.MaxSizeMB, nil
		case "max_files":
			return logging.MaxFiles, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch path {
	case "hide_mode":
		return string(cfg.HideMode), nil
	case "mode":
		return string(cfg.Mode), nil
	case "position":
		return string(cfg.Position), nil
	case "size":
		return cfg.Size, nil
	case "space_between_items":
		return cfg.SpaceBetweenItems, nil
	case "visible_separators":
		return cfg.VisibleSeparators, nil
	case "multitaskbar_item_visibility_behaviour":
		return string(cfg.Behaviour), nil
	case "language":
		return cfg.Language, nil
	case "surface_class":
		return cfg.SurfaceClass, nil
	case "refresh_interval_ms":
		return cfg.RefreshIntervalMs, nil
	case "pins_file":
		return cfg.GetPinsFile()
	case "toggle_hide_mode_hotkey":
		return cfg.ToggleHideModeHotkey, nil
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
