package weg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownItem is returned when an operation references an item key
	// that is not present in any bucket.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownMonitor is returned when no bar exists for a monitor index.
	ErrUnknownMonitor = errors.New("unknown monitor")
)

// Kind discriminates the closed set of item variants.
type Kind string

const (
	KindPinned      Kind = "Pinned"
	KindTemporalApp Kind = "TemporalApp"
	KindMedia       Kind = "Media"
	KindStart       Kind = "Start"
	KindSeparator   Kind = "Separator"
)

// Separator ids recognised as bucket boundaries.
const (
	Separator1ID = "1"
	Separator2ID = "2"
)

// Ids the single-instance modules take when none is given.
const (
	MediaID = "media"
	StartID = "start"
)

// OpenedWindow is a live window attributed to an application item.
type OpenedWindow struct {
	ID                  uint32 `json:"id"`
	Title               string `json:"title"`
	PresentativeMonitor int    `json:"presentative_monitor"`
	Minimized           bool   `json:"minimized,omitempty"`
}

// Item is one slot on the bar. Only Pinned and TemporalApp items carry
// ExecutionCommand, Path and Opens.
type Item struct {
	Kind             Kind           `json:"type" yaml:"type"`
	ID               string         `json:"id" yaml:"id"`
	ExecutionCommand string         `json:"execution_command,omitempty" yaml:"execution_command,omitempty"`
	Path             string         `json:"path,omitempty" yaml:"path,omitempty"`
	Opens            []OpenedWindow `json:"opens,omitempty" yaml:"-"`
}

// Separator returns a synthetic separator item.
func Separator(id string) Item {
	return Item{Kind: KindSeparator, ID: id}
}

// Key is the identity of the item across all buckets. Media and Start
// without an id fall back to MediaID and StartID.
func (it Item) Key() string {
	if it.ID != "" {
		return it.ID
	}
	switch it.Kind {
	case KindMedia:
		return MediaID
	case KindStart:
		return StartID
	}
	return it.ExecutionCommand
}

// HasOpens reports whether the variant carries an opens field.
func (it Item) HasOpens() bool {
	return it.Kind == KindPinned || it.Kind == KindTemporalApp
}

func (it Item) IsSeparator() bool { return it.Kind == KindSeparator }

// Clone returns a copy that does not share the opens slice.
func (it Item) Clone() Item {
	if it.Opens != nil {
		opens := make([]OpenedWindow, len(it.Opens))
		copy(opens, it.Opens)
		it.Opens = opens
	}
	return it
}

// OpensOn returns the windows presented on the given monitor.
func (it Item) OpensOn(monitor int) []OpenedWindow {
	var out []OpenedWindow
	for _, w := range it.Opens {
		if w.PresentativeMonitor == monitor {
			out = append(out, w)
		}
	}
	return out
}

// DisplayName is a short human label for the item.
func (it Item) DisplayName() string {
	switch it.Kind {
	case KindMedia:
		return "Media"
	case KindStart:
		return "Start"
	case KindSeparator:
		return "|"
	}
	name := it.ExecutionCommand
	if name == "" {
		name = it.Path
	}
	if name == "" {
		return it.ID
	}
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	for _, ext := range []string{".exe", ".desktop", ".AppImage"} {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		return it.ID
	}
	return name
}

// Validate checks the variant-specific fields of a persisted item.
func (it Item) Validate() error {
	switch it.Kind {
	case KindPinned:
		if it.Key() == "" {
			return fmt.Errorf("pinned item needs id or execution_command")
		}
	case KindTemporalApp:
		if it.ID == "" {
			return fmt.Errorf("temporal app needs id")
		}
	case KindMedia, KindStart:
	case KindSeparator:
		return fmt.Errorf("separator %q cannot be stored", it.ID)
	case "":
		return fmt.Errorf("item %q has no type", it.ID)
	default:
		return fmt.Errorf("item %q has unknown type %q", it.ID, it.Kind)
	}
	return nil
}
