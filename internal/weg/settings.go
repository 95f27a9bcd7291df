package weg

import (
	"fmt"
	"strings"
	"unicode"
)

// HideMode is the auto-hide policy of the bar.
type HideMode string

const (
	HideAlways    HideMode = "always"
	HideNever     HideMode = "never"
	HideOnOverlap HideMode = "on-overlap"
)

// HideModes lists the modes in cycling order.
var HideModes = []HideMode{HideAlways, HideOnOverlap, HideNever}

// Next returns the following mode in HideModes order.
func (m HideMode) Next() HideMode {
	for i, mode := range HideModes {
		if mode == m {
			return HideModes[(i+1)%len(HideModes)]
		}
	}
	return HideOnOverlap
}

func ParseHideMode(s string) (HideMode, error) {
	switch HideMode(normalizeEnum(s)) {
	case HideAlways:
		return HideAlways, nil
	case HideNever:
		return HideNever, nil
	case HideOnOverlap:
		return HideOnOverlap, nil
	}
	return "", fmt.Errorf("invalid hide mode %q (expected always, never, on-overlap)", s)
}

// Mode controls how separators fill the bar.
type Mode string

const (
	ModeFullWidth  Mode = "full-width"
	ModeMinContent Mode = "min-content"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(normalizeEnum(s)) {
	case ModeFullWidth:
		return ModeFullWidth, nil
	case ModeMinContent:
		return ModeMinContent, nil
	}
	return "", fmt.Errorf("invalid mode %q (expected full-width, min-content)", s)
}

// Position is the screen edge the bar is docked to.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

var Positions = []Position{PositionTop, PositionBottom, PositionLeft, PositionRight}

func ParsePosition(s string) (Position, error) {
	p := Position(normalizeEnum(s))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid position %q (expected top, bottom, left, right)", s)
}

// Horizontal reports whether the bar runs along the x axis.
func (p Position) Horizontal() bool {
	return p == PositionTop || p == PositionBottom
}

// DisplayBehaviour selects how items are distributed across monitors.
type DisplayBehaviour string

const (
	BehaviourDefault          DisplayBehaviour = "default"
	BehaviourPrimaryScreenAll DisplayBehaviour = "primary-screen-all"
	BehaviourMinimal          DisplayBehaviour = "minimal"
)

var DisplayBehaviours = []DisplayBehaviour{BehaviourDefault, BehaviourPrimaryScreenAll, BehaviourMinimal}

func ParseDisplayBehaviour(s string) (DisplayBehaviour, error) {
	b := DisplayBehaviour(normalizeEnum(s))
	for _, known := range DisplayBehaviours {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid display behaviour %q (expected default, primary-screen-all, minimal)", s)
}

// Settings is the bar configuration the core reacts to.
type Settings struct {
	HideMode          HideMode         `json:"hide_mode"`
	Mode              Mode             `json:"mode"`
	Position          Position         `json:"position"`
	Size              int              `json:"size"`
	SpaceBetweenItems int              `json:"space_between_items"`
	VisibleSeparators bool             `json:"visible_separators"`
	Behaviour         DisplayBehaviour `json:"multitaskbar_item_visibility_behaviour"`
}

// DefaultSettings mirrors the defaults of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		HideMode:          HideOnOverlap,
		Mode:              ModeMinContent,
		Position:          PositionBottom,
		Size:              40,
		SpaceBetweenItems: 8,
		VisibleSeparators: false,
		Behaviour:         BehaviourDefault,
	}
}

// normalizeEnum accepts "OnOverlap", "on_overlap", "ON_OVERLAP" and
// "on overlap" alike.
func normalizeEnum(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '_' || r == ' ' || r == '-':
			r = '-'
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		if r == '-' && prev == '-' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.Trim(b.String(), "-")
}
