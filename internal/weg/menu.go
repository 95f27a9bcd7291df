package weg

import (
	"fmt"
	"strings"
)

// Translate resolves a message key to a localized label.
type Translate func(key string) string

// Menu actions understood by ApplyMenuAction implementations.
const (
	ActionHideMode         = "hide-mode"
	ActionBehaviour        = "behaviour"
	ActionPosition         = "position"
	ActionToggleSeparators = "toggle-separators"
	ActionToggleMedia      = "toggle-media"
	ActionToggleStart      = "toggle-start"
	ActionReload           = "reload"
)

// MenuItem is one entry of the bar context menu. Entries with children are
// submenus; entries with Separator set draw a divider.
type MenuItem struct {
	Key       string     `json:"key,omitempty"`
	Label     string     `json:"label,omitempty"`
	Action    string     `json:"action,omitempty"`
	Checked   bool       `json:"checked,omitempty"`
	Separator bool       `json:"separator,omitempty"`
	Children  []MenuItem `json:"children,omitempty"`
}

// MenuSpec is a renderer-agnostic context menu.
type MenuSpec struct {
	Items []MenuItem `json:"items"`
}

// MenuState is the state the menu reflects in its checked entries.
type MenuState struct {
	Settings Settings
	HasMedia bool
	HasStart bool
}

// MenuStateFor derives the menu state from settings and raw buckets.
func MenuStateFor(s Settings, b Buckets) MenuState {
	st := MenuState{Settings: s}
	for _, it := range b.Items() {
		switch it.Kind {
		case KindMedia:
			st.HasMedia = true
		case KindStart:
			st.HasStart = true
		}
	}
	return st
}

// ContextMenu builds the bar context menu.
func ContextMenu(t Translate, st MenuState) MenuSpec {
	if t == nil {
		t = func(key string) string { return key }
	}
	choice := func(key, action string, checked bool) MenuItem {
		return MenuItem{Key: key, Label: t(key), Action: action, Checked: checked}
	}

	var hide []MenuItem
	for _, m := range HideModes {
		hide = append(hide, choice("weg.menu.hide_mode."+string(m), ActionHideMode+":"+string(m), st.Settings.HideMode == m))
	}
	var behaviour []MenuItem
	for _, b := range DisplayBehaviours {
		behaviour = append(behaviour, choice("weg.menu.behaviour."+string(b), ActionBehaviour+":"+string(b), st.Settings.Behaviour == b))
	}
	var position []MenuItem
	for _, p := range Positions {
		position = append(position, choice("weg.menu.position."+string(p), ActionPosition+":"+string(p), st.Settings.Position == p))
	}

	return MenuSpec{Items: []MenuItem{
		choice("weg.menu.media", ActionToggleMedia, st.HasMedia),
		choice("weg.menu.start", ActionToggleStart, st.HasStart),
		{Separator: true},
		{Key: "weg.menu.hide_mode", Label: t("weg.menu.hide_mode"), Children: hide},
		{Key: "weg.menu.behaviour", Label: t("weg.menu.behaviour"), Children: behaviour},
		{Key: "weg.menu.position", Label: t("weg.menu.position"), Children: position},
		choice("weg.menu.separators", ActionToggleSeparators, st.Settings.VisibleSeparators),
		{Separator: true},
		choice("weg.menu.reload", ActionReload, false),
	}}
}

// MenuAction is a parsed action string such as "hide-mode:never".
type MenuAction struct {
	Name string
	Arg  string
}

func ParseMenuAction(s string) (MenuAction, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	a := MenuAction{Name: name, Arg: arg}
	switch name {
	case ActionHideMode, ActionBehaviour, ActionPosition:
		if arg == "" {
			return MenuAction{}, fmt.Errorf("menu action %q needs an argument", name)
		}
	case ActionToggleSeparators, ActionToggleMedia, ActionToggleStart, ActionReload:
		if arg != "" {
			return MenuAction{}, fmt.Errorf("menu action %q takes no argument", name)
		}
	default:
		return MenuAction{}, fmt.Errorf("unknown menu action %q", s)
	}
	return a, nil
}

// ApplySettings applies a settings-changing action to s. It reports false
// for actions that do not touch settings.
func (a MenuAction) ApplySettings(s *Settings) (bool, error) {
	switch a.Name {
	case ActionHideMode:
		m, err := ParseHideMode(a.Arg)
		if err != nil {
			return false, err
		}
		s.HideMode = m
	case ActionBehaviour:
		b, err := ParseDisplayBehaviour(a.Arg)
		if err != nil {
			return false, err
		}
		s.Behaviour = b
	case ActionPosition:
		p, err := ParsePosition(a.Arg)
		if err != nil {
			return false, err
		}
		s.Position = p
	case ActionToggleSeparators:
		s.VisibleSeparators = !s.VisibleSeparators
	default:
		return false, nil
	}
	return true, nil
}

// ToggleModule adds the media or start module, or removes it when present.
// Added modules go to the end of the right (media) or the front of the left
// (start) bucket.
func (s *Store) ToggleModule(kind Kind) error {
	if kind != KindMedia && kind != KindStart {
		return fmt.Errorf("cannot toggle %s items", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.buckets.Clone()
	for _, side := range Sides {
		dst := next.Side(side)
		for i, it := range *dst {
			if it.Kind == kind {
				*dst = append((*dst)[:i], (*dst)[i+1:]...)
				s.buckets = next
				return nil
			}
		}
	}
	if kind == KindMedia {
		next.Right = append(next.Right, Item{Kind: KindMedia, ID: MediaID})
	} else {
		next.Left = insertAt(next.Left, 0, Item{Kind: KindStart, ID: StartID})
	}
	s.buckets = next
	return nil
}
