// Package palette shows bar menus in an external dmenu-style launcher
// (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without a choice.
var ErrCancelled = errors.New("palette cancelled")

// Row is one line of a palette.
type Row struct {
	Label   string
	Action  string
	Icon    string
	Header  bool // non-selectable section title
	Divider bool // non-selectable rule
	Active  bool // highlighted, e.g. the checked radio entry
}

func (r Row) selectable() bool { return !r.Header && !r.Divider }

// Backend shows rows and returns the one the user picked.
type Backend interface {
	Show(prompt string, rows []Row, message string) (Row, error)
}

// launchers in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend returns the launcher backend called name. "" and "auto" pick
// the first launcher found in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, l := range launchers {
			if _, err := exec.LookPath(l); err == nil {
				return newLauncher(l), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}
	for _, l := range launchers {
		if l != name {
			continue
		}
		if _, err := exec.LookPath(l); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", l)
		}
		return newLauncher(l), nil
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}
