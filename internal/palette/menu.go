package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// ActivatePrefix marks rows that activate a bar item rather than run a
// menu action. The rest of the action is the item key.
const ActivatePrefix = "activate:"

const (
	backAction    = "__back__"
	submenuPrefix = "__submenu__:"
)

// Entry is a node of a palette menu tree.
type Entry struct {
	Label   string
	Action  string
	Icon    string
	Header  bool
	Divider bool
	Checked bool
	Submenu []Entry
}

// FromMenu converts a bar context menu into palette entries.
func FromMenu(items []weg.MenuItem) []Entry {
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if it.Separator {
			out = append(out, Entry{Label: "────────", Divider: true})
			continue
		}
		out = append(out, Entry{
			Label:   it.Label,
			Action:  it.Action,
			Checked: it.Checked,
			Submenu: FromMenu(it.Children),
		})
	}
	return out
}

// FromItems lists the bar items in drag order as activation entries.
func FromItems(b weg.Buckets) []Entry {
	var out []Entry
	for _, it := range b.Items() {
		if it.IsSeparator() {
			continue
		}
		label := it.DisplayName()
		if n := len(it.Opens); n > 0 {
			label += fmt.Sprintf("  (%d)", n)
		}
		icon := "application-x-executable"
		switch it.Kind {
		case weg.KindMedia:
			icon = "multimedia-player"
		case weg.KindStart:
			icon = "start-here"
		}
		out = append(out, Entry{Label: label, Action: ActivatePrefix + it.Key(), Icon: icon})
	}
	return out
}

// Pick shows entries level by level and returns the chosen leaf action.
// Choosing "← Back" or cancelling inside a submenu returns to its parent.
func Pick(b Backend, title string, entries []Entry, message string) (string, error) {
	return pickLevel(b, []string{title}, entries, message)
}

func pickLevel(b Backend, crumbs []string, entries []Entry, message string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("palette: no entries to show")
	}
	for {
		rows := make([]Row, 0, len(entries)+1)
		if len(crumbs) > 1 {
			rows = append(rows, Row{Label: "← Back", Action: backAction, Icon: "go-previous"})
		}
		for i, e := range entries {
			r := Row{Label: e.Label, Action: e.Action, Icon: e.Icon, Header: e.Header, Divider: e.Divider, Active: e.Checked}
			if len(e.Submenu) > 0 {
				r.Label += " →"
				r.Action = fmt.Sprintf("%s%d", submenuPrefix, i)
				if r.Icon == "" {
					r.Icon = "folder"
				}
			} else if e.Checked {
				r.Label = "✓ " + r.Label
			}
			rows = append(rows, r)
		}

		row, err := b.Show(crumbs[len(crumbs)-1], rows, message)
		if err != nil {
			return "", err
		}
		switch {
		case !row.selectable():
			// Launchers without non-selectable rows can return these.
			continue
		case row.Action == backAction:
			return "", ErrCancelled
		case strings.HasPrefix(row.Action, submenuPrefix):
			var idx int
			if _, err := fmt.Sscanf(strings.TrimPrefix(row.Action, submenuPrefix), "%d", &idx); err != nil ||
				idx < 0 || idx >= len(entries) || len(entries[idx].Submenu) == 0 {
				continue
			}
			action, err := pickLevel(b, append(crumbs, entries[idx].Label), entries[idx].Submenu, message)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return action, err
		case row.Action == "":
			continue
		}
		return row.Action, nil
	}
}
