package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// menuEntry implements list.Item for one actionable context menu entry.
type menuEntry struct {
	group   string
	label   string
	action  string
	checked bool
}

func (e menuEntry) Title() string {
	prefix := "  "
	if e.checked {
		prefix = "✓ "
	}
	if e.group != "" {
		return prefix + e.group + " › " + e.label
	}
	return prefix + e.label
}

func (e menuEntry) Description() string { return e.action }
func (e menuEntry) FilterValue() string { return e.group + " " + e.label }

// menuEntries flattens a menu spec into its actionable leaves.
func menuEntries(spec weg.MenuSpec) []menuEntry {
	var out []menuEntry
	var walk func(items []weg.MenuItem, group string)
	walk = func(items []weg.MenuItem, group string) {
		for _, it := range items {
			switch {
			case it.Separator:
			case len(it.Children) > 0:
				walk(it.Children, it.Label)
			case it.Action != "":
				out = append(out, menuEntry{group: group, label: it.Label, action: it.Action, checked: it.Checked})
			}
		}
	}
	walk(spec.Items, "")
	return out
}

// MenuTab lists the bar context menu and runs the selected action.
type MenuTab struct {
	list   list.Model
	width  int
	height int
}

func NewMenuTab() MenuTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Context Menu"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return MenuTab{list: l}
}

// SetMenu replaces the listed entries, keeping the selection index.
func (mt *MenuTab) SetMenu(spec weg.MenuSpec) {
	entries := menuEntries(spec)
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, e)
	}
	idx := mt.list.Index()
	mt.list.SetItems(items)
	if idx < len(items) {
		mt.list.Select(idx)
	}
}

// Selected returns the highlighted action, if any.
func (mt MenuTab) Selected() (string, bool) {
	e, ok := mt.list.SelectedItem().(menuEntry)
	if !ok {
		return "", false
	}
	return e.action, true
}

func (mt MenuTab) Update(msg tea.Msg) (MenuTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		mt.width = ws.Width
		mt.height = ws.Height
		mt.list.SetSize(ws.Width-4, ws.Height-1)
		return mt, nil
	}
	var cmd tea.Cmd
	mt.list, cmd = mt.list.Update(msg)
	return mt, cmd
}

func (mt MenuTab) View() string {
	return lipgloss.NewStyle().Padding(0, 2).Render(mt.list.View())
}
