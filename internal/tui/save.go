package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// settingChange is one edited setting shown in the save preview.
type settingChange struct {
	Key string
	Old string
	New string
}

// diffSettings lists the settings that differ between a and b, in config
// file order.
func diffSettings(a, b weg.Settings) []settingChange {
	fields := []struct {
		key      string
		old, new string
	}{
		{"hide_mode", string(a.HideMode), string(b.HideMode)},
		{"mode", string(a.Mode), string(b.Mode)},
		{"position", string(a.Position), string(b.Position)},
		{"size", strconv.Itoa(a.Size), strconv.Itoa(b.Size)},
		{"space_between_items", strconv.Itoa(a.SpaceBetweenItems), strconv.Itoa(b.SpaceBetweenItems)},
		{"visible_separators", strconv.FormatBool(a.VisibleSeparators), strconv.FormatBool(b.VisibleSeparators)},
		{"multitaskbar_item_visibility_behaviour", string(a.Behaviour), string(b.Behaviour)},
	}
	var out []settingChange
	for _, f := range fields {
		if f.old != f.new {
			out = append(out, settingChange{Key: f.key, Old: f.old, New: f.new})
		}
	}
	return out
}

// saveSettings writes s into the config file at path. Other keys of the
// file are kept as loaded.
//
// Note: the effective config is written back, so comments and include
// structure of the original YAML are not preserved.
func saveSettings(path string, s weg.Settings) error {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	cfg := res.Config
	cfg.ApplySettings(s)
	return cfg.SaveTo(path)
}

func renderChanges(changes []settingChange, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	footStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	content := titleStyle.Render("Save Settings - Pending Changes") + "\n\n"
	for _, c := range changes {
		content += keyStyle.Render(c.Key+": ") + rmStyle.Render(c.Old) + " → " + addStyle.Render(c.New) + "\n"
	}
	content += "\n" + footStyle.Render("enter: save  esc: discard")

	boxW := width - 8
	if boxW > 80 {
		boxW = 80
	}
	if boxW < 30 {
		boxW = 30
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
}
