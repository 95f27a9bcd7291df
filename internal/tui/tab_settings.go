package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

type settingsPhase int

const (
	settingsDisplay settingsPhase = iota
	settingsEditing
	settingsConfirm
)

// settingsSavedMsg reports the outcome of writing the config file.
type settingsSavedMsg struct {
	err error
}

// SettingsTab edits bar settings with a huh form and writes them to the
// config file.
type SettingsTab struct {
	configPath string
	current    weg.Settings
	pending    weg.Settings
	changes    []settingChange
	phase      settingsPhase
	form       *huh.Form
	message    string

	// Form-bound values (strings for huh, converted on submit)
	fHideMode   string
	fMode       string
	fPosition   string
	fBehaviour  string
	fSize       string
	fSpace      string
	fSeparators bool

	width  int
	height int
}

func NewSettingsTab(configPath string) SettingsTab {
	return SettingsTab{configPath: configPath, current: weg.DefaultSettings()}
}

// SetSettings updates the displayed settings unless an edit is in progress.
func (s *SettingsTab) SetSettings(cur weg.Settings) {
	if s.phase == settingsDisplay {
		s.current = cur
	}
}

// Capturing reports whether the tab consumes all key input.
func (s SettingsTab) Capturing() bool {
	return s.phase != settingsDisplay
}

func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil
	case settingsSavedMsg:
		if msg.err != nil {
			s.message = "Error: " + msg.err.Error()
		} else {
			s.current = s.pending
			s.message = "Settings saved"
		}
		return s, nil
	}

	switch s.phase {
	case settingsEditing:
		return s.updateEditing(msg)
	case settingsConfirm:
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "enter", "y":
				s.phase = settingsDisplay
				path, pending := s.configPath, s.pending
				return s, func() tea.Msg {
					return settingsSavedMsg{err: saveSettings(path, pending)}
				}
			case "esc", "n":
				s.phase = settingsDisplay
				s.message = "Changes discarded"
			}
		}
		return s, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "e" {
		s.startEditing()
		return s, s.form.Init()
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		s.phase = settingsDisplay
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.form = nil
		next, err := s.formSettings()
		if err != nil {
			s.phase = settingsDisplay
			s.message = "Error: " + err.Error()
			return s, nil
		}
		s.pending = next
		s.changes = diffSettings(s.current, next)
		if len(s.changes) == 0 {
			s.phase = settingsDisplay
			s.message = "No changes to save"
			return s, nil
		}
		s.phase = settingsConfirm
		return s, nil
	}
	return s, cmd
}

func (s *SettingsTab) startEditing() {
	cur := s.current
	s.fHideMode = string(cur.HideMode)
	s.fMode = string(cur.Mode)
	s.fPosition = string(cur.Position)
	s.fBehaviour = string(cur.Behaviour)
	s.fSize = strconv.Itoa(cur.Size)
	s.fSpace = strconv.Itoa(cur.SpaceBetweenItems)
	s.fSeparators = cur.VisibleSeparators
	s.message = ""

	options := func(values ...string) []huh.Option[string] {
		out := make([]huh.Option[string], 0, len(values))
		for _, v := range values {
			out = append(out, huh.NewOption(v, v))
		}
		return out
	}
	var hideModes, positions, behaviours []string
	for _, m := range weg.HideModes {
		hideModes = append(hideModes, string(m))
	}
	for _, p := range weg.Positions {
		positions = append(positions, string(p))
	}
	for _, b := range weg.DisplayBehaviours {
		behaviours = append(behaviours, string(b))
	}

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("hide_mode").
				Title("Hide Mode").
				Description("When the bar gets out of the way").
				Options(options(hideModes...)...).
				Value(&s.fHideMode),
			huh.NewSelect[string]().
				Key("position").
				Title("Position").
				Description("Screen edge the bar is docked to").
				Options(options(positions...)...).
				Value(&s.fPosition),
			huh.NewSelect[string]().
				Key("mode").
				Title("Mode").
				Description("full-width stretches the separators across the edge").
				Options(options(string(weg.ModeMinContent), string(weg.ModeFullWidth))...).
				Value(&s.fMode),
			huh.NewSelect[string]().
				Key("behaviour").
				Title("Items On Other Monitors").
				Options(options(behaviours...)...).
				Value(&s.fBehaviour),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("size").
				Title("Item Size").
				Description("Pixels").
				Validate(positiveInt).
				Value(&s.fSize),
			huh.NewInput().
				Key("space_between_items").
				Title("Space Between Items").
				Description("Pixels").
				Validate(nonNegativeInt).
				Value(&s.fSpace),
			huh.NewConfirm().
				Key("visible_separators").
				Title("Show Separators").
				Value(&s.fSeparators),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.phase = settingsEditing
}

func (s SettingsTab) formSettings() (weg.Settings, error) {
	next := s.current
	var err error
	if next.HideMode, err = weg.ParseHideMode(s.fHideMode); err != nil {
		return next, err
	}
	if next.Mode, err = weg.ParseMode(s.fMode); err != nil {
		return next, err
	}
	if next.Position, err = weg.ParsePosition(s.fPosition); err != nil {
		return next, err
	}
	if next.Behaviour, err = weg.ParseDisplayBehaviour(s.fBehaviour); err != nil {
		return next, err
	}
	if next.Size, err = strconv.Atoi(strings.TrimSpace(s.fSize)); err != nil {
		return next, fmt.Errorf("size: %w", err)
	}
	if next.SpaceBetweenItems, err = strconv.Atoi(strings.TrimSpace(s.fSpace)); err != nil {
		return next, fmt.Errorf("space_between_items: %w", err)
	}
	next.VisibleSeparators = s.fSeparators
	return next, nil
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func nonNegativeInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("must be zero or more")
	}
	return nil
}

func (s SettingsTab) View() string {
	style := lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2)

	switch s.phase {
	case settingsEditing:
		if s.form != nil {
			header := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render("Editing Bar Settings") +
				lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  (esc to cancel)")
			return style.Render(header + "\n\n" + s.form.View())
		}
	case settingsConfirm:
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, renderChanges(s.changes, s.width))
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(26).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	cur := s.current
	lines := []string{
		row("Hide Mode", string(cur.HideMode)),
		row("Position", string(cur.Position)),
		row("Mode", string(cur.Mode)),
		row("Items On Other Monitors", string(cur.Behaviour)),
		"",
		row("Item Size", strconv.Itoa(cur.Size)+"px"),
		row("Space Between Items", strconv.Itoa(cur.SpaceBetweenItems)+"px"),
		row("Show Separators", strconv.FormatBool(cur.VisibleSeparators)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	if s.message != "" {
		lines = append(lines, "", "  "+s.message)
	}
	return style.Render(strings.Join(lines, "\n"))
}
