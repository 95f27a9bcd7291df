package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luriusTM/Seelen-UI/internal/daemon"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Daemon is the part of the IPC client the TUI drives.
type Daemon interface {
	GetState(monitor int) (*daemon.Snapshot, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetMenu(language string) (weg.MenuSpec, error)
	Reorder(monitor int, items []string) (*ipc.ReorderData, error)
	MenuAction(action string) error
	Activate(monitor int, itemID string) error
	Pin(itemID string) error
	Unpin(itemID string) error
	SetFocus(monitor int, focused bool) error
	ViewChanged(monitor int, itemID string, open bool) error
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

const refreshInterval = time.Second

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type tickMsg struct{}

// snapshotMsg carries one round of daemon state.
type snapshotMsg struct {
	snap     *daemon.Snapshot
	monitors []daemon.Monitor
	menu     weg.MenuSpec
	err      error
}

// actionDoneMsg reports a finished daemon call.
type actionDoneMsg struct {
	text    string
	err     error
	reorder bool
}

// model is the root bubbletea model for the TUI.
type model struct {
	client     Daemon
	language   string
	configPath string

	monitor  int
	monitors []daemon.Monitor

	activeTab   Tab
	menuTab     MenuTab
	settingsTab SettingsTab
	help        help.Model

	snap       *daemon.Snapshot
	seq        []weg.Item
	cursor     int
	drag       *dragSession
	committing bool
	previewKey string

	connected bool
	status    string

	width  int
	height int
}

func newModel(client Daemon, configPath, language string, monitor int) model {
	return model{
		client:      client,
		language:    language,
		configPath:  configPath,
		monitor:     monitor,
		menuTab:     NewMenuTab(),
		settingsTab: NewSettingsTab(configPath),
		help:        help.New(),
	}
}

func fetch(client Daemon, monitor int, language string) tea.Cmd {
	return func() tea.Msg {
		snap, err := client.GetState(monitor)
		if err != nil {
			return snapshotMsg{err: err}
		}
		msg := snapshotMsg{snap: snap}
		if mons, err := client.GetMonitors(); err == nil {
			msg.monitors = mons.Monitors
		}
		if menu, err := client.GetMenu(language); err == nil {
			msg.menu = menu
		}
		return msg
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetch(m.client, m.monitor, m.language), tick())
}

func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.menuTab, _ = m.menuTab.Update(sub)
		m.settingsTab, _ = m.settingsTab.Update(sub)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetch(m.client, m.monitor, m.language), tick())

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil

	case actionDoneMsg:
		if msg.reorder {
			m.committing = false
		}
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else if msg.text != "" {
			m.status = msg.text
		}
		return m, fetch(m.client, m.monitor, m.language)

	case settingsSavedMsg:
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		if msg.err != nil {
			return m, cmd
		}
		client := m.client
		return m, tea.Batch(cmd, func() tea.Msg {
			return actionDoneMsg{err: client.Reload()}
		})

	case tea.FocusMsg:
		return m, m.focusCmd(true)

	case tea.BlurMsg:
		return m, m.focusCmd(false)
	}

	if m.activeTab == TabSettings && m.settingsTab.Capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			cmd := m.quit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.delegate(msg)
	}

	switch {
	case key.Matches(km, keys.Quit):
		cmd := m.quit()
		return m, cmd
	case key.Matches(km, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(km, keys.Tab):
		if m.drag != nil {
			return m, nil
		}
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	}
	if t, ok := tabForKey(km.String()); ok && m.drag == nil {
		m.activeTab = t
		return m, nil
	}

	switch m.activeTab {
	case TabBar:
		return m.updateBar(km)
	case TabMenu:
		if key.Matches(km, keys.Activate) {
			action, ok := m.menuTab.Selected()
			if !ok {
				return m, nil
			}
			client := m.client
			return m, func() tea.Msg {
				return actionDoneMsg{text: "Ran " + action, err: client.MenuAction(action)}
			}
		}
	}
	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabMenu:
		m.menuTab, cmd = m.menuTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

func (m *model) applySnapshot(msg snapshotMsg) {
	if msg.err != nil {
		m.connected = false
		m.status = msg.err.Error()
		return
	}
	m.connected = true
	m.snap = msg.snap
	if msg.monitors != nil {
		m.monitors = msg.monitors
	}
	m.menuTab.SetMenu(msg.menu)
	m.settingsTab.SetSettings(msg.snap.Settings)

	// The drag sequence stays authoritative until the reorder is committed.
	if m.drag != nil || m.committing {
		return
	}
	m.seq = weg.Flatten(msg.snap.Items)
	if m.cursor >= len(m.seq) {
		m.cursor = len(m.seq) - 1
	}
	if m.cursor < 0 || m.seq[m.cursor].IsSeparator() {
		m.cursor = m.nextItem(m.cursor, 1)
	}
}

func (m model) updateBar(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(km, keys.Prev), key.Matches(km, keys.Next):
		delta := 1
		if key.Matches(km, keys.Prev) {
			delta = -1
		}
		if m.drag != nil {
			m.cursor = m.drag.move(delta)
			m.seq = m.drag.seq
			return m, nil
		}
		m.cursor = m.nextItem(m.cursor, delta)
		cmd := m.closePreview()
		return m, cmd

	case key.Matches(km, keys.Grab):
		if m.drag == nil {
			d, ok := startDrag(m.seq, m.cursor)
			if !ok {
				return m, nil
			}
			m.drag = d
			m.status = "Moving " + d.seq[d.held].DisplayName()
			cmd := m.closePreview()
			return m, cmd
		}
		order := m.drag.keys()
		m.seq = m.drag.seq
		m.drag = nil
		m.committing = true
		client, monitor := m.client, m.monitor
		return m, func() tea.Msg {
			data, err := client.Reorder(monitor, order)
			if err != nil {
				return actionDoneMsg{err: err, reorder: true}
			}
			text := "Order saved"
			if !data.Report.Clean() {
				text = "Order saved: " + data.Report.String()
			}
			return actionDoneMsg{text: text, reorder: true}
		}

	case key.Matches(km, keys.Cancel):
		if m.drag != nil {
			m.drag = nil
			m.status = "Move cancelled"
			if m.snap != nil {
				m.seq = weg.Flatten(m.snap.Items)
			}
		}
		cmd := m.closePreview()
		return m, cmd
	}

	if m.drag != nil {
		return m, nil
	}
	it, ok := m.current()

	switch {
	case key.Matches(km, keys.Activate):
		if !ok {
			return m, nil
		}
		client, monitor, id := m.client, m.monitor, it.Key()
		return m, func() tea.Msg {
			return actionDoneMsg{text: "Activated " + it.DisplayName(), err: client.Activate(monitor, id)}
		}

	case key.Matches(km, keys.Pin):
		if !ok {
			return m, nil
		}
		client, id := m.client, it.Key()
		if it.Kind == weg.KindPinned {
			return m, func() tea.Msg {
				return actionDoneMsg{text: "Unpinned " + it.DisplayName(), err: client.Unpin(id)}
			}
		}
		return m, func() tea.Msg {
			return actionDoneMsg{text: "Pinned " + it.DisplayName(), err: client.Pin(id)}
		}

	case key.Matches(km, keys.Copy):
		if !ok {
			return m, nil
		}
		text := it.ExecutionCommand
		if text == "" {
			text = it.Path
		}
		if text == "" {
			m.status = it.DisplayName() + " has no command"
			return m, nil
		}
		name := it.DisplayName()
		return m, func() tea.Msg {
			return actionDoneMsg{text: "Copied " + name + " command", err: writeClipboard(text)}
		}

	case key.Matches(km, keys.Preview):
		if m.previewKey != "" {
			cmd := m.closePreview()
			return m, cmd
		}
		if !ok || len(it.Opens) == 0 {
			return m, nil
		}
		m.previewKey = it.Key()
		return m, m.viewCmd(it.Key(), true)

	case key.Matches(km, keys.Monitor):
		if len(m.monitors) < 2 {
			return m, nil
		}
		closeCmd := m.closePreview()
		m.monitor = (m.monitor + 1) % len(m.monitors)
		m.cursor = 0
		return m, tea.Batch(closeCmd, fetch(m.client, m.monitor, m.language))

	case key.Matches(km, keys.Reload):
		client := m.client
		return m, func() tea.Msg {
			return actionDoneMsg{text: "Reloaded", err: client.Reload()}
		}
	}
	return m, nil
}

// nextItem returns the index of the next non-separator item from i in
// direction delta, or i when there is none.
func (m model) nextItem(i, delta int) int {
	for j := i + delta; j >= 0 && j < len(m.seq); j += delta {
		if !m.seq[j].IsSeparator() {
			return j
		}
	}
	if i >= 0 && i < len(m.seq) && !m.seq[i].IsSeparator() {
		return i
	}
	for j := range m.seq {
		if !m.seq[j].IsSeparator() {
			return j
		}
	}
	return -1
}

func (m model) current() (weg.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.seq) || m.seq[m.cursor].IsSeparator() {
		return weg.Item{}, false
	}
	return m.seq[m.cursor], true
}

func (m model) focusCmd(focused bool) tea.Cmd {
	client, monitor := m.client, m.monitor
	return func() tea.Msg {
		if err := client.SetFocus(monitor, focused); err != nil {
			return actionDoneMsg{err: err}
		}
		return nil
	}
}

func (m model) viewCmd(itemKey string, open bool) tea.Cmd {
	client, monitor := m.client, m.monitor
	return func() tea.Msg {
		if err := client.ViewChanged(monitor, itemKey, open); err != nil {
			return actionDoneMsg{err: err}
		}
		return nil
	}
}

// closePreview closes the window list if one is open.
func (m *model) closePreview() tea.Cmd {
	if m.previewKey == "" {
		return nil
	}
	k := m.previewKey
	m.previewKey = ""
	return m.viewCmd(k, false)
}

func (m *model) quit() tea.Cmd {
	if m.previewKey == "" {
		return tea.Quit
	}
	// Release the open view before exiting so the bar can hide again.
	return tea.Sequence(m.closePreview(), tea.Quit)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.statusParts(), m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(keys))

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabBar:
		content = lipgloss.NewStyle().Height(contentHeight).Render(m.barView(contentHeight))
	case TabMenu:
		content = m.menuTab.View()
	case TabSettings:
		content = m.settingsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}

func (m model) statusParts() []string {
	if m.snap == nil {
		return nil
	}
	v := m.snap.Visibility
	name := m.snap.Name
	if name == "" {
		name = fmt.Sprintf("#%d", m.monitor)
	}
	state := "shown"
	switch {
	case v.Delayed:
		state = "hiding"
	case v.Hidden:
		state = "hidden"
	}
	return []string{
		"monitor " + name,
		"hide " + string(v.HideMode),
		state,
	}
}

func (m model) barView(height int) string {
	if m.snap == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render("Waiting for daemon...")
	}
	s := m.snap.Settings
	p := weg.Presentation{Hidden: m.snap.Visibility.Hidden, Delayed: m.snap.Visibility.Delayed}
	if m.drag != nil {
		// A bar being dragged on is always shown.
		p = weg.Presentation{}
	}

	length := m.width - 4
	if !s.Position.Horizontal() {
		length = height - 4
	}
	held := -1
	if m.drag != nil {
		held = m.drag.held
	}
	bar := RenderBar(layoutFor(m.seq, s, p), length, m.cursor, held)

	lines := []string{bar}
	if it, ok := m.current(); ok && m.drag == nil {
		lines = append(lines, "", describeItem(it))
		if m.previewKey == it.Key() {
			lines = append(lines, windowList(it))
		}
	}
	if m.status != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.status))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func describeItem(it weg.Item) string {
	label := lipgloss.NewStyle().Bold(true).Render(it.DisplayName())
	parts := []string{label, string(it.Kind)}
	if it.ExecutionCommand != "" {
		parts = append(parts, it.ExecutionCommand)
	}
	return strings.Join(parts, "  ")
}

func windowList(it weg.Item) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)
	rows := make([]string, 0, len(it.Opens))
	for _, w := range it.Opens {
		title := w.Title
		if w.Minimized {
			title += " (minimized)"
		}
		rows = append(rows, fmt.Sprintf("0x%x  %s", w.ID, title))
	}
	return style.Render(strings.Join(rows, "\n"))
}
