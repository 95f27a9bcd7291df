package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabBar Tab = iota
	TabMenu
	TabSettings
	tabCount
)

var tabTitles = [tabCount]string{
	TabBar:      "Bar",
	TabMenu:     "Menu",
	TabSettings: "Settings",
}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabTitles[t]
}

// shortcut is the digit that selects t.
func (t Tab) shortcut() string { return string(rune('1' + int(t))) }

// tabForKey maps a digit key to its tab.
func tabForKey(k string) (Tab, bool) {
	for t := Tab(0); t < tabCount; t++ {
		if t.shortcut() == k {
			return t, true
		}
	}
	return 0, false
}

var (
	chromeBg = lipgloss.Color("235")
	chromeFg = lipgloss.Color("250")

	tabStyle = lipgloss.NewStyle().
			Foreground(chromeFg).
			Background(lipgloss.Color("236")).
			Padding(0, 2)
	tabActiveStyle = tabStyle.
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	statusStyle = lipgloss.NewStyle().
			Background(chromeBg).
			Foreground(chromeFg).
			Padding(0, 1)
	onlineDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	offlineDot = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
)

func renderTabBar(active Tab, width int) string {
	gap := lipgloss.NewStyle().Background(chromeBg).Render(" ")
	cells := make([]string, 0, 2*int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		if t > 0 {
			cells = append(cells, gap)
		}
		style := tabStyle
		if t == active {
			style = tabActiveStyle
		}
		cells = append(cells, style.Render(t.shortcut()+":"+t.String()))
	}
	return lipgloss.NewStyle().
		Width(width).
		MarginBottom(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// renderStatusBar shows daemon reachability followed by the bar summary.
func renderStatusBar(connected bool, parts []string, width int) string {
	line := offlineDot + " daemon not running"
	if connected {
		line = strings.Join(append([]string{onlineDot + " daemon connected"}, parts...), "  ")
	}
	return statusStyle.Width(width).Render(line)
}
