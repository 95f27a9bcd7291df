package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Options configures Run.
type Options struct {
	ConfigPath string
	Monitor    int
	Language   string
	Client     Daemon
}

// Run starts the interactive bar editor and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Client == nil {
		return fmt.Errorf("tui requires a daemon client")
	}

	m := newModel(opts.Client, opts.ConfigPath, opts.Language, opts.Monitor)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
