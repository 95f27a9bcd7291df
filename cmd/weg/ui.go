package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/luriusTM/Seelen-UI/internal/i18n"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/logging"
	"github.com/luriusTM/Seelen-UI/internal/tray"
	"github.com/luriusTM/Seelen-UI/internal/tui"
)

func runPreview(args []string) int {
	fs := newFlagSet("preview", "preview [--monitor N] [--width N]", "Draw the current bar of a monitor in the terminal.")
	monitor := fs.Int("monitor", 0, "Monitor index")
	width := fs.Int("width", 0, "Drawing width in cells (default: terminal width)")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	w := *width
	if w <= 0 {
		w = 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			w = tw
		}
	}
	snap, err := ipc.NewClient().GetState(*monitor)
	if err != nil {
		return fail(err)
	}
	if err := tui.Preview(os.Stdout, *snap, w); err != nil {
		return fail(err)
	}
	return 0
}

func runTUI(args []string) int {
	fs := newFlagSet("tui", "tui [--path PATH] [--monitor N] [--lang LANG]", "")
	path := fs.String("path", "", "Config file path written by the settings tab")
	monitor := fs.Int("monitor", 0, "Monitor index to edit")
	lang := fs.String("lang", "", "Menu language (default: config language)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: weg tui [--path PATH] [--monitor N] [--lang LANG]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive bar editor. Requires a running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  ←/→, h/l   Move between items")
		fmt.Fprintln(os.Stderr, "  Space      Pick up / drop the item")
		fmt.Fprintln(os.Stderr, "  Esc        Cancel a move")
		fmt.Fprintln(os.Stderr, "  Enter      Activate item (bar) or run action (menu)")
		fmt.Fprintln(os.Stderr, "  p          Pin / unpin")
		fmt.Fprintln(os.Stderr, "  v          Show the item's windows")
		fmt.Fprintln(os.Stderr, "  m          Next monitor")
		fmt.Fprintln(os.Stderr, "  1/2/3, Tab Switch tab")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C  Quit")
	}
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	language := *lang
	if language == "" {
		if res, err := loadConfig(*path); err == nil {
			language = res.Config.Language
		}
	}

	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		return fail(fmt.Errorf("daemon not reachable: %w", err))
	}
	if err := tui.Run(tui.Options{
		ConfigPath: *path,
		Monitor:    *monitor,
		Language:   language,
		Client:     client,
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runTray(args []string) int {
	fs := newFlagSet("tray", "tray [--lang LANG] [--refresh DURATION]", "Show the bar context menu as a system tray icon.")
	lang := fs.String("lang", "", "Menu language (default: config language)")
	refresh := fs.Duration("refresh", 5*time.Second, "How often the menu state is refreshed")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	res, err := loadConfig("")
	if err != nil {
		return fail(err)
	}
	logger, closer := logging.Setup(res.Config, os.Stderr)
	defer closer.Close()

	language := *lang
	if language == "" {
		language = res.Config.Language
	}
	logger.Info("tray started", "language", i18n.Match(language).String())

	tray.Run(ipc.NewClient(), tray.Options{
		Language: language,
		Refresh:  *refresh,
		Logger:   logger,
	})
	return 0
}
