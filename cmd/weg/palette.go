package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/palette"
)

func runPalette(args []string) int {
	fs := newFlagSet("palette", "palette [--monitor N] [--backend NAME] [--lang TAG]",
		"Pick a bar item or context menu action in rofi, fuzzel, wofi or dmenu.")
	monitor := fs.Int("monitor", 0, "Monitor index")
	backendName := fs.String("backend", "auto", "Launcher: auto, rofi, fuzzel, wofi, dmenu")
	lang := fs.String("lang", "", "Menu language (default: config language)")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	language := *lang
	if language == "" {
		language = "en"
		if res, err := loadConfig(""); err == nil {
			language = res.Config.Language
		}
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		return fail(err)
	}
	client := ipc.NewClient()
	snap, err := client.GetState(*monitor)
	if err != nil {
		return fail(err)
	}
	menu, err := client.GetMenu(language)
	if err != nil {
		return fail(err)
	}

	entries := palette.FromItems(snap.Items)
	entries = append(entries, palette.Entry{Label: "────────", Divider: true})
	entries = append(entries, palette.FromMenu(menu.Items)...)

	message := fmt.Sprintf("%s · hide: %s", snap.Name, snap.Settings.HideMode)
	action, err := palette.Pick(backend, "weg", entries, message)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		return fail(err)
	}

	if key, ok := strings.CutPrefix(action, palette.ActivatePrefix); ok {
		err = client.Activate(*monitor, key)
	} else {
		err = client.MenuAction(action)
	}
	if err != nil {
		return fail(err)
	}
	return 0
}
