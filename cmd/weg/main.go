package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/ipc"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}
	os.Exit(run(os.Args[1], os.Args[2:]))
}

func run(cmd string, args []string) int {
	switch cmd {
	case "daemon":
		return runDaemon(args)
	case "status":
		return runStatus(args)
	case "monitors":
		return runMonitors(args)
	case "items":
		return runItems(args)
	case "state":
		return runState(args)
	case "reorder":
		return runReorder(args)
	case "hide-mode":
		return runHideMode(args)
	case "menu":
		return runMenu(args)
	case "menu-action":
		return runSimple("menu-action", "<action>", args, func(c *ipc.Client, arg string) error { return c.MenuAction(arg) })
	case "activate":
		return runActivate(args)
	case "pin":
		return runSimple("pin", "<item-id>", args, func(c *ipc.Client, arg string) error { return c.Pin(arg) })
	case "unpin":
		return runSimple("unpin", "<item-id>", args, func(c *ipc.Client, arg string) error { return c.Unpin(arg) })
	case "reload":
		return runReload(args)
	case "config":
		return runConfig(args)
	case "preview":
		return runPreview(args)
	case "tui":
		return runTUI(args)
	case "palette":
		return runPalette(args)
	case "tray":
		return runTray(args)
	case "mcp":
		return runMCP(args)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: weg <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the bar daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List bars and their monitors")
	fmt.Fprintln(w, "  items               Show the pinned and running items")
	fmt.Fprintln(w, "  state               Show the presented state of one bar")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  reorder             Commit a new item order")
	fmt.Fprintln(w, "  hide-mode           Set the hide mode (always, on-overlap, never)")
	fmt.Fprintln(w, "  menu                Print the bar context menu")
	fmt.Fprintln(w, "  menu-action         Run a context menu action")
	fmt.Fprintln(w, "  activate            Focus, minimize or launch an item")
	fmt.Fprintln(w, "  pin                 Pin a running application")
	fmt.Fprintln(w, "  unpin               Unpin an item")
	fmt.Fprintln(w, "  reload              Reload config and pins")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config files        List merged config files")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  preview             Draw a bar in the terminal")
	fmt.Fprintln(w, "  tui                 Open the interactive bar editor")
	fmt.Fprintln(w, "  palette             Pick an item or menu action in rofi/dmenu")
	fmt.Fprintln(w, "  tray                Show the context menu in the system tray")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'weg <command> --help' for command-specific options.")
}

// parseFlags parses args and checks the positional count. want < 0 accepts
// any count. When ok is false the command should return rc.
func parseFlags(fs *flag.FlagSet, args []string, want int) (rc int, ok bool) {
	if len(args) > 0 && args[0] == "help" {
		fs.Usage()
		return 0, false
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if want >= 0 && fs.NArg() != want {
		if want == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s takes %d argument(s)\n", fs.Name(), want)
		}
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func newFlagSet(name, usage, desc string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: weg "+usage)
		if desc != "" {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, desc)
		}
		fs.PrintDefaults()
	}
	return fs
}

func printJSON(w io.Writer, v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(w, string(data))
	return 0
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status", "Show daemon status via IPC.")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("bars:           %d\n", status.Bars)
	fmt.Printf("items:          %d\n", status.Items)
	fmt.Printf("hide_mode:      %s\n", status.HideMode)
	if status.ConfigPath != "" {
		fmt.Printf("config:         %s\n", status.ConfigPath)
	}
	if status.PinsPath != "" {
		fmt.Printf("pins:           %s\n", status.PinsPath)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := newFlagSet("monitors", "monitors [--json]", "List the monitors that carry a bar.")
	asJSON := fs.Bool("json", false, "Output JSON")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		return fail(err)
	}
	if *asJSON {
		return printJSON(os.Stdout, data)
	}
	for _, m := range data.Monitors {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Printf("%d  %s%s  %dx%d+%d+%d\n", m.Index, m.Name, primary, m.Bounds.Width, m.Bounds.Height, m.Bounds.X, m.Bounds.Y)
	}
	return 0
}

func runItems(args []string) int {
	fs := newFlagSet("items", "items [--json]", "Show the raw item buckets.")
	asJSON := fs.Bool("json", false, "Output JSON")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	b, err := ipc.NewClient().GetItems()
	if err != nil {
		return fail(err)
	}
	if *asJSON {
		return printJSON(os.Stdout, b)
	}
	writeBuckets(os.Stdout, b)
	return 0
}

func runState(args []string) int {
	fs := newFlagSet("state", "state [--monitor N] [--json]", "Show the projected items and visibility of one bar.")
	monitor := fs.Int("monitor", 0, "Monitor index")
	asJSON := fs.Bool("json", false, "Output JSON")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	snap, err := ipc.NewClient().GetState(*monitor)
	if err != nil {
		return fail(err)
	}
	if *asJSON {
		return printJSON(os.Stdout, snap)
	}
	v := snap.Visibility
	fmt.Printf("monitor:    %d %s\n", snap.Monitor.Index, snap.Name)
	fmt.Printf("hide_mode:  %s\n", v.HideMode)
	fmt.Printf("focused:    %v\n", v.Active)
	fmt.Printf("overlapped: %v\n", v.Overlapped)
	fmt.Printf("views:      %d\n", v.Views)
	fmt.Printf("hidden:     %v (delayed: %v)\n", v.Hidden, v.Delayed)
	fmt.Println("")
	writeBuckets(os.Stdout, snap.Items)
	return 0
}

// writeBuckets prints one line per item grouped by side.
func writeBuckets(w io.Writer, b weg.Buckets) {
	for _, side := range weg.Sides {
		items := *b.Side(side)
		fmt.Fprintf(w, "%s:\n", side)
		if len(items) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, it := range items {
			line := fmt.Sprintf("  %-14s %-36s %s", it.Kind, it.Key(), it.DisplayName())
			if n := len(it.Opens); n > 0 {
				line += fmt.Sprintf(" [%d window(s)]", n)
			}
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
	}
}

func runReorder(args []string) int {
	fs := newFlagSet("reorder", "reorder [--monitor N] <id|sep1|sep2>...",
		"Commit a flat drag sequence. sep1 ends the left side and sep2 ends the center.")
	monitor := fs.Int("monitor", 0, "Monitor index the sequence was taken from")
	if rc, ok := parseFlags(fs, args, -1); !ok {
		return rc
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "reorder requires an item sequence")
		fs.Usage()
		return 2
	}
	data, err := ipc.NewClient().Reorder(*monitor, fs.Args())
	if err != nil {
		return fail(err)
	}
	if !data.Report.Clean() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", data.Report)
	}
	writeBuckets(os.Stdout, data.Items)
	return 0
}

func runHideMode(args []string) int {
	fs := newFlagSet("hide-mode", "hide-mode <always|on-overlap|never>", "Set and save the hide mode.")
	if rc, ok := parseFlags(fs, args, 1); !ok {
		return rc
	}
	mode, err := weg.ParseHideMode(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().SetHideMode(string(mode)); err != nil {
		return fail(err)
	}
	return 0
}

func runMenu(args []string) int {
	fs := newFlagSet("menu", "menu [--lang LANG] [--json]", "Print the bar context menu with its action names.")
	lang := fs.String("lang", "", "Menu language (default: daemon language)")
	asJSON := fs.Bool("json", false, "Output JSON")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	spec, err := ipc.NewClient().GetMenu(*lang)
	if err != nil {
		return fail(err)
	}
	if *asJSON {
		return printJSON(os.Stdout, spec)
	}
	writeMenu(os.Stdout, spec.Items, 0)
	return 0
}

func writeMenu(w io.Writer, items []weg.MenuItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it.Separator {
			fmt.Fprintln(w, indent+"──────")
			continue
		}
		mark := "  "
		if it.Checked {
			mark = "✓ "
		}
		line := indent + mark + it.Label
		if it.Action != "" {
			line += "  [" + it.Action + "]"
		}
		fmt.Fprintln(w, line)
		writeMenu(w, it.Children, depth+1)
	}
}

func runActivate(args []string) int {
	fs := newFlagSet("activate", "activate [--monitor N] <item-id>", "Focus, minimize or launch an item on a bar.")
	monitor := fs.Int("monitor", 0, "Monitor index")
	if rc, ok := parseFlags(fs, args, 1); !ok {
		return rc
	}
	if err := ipc.NewClient().Activate(*monitor, fs.Arg(0)); err != nil {
		return fail(err)
	}
	return 0
}

// runSimple handles commands that send one positional argument.
func runSimple(name, argName string, args []string, call func(*ipc.Client, string) error) int {
	fs := newFlagSet(name, name+" "+argName, "")
	if rc, ok := parseFlags(fs, args, 1); !ok {
		return rc
	}
	if err := call(ipc.NewClient(), fs.Arg(0)); err != nil {
		return fail(err)
	}
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "reload", "Ask the daemon to re-read its config and pins file.")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	if err := ipc.NewClient().Reload(); err != nil {
		return fail(err)
	}
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
