package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luriusTM/Seelen-UI/internal/config"
)

const pathFlagHelp = "Config file path (default: ~/.config/seelenweg/config.yaml)"

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  weg config validate [--path PATH]")
	fmt.Fprintln(w, "  weg config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  weg config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "  weg config files [--path PATH]")
}

func runConfig(args []string) int {
	return runConfigTo(os.Stdout, args)
}

// runConfigTo writes command output to w; usage and errors go to stderr.
func runConfigTo(w io.Writer, args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "validate":
		return configValidate(w, rest)
	case "print":
		return configPrint(w, rest)
	case "explain":
		return configExplain(w, rest)
	case "files":
		return configFiles(w, rest)
	case "help", "-h", "--help":
		printConfigUsage(w)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", sub)
		printConfigUsage(os.Stderr)
		return 2
	}
}

func configValidate(w io.Writer, args []string) int {
	fs := newFlagSet("validate", "config validate [--path PATH]", "Load the config with its includes and check every value.")
	path := fs.String("path", "", pathFlagHelp)
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	if _, err := loadConfig(*path); err != nil {
		return fail(err)
	}
	fmt.Fprintln(w, "config: ok")
	return 0
}

func configPrint(w io.Writer, args []string) int {
	fs := newFlagSet("print", "config print [--path PATH] [--effective|--defaults]", "Print the effective config, or the built-in defaults.")
	path := fs.String("path", "", pathFlagHelp)
	defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
	fs.Bool("effective", true, "Print effective config (default)")
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		res, err := loadConfig(*path)
		if err != nil {
			return fail(err)
		}
		cfg = res.Config
	}
	return writeYAML(w, cfg)
}

func configExplain(w io.Writer, args []string) int {
	fs := newFlagSet("explain", "config explain [--path PATH] <yaml.path>", "Show a value and the file and line that set it.")
	path := fs.String("path", "", pathFlagHelp)
	if rc, ok := parseFlags(fs, args, 1); !ok {
		return rc
	}
	key := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		return fail(err)
	}
	value, src, err := config.Explain(res, key)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(w, "path: %s\n", key)
	fmt.Fprintf(w, "source: %s\n", formatSource(src))
	fmt.Fprintln(w, "value:")
	return writeYAML(w, value)
}

func configFiles(w io.Writer, args []string) int {
	fs := newFlagSet("files", "config files [--path PATH]", "List the files the config was merged from, in load order.")
	path := fs.String("path", "", pathFlagHelp)
	if rc, ok := parseFlags(fs, args, 0); !ok {
		return rc
	}
	res, err := loadConfig(*path)
	if err != nil {
		return fail(err)
	}
	if len(res.Files) == 0 {
		fmt.Fprintln(w, "(no files, using defaults)")
		return 0
	}
	for _, f := range res.Files {
		fmt.Fprintln(w, f)
	}
	return 0
}

func writeYAML(w io.Writer, v any) int {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(w, string(data))
	return 0
}

func formatSource(src config.Source) string {
	switch {
	case src.Kind == config.SourceFile && src.Line > 0:
		return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
	case src.Kind == config.SourceFile && src.File != "":
		return "file:" + src.File
	case src.Kind == config.SourceDefault && src.Name != "":
		return "default:" + src.Name
	default:
		return string(src.Kind)
	}
}
