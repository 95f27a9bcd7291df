package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives a dmenu-compatible program over stdin/stdout.
type launcher struct {
	command string
	// byIndex launchers print the chosen row index; the others echo the label.
	byIndex bool
	rofi    bool
}

func newLauncher(command string) *launcher {
	return &launcher{
		command: command,
		byIndex: command == "rofi" || command == "fuzzel",
		rofi:    command == "rofi",
	}
}

func (l *launcher) Show(prompt string, rows []Row, message string) (Row, error) {
	if len(rows) == 0 {
		return Row{}, fmt.Errorf("palette: no rows to show")
	}
	rows = l.disambiguate(rows)

	cmd := exec.Command(l.command, l.args(prompt, message, rows)...)
	cmd.Stdin = strings.NewReader(l.input(rows))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		// 1 is "nothing selected", 130 is Ctrl+C.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 1 || exitErr.ExitCode() == 130) {
			return Row{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Row{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Row{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Row{}, ErrCancelled
	}
	return l.parse(selection, rows)
}

func (l *launcher) args(prompt, message string, rows []Row) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		selected := -1
		for i, r := range rows {
			if !r.selectable() {
				continue
			}
			if r.Active {
				active = append(active, strconv.Itoa(i))
			}
			if selected < 0 || (r.Active && !rows[selected].Active) {
				selected = i
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
		return args
	case "fuzzel":
		args := []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	case "wofi":
		args := []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		return args
	default:
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
}

func (l *launcher) input(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = l.line(r)
	}
	return strings.Join(lines, "\n")
}

// line renders one row. rofi rows carry properties after a single NUL,
// as key\x1fvalue pairs.
func (l *launcher) line(r Row) string {
	text := clean(r.Label)
	if !l.rofi {
		return text
	}
	text = html.EscapeString(text)
	switch {
	case r.Header:
		text = "<b>" + text + "</b>"
	case r.Divider:
		text = "<span foreground='#666666'>" + text + "</span>"
	}
	var attrs []string
	if !r.selectable() {
		attrs = append(attrs, "nonselectable", "true")
	}
	if r.Icon != "" {
		attrs = append(attrs, "icon", cleanField(r.Icon))
	}
	if len(attrs) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(attrs, "\x1f")
}

// disambiguate suffixes repeated labels for launchers that echo the label.
func (l *launcher) disambiguate(rows []Row) []Row {
	if l.byIndex {
		return rows
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	seen := make(map[string]int)
	for i := range out {
		if !out[i].selectable() {
			continue
		}
		key := clean(out[i].Label)
		if n := seen[key]; n > 0 {
			out[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
		}
		seen[key]++
	}
	return out
}

func (l *launcher) parse(selection string, rows []Row) (Row, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Row{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return rows[idx], nil
		}
	}
	for _, r := range rows {
		if clean(r.Label) == selection {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func clean(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func cleanField(s string) string {
	return clean(strings.NewReplacer("\x00", " ", "\x1f", " ").Replace(s))
}
