package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// Launcher starts the application or file behind an item.
type Launcher interface {
	Launch(it weg.Item) error
}

// ExecLauncher spawns detached processes.
type ExecLauncher struct {
	logger *slog.Logger
}

func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecLauncher{logger: logger}
}

func (l *ExecLauncher) Launch(it weg.Item) error {
	argv, err := LaunchArgv(it)
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", argv[0], err)
	}
	l.logger.Info("launched item", "item", it.Key(), "argv", argv, "pid", cmd.Process.Pid)
	go func() { _ = cmd.Wait() }()
	return nil
}

// LaunchArgv resolves the command line that opens an item.
//
// Desktop entries go through gio, existing non-executable files and folders
// through xdg-open, and everything else is split like a shell word list.
func LaunchArgv(it weg.Item) ([]string, error) {
	if it.Kind != weg.KindPinned && it.Kind != weg.KindTemporalApp {
		return nil, fmt.Errorf("cannot launch %s items", it.Kind)
	}
	command := strings.TrimSpace(it.ExecutionCommand)
	if command == "" {
		command = strings.TrimSpace(it.Path)
	}
	if command == "" {
		return nil, fmt.Errorf("item %s has nothing to launch", it.Key())
	}

	if strings.HasSuffix(strings.ToLower(command), ".desktop") {
		return []string{"gio", "launch", command}, nil
	}
	if info, err := os.Stat(command); err == nil {
		if info.IsDir() || info.Mode().Perm()&0111 == 0 {
			return []string{"xdg-open", command}, nil
		}
		return []string{command}, nil
	}

	argv, err := splitCommand(command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("item %s has nothing to launch", it.Key())
	}
	return argv, nil
}

func splitCommand(input string) ([]string, error) {
	var out []string
	var buf strings.Builder
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out = append(out, buf.String())
		buf.Reset()
	}

	for _, r := range input {
		switch {
		case escaped:
			buf.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case !inSingle && !inDouble && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			buf.WriteRune(r)
		}
	}

	if escaped {
		return nil, errors.New("unfinished escape in execution command")
	}
	if inSingle || inDouble {
		return nil, errors.New("unterminated quote in execution command")
	}
	flush()
	return out, nil
}
