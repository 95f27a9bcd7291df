// Package runtimepath resolves the per-user directories weg reads and
// writes: the runtime dir for the IPC socket, the config dir and the data
// dir for logs.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "seelenweg"

// Dir returns the runtime directory holding the IPC socket:
// $XDG_RUNTIME_DIR, else /run/user/<uid> when present, else a private
// /tmp/seelenweg-runtime-<uid> that is created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}
	dir := fmt.Sprintf("/tmp/%s-runtime-%d", appDir, uid)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path. WEG_SOCKET overrides it.
func SocketPath() (string, error) {
	if p := os.Getenv("WEG_SOCKET"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "weg.sock"), nil
}

// ConfigDir is $XDG_CONFIG_HOME/seelenweg, defaulting to ~/.config.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir is $XDG_DATA_HOME/seelenweg, defaulting to ~/.local/share.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, fallback, appDir), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
