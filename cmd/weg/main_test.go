package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luriusTM/Seelen-UI/internal/config"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunConfigValidate(t *testing.T) {
	var out bytes.Buffer
	path := writeConfig(t, "hide_mode: always\nposition: top\n")
	if rc := runConfigTo(&out, []string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}
	if strings.TrimSpace(out.String()) != "config: ok" {
		t.Fatalf("output = %q", out.String())
	}

	bad := writeConfig(t, "hide_mode: sometimes\n")
	if rc := runConfigTo(&out, []string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("invalid config rc=%d, want 1", rc)
	}
}

func TestRunConfigExplainReportsFileSource(t *testing.T) {
	var out bytes.Buffer
	path := writeConfig(t, "size: 48\n")
	if rc := runConfigTo(&out, []string{"explain", "--path", path, "size"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	got := out.String()
	if !strings.Contains(got, "source: file:") || !strings.Contains(got, ":1:") {
		t.Fatalf("missing file source:\n%s", got)
	}
	if !strings.Contains(got, "48") {
		t.Fatalf("missing value:\n%s", got)
	}

	out.Reset()
	if rc := runConfigTo(&out, []string{"explain", "--path", path, "position"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "source: default") {
		t.Fatalf("expected default source:\n%s", out.String())
	}
}

func TestRunConfigPrintDefaults(t *testing.T) {
	var out bytes.Buffer
	if rc := runConfigTo(&out, []string{"print", "--defaults"}); rc != 0 {
		t.Fatalf("print rc=%d, want 0", rc)
	}
	want := "hide_mode: " + string(config.DefaultConfig().HideMode)
	if !strings.Contains(out.String(), want) {
		t.Fatalf("defaults missing %q:\n%s", want, out.String())
	}
}

func TestRunConfigFilesListsIncludes(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("size: 44\n"), 0644); err != nil {
		t.Fatalf("write include: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("include: extra.yaml\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	if rc := runConfigTo(&out, []string{"files", "--path", path}); rc != 0 {
		t.Fatalf("files rc=%d, want 0", rc)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || filepath.Base(lines[0]) != "extra.yaml" || filepath.Base(lines[1]) != "config.yaml" {
		t.Fatalf("files = %q", lines)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if rc := run("frobnicate", nil); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
	if rc := run("config", []string{"bogus"}); rc != 2 {
		t.Fatalf("config bogus rc=%d, want 2", rc)
	}
}

func TestArgumentCountsAreChecked(t *testing.T) {
	tests := []struct {
		cmd  string
		args []string
	}{
		{"pin", nil},
		{"unpin", []string{"a", "b"}},
		{"hide-mode", nil},
		{"reorder", nil},
		{"status", []string{"extra"}},
	}
	for _, tt := range tests {
		if rc := run(tt.cmd, tt.args); rc != 2 {
			t.Errorf("%s %v rc=%d, want 2", tt.cmd, tt.args, rc)
		}
	}
}

func TestHideModeRejectsUnknownMode(t *testing.T) {
	if rc := runHideMode([]string{"sometimes"}); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
}

func TestWriteBuckets(t *testing.T) {
	var out bytes.Buffer
	writeBuckets(&out, weg.Buckets{
		Left: []weg.Item{{Kind: weg.KindStart, ID: "start"}},
		Center: []weg.Item{{
			Kind: weg.KindTemporalApp, ID: "t1", ExecutionCommand: "/usr/bin/kitty",
			Opens: []weg.OpenedWindow{{ID: 1}, {ID: 2}},
		}},
	})
	got := out.String()
	for _, want := range []string{"left:\n", "center:\n", "right:\n  (empty)", "kitty [2 window(s)]"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWriteMenu(t *testing.T) {
	var out bytes.Buffer
	writeMenu(&out, []weg.MenuItem{
		{Label: "Auto hide", Children: []weg.MenuItem{
			{Label: "Never", Action: "hide-mode:never", Checked: true},
		}},
		{Separator: true},
		{Label: "Reload", Action: "reload"},
	}, 0)
	want := "  Auto hide\n  ✓ Never  [hide-mode:never]\n──────\n  Reload  [reload]\n"
	if out.String() != want {
		t.Fatalf("menu =\n%q\nwant\n%q", out.String(), want)
	}
}
