package tray

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/luriusTM/Seelen-UI/internal/i18n"
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func TestIconDecodes(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconData()))
	if err != nil {
		t.Fatalf("decode icon: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("icon bounds = %v", b)
	}
}

func TestMenuStates(t *testing.T) {
	s := weg.DefaultSettings()
	s.HideMode = weg.HideNever
	spec := weg.ContextMenu(i18n.Translator("en"), weg.MenuStateFor(s, weg.DefaultBuckets()))

	states := menuStates(spec)
	never, ok := states["weg.menu.hide_mode.never"]
	if !ok || !never.Checked || never.Label != "Never" {
		t.Fatalf("never entry = %+v (ok=%v)", never, ok)
	}
	if states["weg.menu.hide_mode.always"].Checked {
		t.Fatal("always should not be checked")
	}
	if _, ok := states["weg.menu.hide_mode"]; !ok {
		t.Fatal("submenu parent missing")
	}
	if _, ok := states[""]; ok {
		t.Fatal("separators must not produce entries")
	}
}
