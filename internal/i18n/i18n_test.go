package i18n

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"es", language.Spanish},
		{"es-MX", language.Spanish},
		{"zz-not-a-tag", language.English},
		{"ja", language.English},
	}
	for _, tt := range tests {
		if got := Match(tt.in); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTranslator(t *testing.T) {
	es := Translator("es")
	if got := es("weg.menu.reload"); got != "Recargar" {
		t.Fatalf("es reload = %q", got)
	}
	en := Translator("en")
	if got := en("weg.menu.hide_mode.never"); got != "Never" {
		t.Fatalf("en never = %q", got)
	}
	if got := en("weg.menu.something_new"); got != "Something New" {
		t.Fatalf("fallback label = %q", got)
	}
}

func TestEveryMenuKeyTranslated(t *testing.T) {
	menu := weg.ContextMenu(Translator("es"), weg.MenuStateFor(weg.DefaultSettings(), weg.DefaultBuckets()))
	var walk func(items []weg.MenuItem)
	walk = func(items []weg.MenuItem) {
		for _, it := range items {
			if it.Separator {
				continue
			}
			for tag, msgs := range messages {
				if _, ok := msgs[it.Key]; !ok {
					t.Errorf("%v: missing translation for %q", tag, it.Key)
				}
			}
			walk(it.Children)
		}
	}
	walk(menu.Items)
}
