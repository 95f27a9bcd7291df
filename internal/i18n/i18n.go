// Package i18n translates the bar's menu labels.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/luriusTM/Seelen-UI/internal/weg"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		"weg.menu.media":                        "Media module",
		"weg.menu.start":                        "Start module",
		"weg.menu.hide_mode":                    "Auto-hide",
		"weg.menu.hide_mode.always":             "Always",
		"weg.menu.hide_mode.on-overlap":         "When a window overlaps",
		"weg.menu.hide_mode.never":              "Never",
		"weg.menu.behaviour":                    "Items on other monitors",
		"weg.menu.behaviour.default":            "Show all items everywhere",
		"weg.menu.behaviour.primary-screen-all": "All on primary, own windows elsewhere",
		"weg.menu.behaviour.minimal":            "Only own windows",
		"weg.menu.position":                     "Position",
		"weg.menu.position.top":                 "Top",
		"weg.menu.position.bottom":              "Bottom",
		"weg.menu.position.left":                "Left",
		"weg.menu.position.right":               "Right",
		"weg.menu.separators":                   "Show separators",
		"weg.menu.reload":                       "Reload",
		"weg.tray.quit":                         "Quit",
	},
	language.Spanish: {
		"weg.menu.media":                        "Módulo multimedia",
		"weg.menu.start":                        "Módulo de inicio",
		"weg.menu.hide_mode":                    "Ocultar automáticamente",
		"weg.menu.hide_mode.always":             "Siempre",
		"weg.menu.hide_mode.on-overlap":         "Cuando una ventana lo cubre",
		"weg.menu.hide_mode.never":              "Nunca",
		"weg.menu.behaviour":                    "Elementos en otros monitores",
		"weg.menu.behaviour.default":            "Mostrar todo en todas partes",
		"weg.menu.behaviour.primary-screen-all": "Todo en el principal, ventanas propias en el resto",
		"weg.menu.behaviour.minimal":            "Solo ventanas propias",
		"weg.menu.position":                     "Posición",
		"weg.menu.position.top":                 "Arriba",
		"weg.menu.position.bottom":              "Abajo",
		"weg.menu.position.left":                "Izquierda",
		"weg.menu.position.right":               "Derecha",
		"weg.menu.separators":                   "Mostrar separadores",
		"weg.menu.reload":                       "Recargar",
		"weg.tray.quit":                         "Salir",
	},
}

var (
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
)

func init() {
	builder = catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, text := range msgs {
			if err := builder.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
	// English first so that it wins ties in the matcher.
	tags = []language.Tag{language.English}
	for _, tag := range builder.Languages() {
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	matcher = language.NewMatcher(tags)
}

// Match resolves a BCP 47 language string to a supported language.
// Unknown or empty input selects English.
func Match(lang string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return language.English
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return tags[index]
}

// Translator returns a translation function for lang. Keys without a
// translation are turned into a readable label from their last segment.
func Translator(lang string) weg.Translate {
	tag := Match(lang)
	printer := message.NewPrinter(tag, message.Catalog(builder))
	title := cases.Title(tag)
	return func(key string) string {
		if !known(key) {
			last := key[strings.LastIndex(key, ".")+1:]
			return title.String(strings.NewReplacer("-", " ", "_", " ").Replace(last))
		}
		return printer.Sprintf(message.Key(key, key))
	}
}

// Languages lists the supported languages.
func Languages() []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

func known(key string) bool {
	_, ok := messages[language.English][key]
	return ok
}
