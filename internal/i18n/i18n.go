// Package i18n loads the embedded locale tables and looks up UI strings by
// dotted key, e.g. "calendar.january".
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used for keys missing from the selected locale.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator resolves keys against one locale with fallback to DefaultLocale.
type Translator struct {
	locale   string
	strings  map[string]string
	fallback map[string]string
}

// New returns a Translator for locale. Unknown locales are an error.
func New(locale string) (*Translator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	fallback, err := load(DefaultLocale)
	if err != nil {
		return nil, err
	}
	if locale == DefaultLocale {
		return &Translator{locale: locale, strings: fallback, fallback: fallback}, nil
	}
	table, err := load(locale)
	if err != nil {
		return nil, err
	}
	return &Translator{locale: locale, strings: table, fallback: fallback}, nil
}

// MustNew is New for the embedded default locale; it panics on a broken
// embedded table.
func MustNew(locale string) *Translator {
	tr, err := New(locale)
	if err != nil {
		panic(err)
	}
	return tr
}

// Locale returns the translator's locale name.
func (tr *Translator) Locale() string {
	return tr.locale
}

// T returns the string for key. Missing keys fall back to the default locale
// and then to the key itself.
func (tr *Translator) T(key string) string {
	if s, ok := tr.strings[key]; ok {
		return s
	}
	if s, ok := tr.fallback[key]; ok {
		return s
	}
	return key
}

// Locales lists the embedded locale names.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func load(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile(path.Join("locales", locale+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q (available: %s)", locale, strings.Join(Locales(), ", "))
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	table := make(map[string]string)
	flatten("", tree, table)
	return table, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
