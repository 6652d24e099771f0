package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnsupportedLocale is returned when a locale id is not in the registry.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Locale identifies a language/region pair, e.g. "en_US".
type Locale string

const (
	EnUS Locale = "en_US"
	DeDE Locale = "de_DE"
	JaJP Locale = "ja_JP"
)

// Info describes how well the content layer covers a locale.
type Info struct {
	ID   Locale `json:"id"`
	Name string `json:"name"`
	// NativeTitles is false when there is no book-title vocabulary for the
	// locale; Title then fails and callers fall back to generic sentences.
	NativeTitles bool `json:"native_titles"`
	// RichText is false when generic paragraphs would not be in the locale's
	// language; review texts then come from the curated canned set.
	RichText bool `json:"rich_text"`
}

var registry = []Info{
	{ID: EnUS, Name: "English (USA)", NativeTitles: true, RichText: true},
	{ID: DeDE, Name: "German (Germany)"},
	{ID: JaJP, Name: "Japanese (Japan)"},
}

// Locales lists the supported locales in display order.
func Locales() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for an exact locale id.
func Lookup(id Locale) (Info, bool) {
	for _, info := range registry {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}

// ParseLocale accepts ids case-insensitively and with '-' in place of '_'.
func ParseLocale(s string) (Locale, error) {
	norm := normalize(s)
	for _, info := range registry {
		if strings.EqualFold(string(info.ID), norm) {
			return info.ID, nil
		}
	}

	if suggestions := Suggest(s); len(suggestions) > 0 {
		return "", fmt.Errorf("%w: %q (did you mean %s?)", ErrUnsupportedLocale, s, strings.Join(suggestions, ", "))
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
}

// Suggest ranks supported locale ids against free-form input, matching both
// ids and display names ("german" suggests de_DE).
func Suggest(s string) []string {
	norm := normalize(s)
	if norm == "" {
		return nil
	}

	targets := make([]string, 0, len(registry)*2)
	owners := make([]Locale, 0, len(registry)*2)
	for _, info := range registry {
		targets = append(targets, string(info.ID), info.Name)
		owners = append(owners, info.ID, info.ID)
	}

	ranks := fuzzy.RankFindNormalizedFold(norm, targets)
	sort.Sort(ranks)

	seen := make(map[Locale]bool)
	var out []string
	for _, r := range ranks {
		id := owners[r.OriginalIndex]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, string(id))
		if len(out) == 3 {
			break
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "-", "_")
}
