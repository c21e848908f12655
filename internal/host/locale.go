package host

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// detectLocale resolves the host locale from the process environment.
// POSIX values like "en_US.UTF-8" are normalized to BCP 47 before
// parsing. Falls back to language.Und when nothing usable is set.
func detectLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := os.Getenv(key)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		if tag, ok := parseLocale(raw); ok {
			return tag
		}
	}
	return language.Und
}

// parseLocale converts a POSIX locale string to a language.Tag.
func parseLocale(raw string) (language.Tag, bool) {
	// Strip encoding and modifier suffixes: "en_US.UTF-8@euro" -> "en_US".
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '@'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")

	tag, err := language.Parse(raw)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}
