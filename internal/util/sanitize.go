package util

import (
	"regexp"
	"strings"
	"unicode"
)

const maxFilenamePartRunes = 120

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\s]`)

// FilenamePart makes an arbitrary string, such as an email address, safe to
// embed in a file name inside a fixed directory. Path separators and other
// reserved characters become underscores, control and invisible characters
// are dropped, and leading dots are removed so the result can never name a
// parent directory or a hidden file. An input with nothing usable left
// yields "unknown".
func FilenamePart(raw string) string {
	builder := strings.Builder{}
	builder.Grow(len(raw))

	for _, char := range strings.TrimSpace(raw) {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := unsafeFilenameChars.ReplaceAllString(builder.String(), "_")
	cleaned = strings.TrimLeft(cleaned, ".")

	runes := []rune(cleaned)
	if len(runes) > maxFilenamePartRunes {
		runes = runes[:maxFilenamePartRunes]
	}
	cleaned = string(runes)

	if strings.Trim(cleaned, "_") == "" {
		return "unknown"
	}
	return cleaned
}

// isInvisibleUnicode reports zero-width and other format characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F',
		'\u2060', '\u2061', '\u2062', '\u2063', '\u2064',
		'\uFEFF', '\uFFF9', '\uFFFA', '\uFFFB':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
