package subjects

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// taskAuthorPrefix is the phrasing the portal uses when the author
// field carries the subject instead of a teacher name.
const taskAuthorPrefix = "COMPITI DI "

// maxDisplayRunes bounds subject labels in compact views; longer
// names are elided.
const maxDisplayRunes = 18

// DisplayName renders a subject for compact display: the configured
// short name when one exists, otherwise the name capitalized and, if
// still too long, elided.
func DisplayName(subject string, shortNames map[string]string) string {
	s := strings.TrimSpace(subject)
	if s == "" {
		return ""
	}
	if short, ok := shortNames[strings.ToLower(s)]; ok {
		return short
	}
	s = capitalize(s)
	if utf8.RuneCountInString(s) > maxDisplayRunes {
		return string([]rune(s)[:maxDisplayRunes-3]) + "…"
	}
	return s
}

// AuthorTaskSubject extracts the subject from "COMPITI DI <subject>"
// author phrasing. Returns ok=false when the author text is a plain
// teacher name.
func AuthorTaskSubject(author string) (string, bool) {
	if len(author) < len(taskAuthorPrefix) {
		return "", false
	}
	if !strings.EqualFold(author[:len(taskAuthorPrefix)], taskAuthorPrefix) {
		return "", false
	}
	subject := strings.TrimSpace(author[len(taskAuthorPrefix):])
	return subject, subject != ""
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
