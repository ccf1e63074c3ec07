package util

import (
	"regexp"
	"strings"
)

const maxFilenameRunes = 80

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// SanitizeFilename turns a display name into something safe to put in a
// Content-Disposition header or an object key. Letters outside ASCII are
// kept, everything else collapses into underscores.
func SanitizeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "certificate"
	}
	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		cleaned = strings.TrimRight(string(runes[:maxFilenameRunes]), "_")
	}
	return cleaned
}
