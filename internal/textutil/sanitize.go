package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer removes characters that are illegal in file names on at
// least one supported platform.
var fileNameReplacer = strings.NewReplacer(
	"\\", "",
	"/", "",
	"*", "",
	"?", "",
	":", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName strips filesystem-unsafe characters from name and trims
// surrounding whitespace. The operation is idempotent.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// Stem builds the canonical "{artist}-{title}" output stem used as both the
// song directory name and the common filename prefix. Both parts are
// sanitized and NFC-normalized so decomposed Hangul input still yields the
// canonical directory name.
func Stem(artist, title string) string {
	return SanitizeFileName(Normalize(artist)) + "-" + SanitizeFileName(Normalize(title))
}

// Normalize returns the NFC normalization of s with surrounding whitespace
// trimmed.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ParseQuery splits a free-text request of the form "artist - title" on the
// first literal " - " separator. When the separator is absent the whole
// query is treated as the title with an empty artist.
func ParseQuery(query string) (artist, title string) {
	query = Normalize(query)
	if before, after, ok := strings.Cut(query, " - "); ok {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", query
}
