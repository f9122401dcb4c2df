// Package sanitize provides filename sanitization for user-supplied upload names.
package sanitize

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFilenameLength is the maximum number of characters kept by Filename.
const MaxFilenameLength = 255

// Filename strips path separators, control characters and ".." sequences from a
// user-supplied filename and truncates it to MaxFilenameLength characters.
//
// The ".." removal is a literal, single-pass substring removal. Separators are removed
// first so that "./." cannot reassemble into a parent reference afterwards. The result
// is idempotent: Filename(Filename(x)) == Filename(x).
func Filename(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			continue
		case r < 0x20 || r == 0x7f:
			continue
		}
		b.WriteRune(r)
	}

	result := strings.ReplaceAll(b.String(), "..", "")
	return truncate(result, MaxFilenameLength)
}

// StorageName returns a name safe to use as the last segment of an object key.
// Unlike Filename it canonicalises the path and keeps only its final segment, so it
// never yields "", "." or "..". Falls back to "upload" when nothing usable remains.
func StorageName(name string) string {
	s := strings.ReplaceAll(name, "\x00", "")
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(filepath.ToSlash(s))
	s = strings.TrimLeft(s, ".")
	s = Filename(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"|?*`, r) || r == ' ' {
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "upload"
	}
	return s
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
