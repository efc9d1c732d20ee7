package utils

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFilenameBytes leaves room for an extension under the common 255-byte limit.
const maxFilenameBytes = 200

// reservedFilenameChars are dropped from download names.
const reservedFilenameChars = `<>:"/\|?*#`

// SanitizeFilename turns a lesson title into a file name safe for downloads.
// Reserved characters are dropped, brackets become parentheses and runs of
// whitespace collapse to one space. Long titles are cut on a rune boundary.
func SanitizeFilename(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(reservedFilenameChars, r):
			return -1
		case r == '[':
			return '('
		case r == ']':
			return ')'
		case unicode.IsSpace(r) || unicode.IsControl(r):
			return ' '
		}
		return r
	}, title)

	name := strings.Join(strings.Fields(mapped), " ")
	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	if name == "" {
		return "Untitled"
	}
	return name
}

// AttachmentDisposition builds a Content-Disposition header for downloading
// a lesson as title+ext. Non-ASCII names get an ASCII fallback plus an
// RFC 5987 filename* parameter.
func AttachmentDisposition(title, ext string) string {
	name := SanitizeFilename(title) + ext
	fallback := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		return r
	}, name)
	if fallback == name {
		return `attachment; filename="` + name + `"`
	}
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(name)
}
