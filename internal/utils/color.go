package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultHighlightColor is used when an annotation carries no colour token.
const DefaultHighlightColor = "yellow"

// namedColors are the colour tokens the reader palette offers.
var namedColors = map[string]string{
	"yellow": "#FFEB3B",
	"green":  "#A5D6A7",
	"blue":   "#90CAF9",
	"pink":   "#F48FB1",
	"orange": "#FFCC80",
	"purple": "#CE93D8",
	"red":    "#EF9A9A",
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// NormalizeColor turns a colour token into "#RRGGBB".
// Accepted tokens are palette names, "#RGB", "#RRGGBB" and "#AARRGGBB";
// the alpha channel of the last form is discarded.
// Example: "#FF112233" -> "#112233"
func NormalizeColor(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = DefaultHighlightColor
	}
	if hex, ok := namedColors[strings.ToLower(token)]; ok {
		return hex, nil
	}
	if !hexColor.MatchString(token) {
		return "", fmt.Errorf("unknown colour token %q", token)
	}

	digits := strings.ToUpper(token[1:])
	switch len(digits) {
	case 3:
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	case 8:
		digits = digits[2:]
	}
	return "#" + digits, nil
}

// IsPaletteColor reports whether token names a palette colour.
func IsPaletteColor(token string) bool {
	_, ok := namedColors[strings.ToLower(strings.TrimSpace(token))]
	return ok
}
