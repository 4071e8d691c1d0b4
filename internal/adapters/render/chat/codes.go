package chat

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

var palette = map[rune]lipgloss.Color{
	'0': "#000000",
	'1': "#0000AA",
	'2': "#00AA00",
	'3': "#00AAAA",
	'4': "#AA0000",
	'5': "#AA00AA",
	'6': "#FFAA00",
	'7': "#AAAAAA",
	'8': "#555555",
	'9': "#5555FF",
	'a': "#55FF55",
	'b': "#55FFFF",
	'c': "#FF5555",
	'd': "#FF55FF",
	'e': "#FFFF55",
	'f': "#FFFFFF",
}

type format struct {
	color     lipgloss.Color
	bold      bool
	italic    bool
	underline bool
	strike    bool
}

// apply returns the format that follows code, and false when code is not a
// formatting code. A colour code clears any active decorations.
func (f format) apply(code rune) (format, bool) {
	code = unicode.ToLower(code)
	if color, ok := palette[code]; ok {
		return format{color: color}, true
	}

	switch code {
	case 'l':
		f.bold = true
	case 'm':
		f.strike = true
	case 'n':
		f.underline = true
	case 'o':
		f.italic = true
	case 'k':
	case 'r':
		return format{}, true
	default:
		return f, false
	}
	return f, true
}

func isMarker(r rune) bool {
	return r == '&' || r == '§'
}

// Substitute replaces every {name} placeholder with vars[name]. Unknown
// placeholders are kept.
func Substitute(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Strip removes formatting codes and leaves everything else untouched.
func Strip(text string) string {
	var out strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if isMarker(runes[i]) && i+1 < len(runes) {
			if _, ok := (format{}).apply(runes[i+1]); ok {
				i++
				continue
			}
		}
		out.WriteRune(runes[i])
	}
	return out.String()
}
