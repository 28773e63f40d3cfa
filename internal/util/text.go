// internal/util/text.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens text to at most maxRunes runes, appending an
// ellipsis when something was cut. It never splits a multi-byte character.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// WrapToWidth wraps each line of text at word boundaries so that no line is
// wider than width runes. Words longer than width are split.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var cur []rune
		for _, w := range words {
			word := []rune(w)
			if len(cur) > 0 && len(cur)+1+len(word) <= width {
				cur = append(append(cur, ' '), word...)
				continue
			}
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			for len(word) > width {
				out = append(out, string(word[:width]))
				word = word[width:]
			}
			cur = word
		}
		if len(cur) > 0 {
			out = append(out, string(cur))
		}
	}
	return strings.Join(out, "\n")
}
