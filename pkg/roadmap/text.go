package roadmap

import (
	"strings"
	"unicode/utf8"
)

// Node box sizing.
const (
	MinNodeHeight  = 60
	LineHeight     = 18
	NodePadding    = 24
	TitleLineChars = 16
)

// WrapText breaks text into lines of at most maxChars characters on word
// boundaries. A single word longer than maxChars gets a line of its own.
// maxChars <= 0 disables wrapping.
func WrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= maxChars {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

// NodeHeight returns the height of a node box holding lines title lines.
func NodeHeight(lines int) float64 {
	return max(MinNodeHeight, float64(lines*LineHeight+NodePadding))
}
