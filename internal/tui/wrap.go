// Package tui provides the Bubble Tea flashcard interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapToWidth word-wraps text to the given display width. Words wider
// than the limit are broken mid-word so CJK glyphs cannot overflow the
// card.
func wrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return strings.Join(lines, "\n")
}

func wrapParagraph(paragraph string, width int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var current strings.Builder
	currentWidth := 0
	flush := func() {
		if currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
	}
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if wordWidth > width {
			flush()
			lines = append(lines, breakWord(word, width)...)
			continue
		}
		sep := 0
		if currentWidth > 0 {
			sep = 1
		}
		if currentWidth+sep+wordWidth > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += wordWidth
	}
	flush()
	return lines
}

func breakWord(word string, width int) []string {
	var lines []string
	var current strings.Builder
	currentWidth := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if currentWidth > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
