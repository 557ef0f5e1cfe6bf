package tui

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
}

// wrapText breaks text into lines no wider than width display cells,
// preferring to break at spaces. Existing newlines are kept.
func wrapText(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(text string, width int) []string {
	cells := make([]cell, 0, len(text))
	for _, r := range text {
		cells = append(cells, cell{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	if width <= 0 {
		return []string{renderCells(cells)}
	}

	var out []string
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if item.isSpace && lineWidth+item.width > width {
			out = append(out, renderCells(line))
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out = append(out, renderCells(line[:lastSpaceIdx]))
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out = append(out, renderCells(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out = append(out, renderCells(line))
	return out
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteRune(item.r)
	}
	return b.String()
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// phraseWidth maps the font scale onto the wrap width of the phrase body:
// the minimum scale uses 80% of the terminal, larger scales narrow it.
func phraseWidth(termWidth int, scale, minScale float64) int {
	if termWidth <= 0 {
		return 0
	}
	if scale <= 0 || minScale <= 0 {
		scale, minScale = 1, 1
	}
	w := int(math.Round(float64(termWidth) * 0.8 * (minScale / scale)))
	if w < 10 {
		w = 10
	}
	if w > termWidth {
		w = termWidth
	}
	return w
}
