package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	barRune       = "█"
	maxLabelWidth = 40
	minBarWidth   = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C9F70"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	wordStyles = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4C9F70")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
)

// RenderTerminal draws c as rows of block characters scaled to width
// display columns. Both orientations render one row per bar.
func RenderTerminal(c Chart, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("\n")
	if len(c.Bars) == 0 {
		b.WriteString(axisStyle.Render("(no data)"))
		b.WriteString("\n")
		return b.String()
	}

	labelW := 0
	valueW := 0
	for _, bar := range c.Bars {
		if w := runewidth.StringWidth(bar.Label); w > labelW {
			labelW = w
		}
		if w := len(formatValue(bar.Value)); w > valueW {
			valueW = w
		}
	}
	if labelW > maxLabelWidth {
		labelW = maxLabelWidth
	}
	barW := width - labelW - valueW - 3
	if barW < minBarWidth {
		barW = minBarWidth
	}
	maxV := c.Max()

	for _, bar := range c.Bars {
		label := runewidth.Truncate(bar.Label, labelW, "…")
		label += strings.Repeat(" ", labelW-runewidth.StringWidth(label))
		n := 0
		if maxV > 0 && bar.Value > 0 {
			n = int(math.Round(bar.Value / maxV * float64(barW)))
			if n == 0 {
				n = 1
			}
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(strings.Repeat(barRune, n)))
		b.WriteString(" ")
		b.WriteString(formatValue(bar.Value))
		b.WriteString("\n")
	}
	if c.XLabel != "" || c.YLabel != "" {
		axis := c.YLabel
		if c.Horizontal {
			axis = c.XLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%s%s", strings.Repeat(" ", labelW+1), axis)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderWords lays out words as a wrapped, frequency-weighted listing.
// The most frequent quarter is emphasised most strongly.
func RenderWords(title string, words []Bar, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(words) == 0 {
		b.WriteString(axisStyle.Render("(no words)"))
		b.WriteString("\n")
		return b.String()
	}
	maxV := maxValue(words)
	lineW := 0
	for i, w := range words {
		item := fmt.Sprintf("%s(%s)", w.Label, formatValue(w.Value))
		iw := runewidth.StringWidth(item)
		if lineW > 0 && lineW+1+iw > width {
			b.WriteString("\n")
			lineW = 0
		}
		if lineW > 0 {
			b.WriteString(" ")
			lineW++
		}
		b.WriteString(wordStyles[tier(w.Value, maxV, len(wordStyles))].Render(item))
		lineW += iw
		if i == len(words)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// tier maps v onto 0..n-1, 0 being the heaviest.
func tier(v, maxV float64, n int) int {
	if maxV <= 0 {
		return n - 1
	}
	t := int((1 - v/maxV) * float64(n))
	if t >= n {
		t = n - 1
	}
	if t < 0 {
		t = 0
	}
	return t
}
