// Package chart renders simple bar charts and word listings for the terminal
// and as SVG documents.
package chart

import "strconv"

// Bar is one labelled value.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is a titled series of bars. Horizontal charts draw one row per bar.
type Chart struct {
	Title      string `json:"title"`
	XLabel     string `json:"x_label"`
	YLabel     string `json:"y_label"`
	Bars       []Bar  `json:"bars"`
	Horizontal bool   `json:"horizontal"`
}

// Max returns the largest bar value, or 0 for an empty chart.
func (c Chart) Max() float64 { return maxValue(c.Bars) }

func maxValue(bars []Bar) float64 {
	var m float64
	for _, b := range bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
