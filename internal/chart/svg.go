package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"unicode/utf8"
)

const (
	marginTop    = 36
	marginRight  = 20
	marginBottom = 48
	marginLeft   = 56
	charWidth    = 7.0
	maxSVGLabel  = 28
)

var palette = []string{"#5B8DEF", "#4C9F70", "#FF6B6B", "#F2A541", "#8E6FD8", "#2BB3C0"}

type svgRect struct {
	X, Y, W, H     float64
	Label, Value   string
	LabelX, LabelY float64
	ValueX, ValueY float64
}

type svgChart struct {
	W, H                           int
	Title, XLabel, YLabel          string
	Horizontal, Empty              bool
	Rects                          []svgRect
	AxisX1, AxisY1, AxisX2, AxisY2 float64
	XLabelX, XLabelY               float64
	YLabelY                        float64
	Fill                           string
}

var chartTmpl = template.Must(template.New("chart").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.W}}" height="{{.H}}" viewBox="0 0 {{.W}} {{.H}}" font-family="sans-serif" font-size="12">
<rect width="100%" height="100%" fill="#ffffff"/>
<text x="{{.XLabelX}}" y="20" text-anchor="middle" font-size="15" font-weight="bold">{{.Title}}</text>
{{- if .Empty}}
<text x="{{.XLabelX}}" y="{{.YLabelY}}" text-anchor="middle" fill="#888888">no data</text>
{{- end}}
{{- range .Rects}}
<rect x="{{printf "%.1f" .X}}" y="{{printf "%.1f" .Y}}" width="{{printf "%.1f" .W}}" height="{{printf "%.1f" .H}}" fill="{{$.Fill}}"><title>{{.Label}}: {{.Value}}</title></rect>
{{- if $.Horizontal}}
<text x="{{printf "%.1f" .LabelX}}" y="{{printf "%.1f" .LabelY}}" text-anchor="end" dominant-baseline="middle">{{.Label}}</text>
<text x="{{printf "%.1f" .ValueX}}" y="{{printf "%.1f" .ValueY}}" dominant-baseline="middle" fill="#444444">{{.Value}}</text>
{{- else}}
<text x="{{printf "%.1f" .LabelX}}" y="{{printf "%.1f" .LabelY}}" text-anchor="middle">{{.Label}}</text>
<text x="{{printf "%.1f" .ValueX}}" y="{{printf "%.1f" .ValueY}}" text-anchor="middle" fill="#444444">{{.Value}}</text>
{{- end}}
{{- end}}
<line x1="{{printf "%.1f" .AxisX1}}" y1="{{printf "%.1f" .AxisY1}}" x2="{{printf "%.1f" .AxisX2}}" y2="{{printf "%.1f" .AxisY2}}" stroke="#444444"/>
<text x="{{printf "%.1f" .XLabelX}}" y="{{printf "%.1f" .XLabelY}}" text-anchor="middle">{{.XLabel}}</text>
<text x="14" y="{{printf "%.1f" .YLabelY}}" text-anchor="middle" transform="rotate(-90 14 {{printf "%.1f" .YLabelY}})">{{.YLabel}}</text>
</svg>
`))

// SVG renders c as a standalone SVG document of w by h pixels.
func SVG(c Chart, w, h int) (template.HTML, error) {
	if w <= marginLeft+marginRight || h <= marginTop+marginBottom {
		return "", fmt.Errorf("chart size %dx%d too small", w, h)
	}
	d := svgChart{
		W: w, H: h,
		Title: c.Title, XLabel: c.XLabel, YLabel: c.YLabel,
		Horizontal: c.Horizontal,
		Empty:      len(c.Bars) == 0,
		Fill:       palette[0],
	}
	maxV := c.Max()
	if c.Horizontal {
		layoutHorizontal(&d, c.Bars, maxV)
	} else {
		layoutVertical(&d, c.Bars, maxV)
	}
	d.XLabelX = float64(w) / 2
	d.XLabelY = float64(h) - 10
	d.YLabelY = float64(h) / 2

	var buf bytes.Buffer
	if err := chartTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render chart %q: %w", c.Title, err)
	}
	return template.HTML(buf.String()), nil
}

func layoutVertical(d *svgChart, bars []Bar, maxV float64) {
	left, top := float64(marginLeft), float64(marginTop)
	plotW := float64(d.W - marginLeft - marginRight)
	plotH := float64(d.H - marginTop - marginBottom)
	base := top + plotH
	d.AxisX1, d.AxisY1, d.AxisX2, d.AxisY2 = left, base, left+plotW, base
	if len(bars) == 0 {
		return
	}
	slot := plotW / float64(len(bars))
	bw := slot * 0.7
	for i, b := range bars {
		bh := 0.0
		if maxV > 0 {
			bh = b.Value / maxV * (plotH - 14)
		}
		x := left + float64(i)*slot + (slot-bw)/2
		d.Rects = append(d.Rects, svgRect{
			X: x, Y: base - bh, W: bw, H: bh,
			Label:  shorten(b.Label),
			Value:  formatValue(b.Value),
			LabelX: x + bw/2, LabelY: base + 16,
			ValueX: x + bw/2, ValueY: base - bh - 4,
		})
	}
}

func layoutHorizontal(d *svgChart, bars []Bar, maxV float64) {
	labelW := 0
	for _, b := range bars {
		if n := utf8.RuneCountInString(shorten(b.Label)); n > labelW {
			labelW = n
		}
	}
	left := math.Max(float64(marginLeft), float64(labelW)*charWidth+12)
	if limit := float64(d.W) / 2; left > limit {
		left = limit
	}
	top := float64(marginTop)
	plotW := float64(d.W-marginRight) - left - 40
	plotH := float64(d.H - marginTop - marginBottom)
	d.AxisX1, d.AxisY1, d.AxisX2, d.AxisY2 = left, top, left, top+plotH
	if len(bars) == 0 || plotW <= 0 {
		return
	}
	slot := plotH / float64(len(bars))
	bh := slot * 0.7
	for i, b := range bars {
		bw := 0.0
		if maxV > 0 {
			bw = b.Value / maxV * plotW
		}
		y := top + float64(i)*slot + (slot-bh)/2
		d.Rects = append(d.Rects, svgRect{
			X: left, Y: y, W: bw, H: bh,
			Label:  shorten(b.Label),
			Value:  formatValue(b.Value),
			LabelX: left - 6, LabelY: y + bh/2,
			ValueX: left + bw + 4, ValueY: y + bh/2,
		})
	}
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxSVGLabel {
		return s
	}
	return string(r[:maxSVGLabel-1]) + "…"
}

type cloudWord struct {
	Text  string
	X, Y  float64
	Size  float64
	Color string
}

var cloudTmpl = template.Must(template.New("cloud").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.W}}" height="{{.H}}" viewBox="0 0 {{.W}} {{.H}}" font-family="sans-serif">
<rect width="100%" height="100%" fill="#ffffff"/>
<text x="{{.Mid}}" y="20" text-anchor="middle" font-size="15" font-weight="bold">{{.Title}}</text>
{{- range .Words}}
<text x="{{printf "%.1f" .X}}" y="{{printf "%.1f" .Y}}" font-size="{{printf "%.1f" .Size}}" fill="{{.Color}}">{{.Text}}</text>
{{- end}}
</svg>
`))

// WordCloudSVG lays words out left to right in rows, sized by value.
// Words that no longer fit vertically are left out.
func WordCloudSVG(title string, words []Bar, w, h int) (template.HTML, error) {
	const minSize, maxSize, gap = 12.0, 44.0, 12.0
	if w < 100 || h < 60 {
		return "", fmt.Errorf("word cloud size %dx%d too small", w, h)
	}
	maxV := maxValue(words)
	var placed []cloudWord
	x, y := float64(marginRight), float64(marginTop)
	lineH := 0.0
	for i, word := range words {
		size := minSize
		if maxV > 0 {
			size = minSize + (maxSize-minSize)*word.Value/maxV
		}
		ww := float64(utf8.RuneCountInString(word.Label)) * size * 0.6
		if x > marginRight && x+ww > float64(w-marginRight) {
			x = marginRight
			y += lineH + 6
			lineH = 0
		}
		if y+size > float64(h-8) {
			break
		}
		if size > lineH {
			lineH = size
		}
		placed = append(placed, cloudWord{
			Text: word.Label, X: x, Y: y + size, Size: size,
			Color: palette[i%len(palette)],
		})
		x += ww + gap
	}
	data := struct {
		W, H  int
		Mid   float64
		Title string
		Words []cloudWord
	}{w, h, float64(w) / 2, title, placed}
	var buf bytes.Buffer
	if err := cloudTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render word cloud: %w", err)
	}
	return template.HTML(buf.String()), nil
}
