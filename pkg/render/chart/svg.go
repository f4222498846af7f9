package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/pipeflow/pkg/cost"
)

const (
	defaultWidth  = 720.0
	defaultHeight = 440.0

	marginLeft   = 90.0
	marginRight  = 150.0
	marginTop    = 40.0
	marginBottom = 60.0
)

type series struct {
	name  string
	color string
	value func(cost.Point) float64
}

var allSeries = []series{
	{"Operating", "#1f77b4", func(p cost.Point) float64 { return p.Operating }},
	{"Capital", "#ff7f0e", func(p cost.Point) float64 { return p.Capital }},
	{"Total", "#2ca02c", func(p cost.Point) float64 { return p.Total }},
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	title         string
	best          *cost.Point
}

func WithSize(w, h float64) SVGOption  { return func(r *svgRenderer) { r.width, r.height = w, h } }
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }
func WithBest(p cost.Point) SVGOption  { return func(r *svgRenderer) { r.best = &p } }

// RenderSVG draws curve, which must be diameter-ascending. An empty curve
// yields an empty frame.
func RenderSVG(curve []cost.Point, opts ...SVGOption) []byte {
	r := svgRenderer{width: defaultWidth, height: defaultHeight, title: "Annualized cost vs. pipe diameter"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="white"/>`+"\n", r.width, r.height)
	fmt.Fprintf(&buf, `  <text x="%.1f" y="24" text-anchor="middle" font-size="16">%s</text>`+"\n",
		r.width/2, html.EscapeString(r.title))

	if len(curve) > 0 {
		r.renderPlot(&buf, curve)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frame maps data coordinates to pixels.
type frame struct {
	x0, x1, y0, y1 float64 // data bounds
	left, right    float64 // pixel bounds
	top, bottom    float64
}

func (f frame) px(x float64) float64 {
	if f.x1 == f.x0 {
		return (f.left + f.right) / 2
	}
	return f.left + (x-f.x0)/(f.x1-f.x0)*(f.right-f.left)
}

func (f frame) py(y float64) float64 {
	return f.bottom - (y-f.y0)/(f.y1-f.y0)*(f.bottom-f.top)
}

func (r *svgRenderer) renderPlot(buf *bytes.Buffer, curve []cost.Point) {
	var ymax float64
	for _, p := range curve {
		for _, s := range allSeries {
			ymax = math.Max(ymax, s.value(p))
		}
	}
	yticks := niceTicks(0, ymax, 5)

	f := frame{
		x0: curve[0].Inches(), x1: curve[len(curve)-1].Inches(),
		y0: 0, y1: yticks[len(yticks)-1],
		left: marginLeft, right: r.width - marginRight,
		top: marginTop, bottom: r.height - marginBottom,
	}
	if f.y1 == 0 {
		f.y1 = 1
	}

	renderAxes(buf, f, curve, yticks)
	for _, s := range allSeries {
		renderSeries(buf, f, curve, s)
	}
	if r.best != nil {
		x, y := f.px(r.best.Inches()), f.py(r.best.Total)
		fmt.Fprintf(buf, `  <circle class="best" cx="%.1f" cy="%.1f" r="6" fill="none" stroke="#d62728" stroke-width="2"/>`+"\n", x, y)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12" fill="#d62728">min %s at %.3g in</text>`+"\n",
			x+8, y-10, money(r.best.Total), r.best.Inches())
	}
	renderLegend(buf, f)
}

func renderAxes(buf *bytes.Buffer, f frame, curve []cost.Point, yticks []float64) {
	fmt.Fprintf(buf, `  <g stroke="#333" stroke-width="1">`+"\n")
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", f.left, f.bottom, f.right, f.bottom)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", f.left, f.top, f.left, f.bottom)
	buf.WriteString("  </g>\n")

	for _, p := range curve {
		x := f.px(p.Inches())
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n", x, f.bottom, x, f.bottom+5)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="11">%g</text>`+"\n", x, f.bottom+18, round(p.Inches()))
	}
	for _, v := range yticks {
		y := f.py(v)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ddd"/>`+"\n", f.left, y, f.right, y)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n", f.left-6, y+4, money(v))
	}

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="13">Diameter (in)</text>`+"\n",
		(f.left+f.right)/2, f.bottom+42)
	fmt.Fprintf(buf, `  <text x="20" y="%.1f" text-anchor="middle" font-size="13" transform="rotate(-90 20 %.1f)">Cost ($/year)</text>`+"\n",
		(f.top+f.bottom)/2, (f.top+f.bottom)/2)
}

func renderSeries(buf *bytes.Buffer, f frame, curve []cost.Point, s series) {
	fmt.Fprintf(buf, `  <polyline class="series" data-series="%s" fill="none" stroke="%s" stroke-width="2" points="`, s.name, s.color)
	for i, p := range curve {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.1f,%.1f", f.px(p.Inches()), f.py(s.value(p)))
	}
	buf.WriteString(`"/>` + "\n")
	for _, p := range curve {
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>`+"\n", f.px(p.Inches()), f.py(s.value(p)), s.color)
	}
}

func renderLegend(buf *bytes.Buffer, f frame) {
	x := f.right + 20
	for i, s := range allSeries {
		y := f.top + 10 + float64(i)*22
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="3"/>`+"\n", x, y, x+24, y, s.color)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="12">%s</text>`+"\n", x+30, y+4, s.name)
	}
}

// niceTicks returns about n evenly spaced round values covering [lo, hi].
func niceTicks(lo, hi float64, n int) []float64 {
	if hi <= lo {
		return []float64{lo}
	}
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := mag
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*mag >= raw {
			step = m * mag
			break
		}
	}
	var ticks []float64
	for v := math.Floor(lo/step) * step; v < hi+step; v += step {
		ticks = append(ticks, v)
		if v >= hi {
			break
		}
	}
	return ticks
}

func money(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.3gM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.3gk", v/1e3)
	}
	return fmt.Sprintf("$%.0f", v)
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
