package render

import (
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/format"
)

var stackGlyphs = []rune{'█', '▓', '▒', '░', '▚'}

const (
	barGlyph = '█'
	refGlyph = '┊'
)

// scale maps amounts onto [0, width] columns using the chart's axis domain.
// Values outside the domain are clamped to its edges.
type scale struct {
	lo, hi float64
	width  int
}

func newScale(ch dashboard.Chart, width int) scale {
	lo, hi := ch.Axis.Domain[0], ch.Axis.Domain[1]
	if hi <= lo {
		lo, hi = 0, 0
		for _, g := range ch.Groups {
			var acc float64
			for _, s := range g.Segments {
				v := s.Value
				if ch.Kind == dashboard.ChartStacked {
					acc += s.Value
					v = acc
				}
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		if hi <= lo {
			hi = lo + 1
		}
	}
	return scale{lo: lo, hi: hi, width: width}
}

func (s scale) pos(v float64) int {
	v = math.Max(s.lo, math.Min(s.hi, v))
	return int(math.Round((v - s.lo) / (s.hi - s.lo) * float64(s.width)))
}

type chartRow struct {
	label string
	cells []rune
	color []text.Colors
	value string
}

// drawChart renders a chart as horizontal bars, one line per bar (or per
// stacked group), followed by the tick axis.
func drawChart(ch dashboard.Chart, width int, color bool) []string {
	if width <= 0 {
		width = DefaultChartWidth
	}
	sc := newScale(ch, width)
	zero := sc.pos(0)

	newRow := func(label string) chartRow {
		r := chartRow{label: label, cells: make([]rune, width+1), color: make([]text.Colors, width+1)}
		for i := range r.cells {
			r.cells[i] = ' '
		}
		return r
	}
	fill := func(r *chartRow, from, to int, glyph rune, c text.Colors) {
		if from > to {
			from, to = to, from
		}
		// A non-zero amount always shows at least one cell.
		if from == to {
			if to < width {
				to++
			} else {
				from--
			}
		}
		for i := from; i < to; i++ {
			r.cells[i] = glyph
			r.color[i] = c
		}
	}

	var rows []chartRow
	var legend []string
	switch ch.Kind {
	case dashboard.ChartStacked:
		for _, g := range ch.Groups {
			r := newRow(g.Label)
			var acc, total float64
			for i, s := range g.Segments {
				if s.Value != 0 {
					fill(&r, sc.pos(acc), sc.pos(acc+s.Value), stackGlyphs[i%len(stackGlyphs)], nil)
				}
				acc += s.Value
				total += s.Value
			}
			r.value = format.ToOku(total) + "億"
			rows = append(rows, r)
			var parts []string
			for i, s := range g.Segments {
				parts = append(parts, string(stackGlyphs[i%len(stackGlyphs)])+" "+s.Label+" "+format.ToOku(s.Value))
			}
			legend = append(legend, g.Label+": "+strings.Join(parts, "  "))
		}
	default:
		for _, g := range ch.Groups {
			for _, s := range g.Segments {
				label := g.Label
				if ch.Kind == dashboard.ChartGrouped {
					label = g.Label + " " + s.Label
				}
				r := newRow(label)
				var c text.Colors
				if color {
					c = text.Colors{text.FgGreen}
					if s.Value < 0 {
						c = text.Colors{text.FgRed}
					}
				}
				if s.Value != 0 {
					fill(&r, zero, sc.pos(s.Value), barGlyph, c)
				}
				r.value = format.ToOkuDecimal(s.Value) + "億"
				rows = append(rows, r)
			}
		}
	}

	if ch.Reference != nil {
		p := sc.pos(ch.Reference.Value)
		for i := range rows {
			if rows[i].cells[p] == ' ' {
				rows[i].cells[p] = refGlyph
			}
		}
		legend = append(legend, string(refGlyph)+" "+ch.Reference.Label+" "+format.SignedOkuDecimal(ch.Reference.Value)+"億円")
	}

	labelW := 0
	for _, r := range rows {
		labelW = max(labelW, text.RuneWidthWithoutEscSequences(r.label))
	}

	out := make([]string, 0, len(rows)+2+len(legend))
	for _, r := range rows {
		var b strings.Builder
		b.WriteString(padRight(r.label, labelW))
		b.WriteString(" │")
		for i, c := range r.cells {
			if r.color[i] != nil {
				b.WriteString(r.color[i].Sprint(string(c)))
				continue
			}
			b.WriteRune(c)
		}
		b.WriteString(" ")
		b.WriteString(r.value)
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	out = append(out, axisLines(sc, ch.Axis.Ticks, labelW)...)
	out = append(out, legend...)
	return out
}

// axisLines draws the baseline with tick marks and the tick labels in 億.
func axisLines(sc scale, ticks []float64, labelW int) []string {
	line := []rune(strings.Repeat("─", sc.width+1))
	labels := []rune(strings.Repeat(" ", sc.width+12))
	next := 0
	for _, t := range ticks {
		if t < sc.lo || t > sc.hi {
			continue
		}
		p := sc.pos(t)
		line[p] = '┴'
		l := []rune(format.ToOku(t))
		start := max(p-len(l)/2, 0)
		if start < next {
			continue
		}
		copy(labels[start:], l)
		next = start + len(l) + 1
	}
	pad := strings.Repeat(" ", labelW)
	return []string{
		pad + " └" + string(line),
		strings.TrimRight(pad+"  "+string(labels), " ") + " (億円)",
	}
}

func padRight(s string, w int) string {
	if n := text.RuneWidthWithoutEscSequences(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
