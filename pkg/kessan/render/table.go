package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/kessan/pkg/kessan/columns"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
)

// TableRenderer prints dashboards for a terminal: go-pretty tables for
// cards, comparisons and panels, and axis-scaled text bar charts.
type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, boards []dashboard.Dashboard, opts RenderOptions) error {
	for bi, d := range boards {
		fmt.Fprintln(w, bold(opts, headerLine(d.Header)))
		if q := d.Quote; q != nil {
			change := q.Change
			if opts.Color && change != "" {
				change = signColor(q.Negative).Sprint(change)
			}
			fmt.Fprintf(w, "株価 %s  %s  %s\n", q.Symbol, q.Price, change)
		}
		for _, sec := range d.Sections {
			fmt.Fprintln(w)
			title := sec.Title
			if sec.Tab == d.ActiveTab {
				title += " *"
			}
			fmt.Fprintln(w, bold(opts, "■ "+title))
			r.renderSection(w, sec, opts)
		}
		if bi < len(boards)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (r *TableRenderer) renderSection(w io.Writer, sec dashboard.Section, opts RenderOptions) {
	if len(sec.Cards) > 0 {
		tw := newTable(w, opts)
		hdr := make(table.Row, len(sec.Cards))
		vals := make(table.Row, len(sec.Cards))
		yoy := make(table.Row, len(sec.Cards))
		hasYoY := false
		for i, c := range sec.Cards {
			hdr[i] = c.Label
			v := cardValue(c)
			if opts.Color && c.Negative {
				v = text.Colors{text.FgRed}.Sprint(v)
			}
			vals[i] = v
			if c.YoYChange != "" {
				hasYoY = true
				y := c.YoYChange
				if opts.Color {
					y = signColor(c.YoYNegative).Sprint(y)
				}
				yoy[i] = y
			}
		}
		tw.AppendHeader(hdr)
		tw.AppendRow(vals)
		if hasYoY {
			tw.AppendRow(yoy)
		}
		tw.Render()
	}

	for _, ch := range sec.Charts {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold(opts, ch.Title+"（億円）"))
		for _, line := range drawChart(ch, opts.Width, opts.Color) {
			fmt.Fprintln(w, line)
		}
	}

	for _, t := range sec.Tables {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold(opts, t.Title+"（億円）"))
		renderComparison(w, t, opts)
	}

	for _, p := range sec.Panels {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold(opts, p.Title))
		if len(p.Items) > 0 {
			tw := newTable(w, opts)
			for _, it := range p.Items {
				v := panelValue(it)
				if opts.Color && it.Negative {
					v = text.Colors{text.FgRed}.Sprint(v)
				}
				tw.AppendRow(table.Row{it.Label, v})
			}
			tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
			tw.Render()
		}
		if p.HasComment {
			fmt.Fprintln(w, "  "+p.Comment)
		}
	}

	if len(sec.Notes) > 0 {
		fmt.Fprintln(w)
		for _, n := range sec.Notes {
			fmt.Fprintln(w, n)
		}
	}
}

func renderComparison(w io.Writer, t dashboard.Table, opts RenderOptions) {
	tw := newTable(w, opts)
	hdr := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		if c == columns.Period {
			c = "期"
		}
		hdr[i] = c
	}
	tw.AppendHeader(hdr)

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(t.Columns))
	for i, c := range t.Columns {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		if c != columns.Period {
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	tw.SetColumnConfigs(cfgs)

	for _, cells := range t.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			v := c.Text
			if opts.Color && c.Negative {
				v = text.Colors{text.FgRed}.Sprint(v)
			}
			row[i] = v
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func newTable(w io.Writer, opts RenderOptions) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func signColor(negative bool) text.Colors {
	if negative {
		return text.Colors{text.FgRed}
	}
	return text.Colors{text.FgGreen}
}

func bold(opts RenderOptions, s string) string {
	if !opts.Color {
		return s
	}
	return text.Bold.Sprint(strings.TrimSpace(s))
}
