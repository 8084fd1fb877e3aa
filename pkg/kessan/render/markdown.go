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

// MarkdownRenderer writes GitHub-flavoured markdown: go-pretty pipe tables
// for cards, comparisons and panels, fenced text charts, and blockquoted
// comments. Record text is escaped so it renders as written.
type MarkdownRenderer struct{}

func NewMarkdownRenderer() *MarkdownRenderer { return &MarkdownRenderer{} }

func (r *MarkdownRenderer) Render(w io.Writer, boards []dashboard.Dashboard, opts RenderOptions) error {
	_, err := io.WriteString(w, Markdown(boards, opts))
	return err
}

// Markdown returns the markdown document for boards.
func Markdown(boards []dashboard.Dashboard, opts RenderOptions) string {
	var b strings.Builder
	for i, d := range boards {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		writeBoard(&b, d, opts)
	}
	return b.String()
}

func writeBoard(b *strings.Builder, d dashboard.Dashboard, opts RenderOptions) {
	h := d.Header
	fmt.Fprintf(b, "# %s\n\n", mdText(h.Name))
	var meta []string
	for _, kv := range [][2]string{
		{"証券コード", h.Code},
		{"市場", h.Market},
		{"決算期", h.Period},
		{"発表日", h.AnnouncementDate},
	} {
		if kv[1] != "" {
			meta = append(meta, kv[0]+": "+mdText(kv[1]))
		}
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " ・ ") + "\n\n")
	}
	if q := d.Quote; q != nil {
		fmt.Fprintf(b, "株価 (%s): **%s** %s\n\n", mdText(q.Symbol), mdText(q.Price), mdText(q.Change))
	}

	for _, sec := range d.Sections {
		fmt.Fprintf(b, "## %s\n\n", mdText(sec.Title))
		writeCards(b, sec.Cards)
		for _, ch := range sec.Charts {
			fmt.Fprintf(b, "### %s（億円）\n\n", mdText(ch.Title))
			b.WriteString("```text\n")
			for _, line := range drawChart(ch, opts.Width, false) {
				b.WriteString(line + "\n")
			}
			b.WriteString("```\n\n")
		}
		for _, t := range sec.Tables {
			fmt.Fprintf(b, "### %s（億円）\n\n", mdText(t.Title))
			writeComparison(b, t)
		}
		for _, p := range sec.Panels {
			fmt.Fprintf(b, "### %s\n\n", mdText(p.Title))
			if len(p.Items) > 0 {
				tw := newMarkdownTable(table.Row{"項目", "金額"})
				for _, it := range p.Items {
					tw.AppendRow(table.Row{mdText(it.Label), mdText(panelValue(it))})
				}
				tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
				writeMarkdownTable(b, tw)
			}
			if p.HasComment {
				b.WriteString(mdQuote(p.Comment))
			}
		}
		for _, n := range sec.Notes {
			b.WriteString(mdBlock(n) + "\n\n")
		}
	}
}

func writeCards(b *strings.Builder, cards []dashboard.Card) {
	if len(cards) == 0 {
		return
	}
	tw := newMarkdownTable(table.Row{"指標", "値", "前年比"})
	for _, c := range cards {
		v := mdText(cardValue(c))
		if c.Negative {
			v = "**" + v + "**"
		}
		tw.AppendRow(table.Row{mdText(c.Label), v, mdText(c.YoYChange)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	writeMarkdownTable(b, tw)
}

func writeComparison(b *strings.Builder, t dashboard.Table) {
	hdr := make(table.Row, len(t.Columns))
	cfgs := make([]table.ColumnConfig, 0, len(t.Columns))
	for i, c := range t.Columns {
		if c == columns.Period {
			hdr[i] = "期"
			continue
		}
		hdr[i] = mdText(c)
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
	}
	tw := newMarkdownTable(hdr)
	for _, cells := range t.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = mdText(c.Text)
		}
		tw.AppendRow(row)
	}
	tw.SetColumnConfigs(cfgs)
	writeMarkdownTable(b, tw)
}

func newMarkdownTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(header)
	return tw
}

func writeMarkdownTable(b *strings.Builder, tw table.Writer) {
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n\n")
}

// mdText escapes s for inline markdown (table cells, headings). Pipes and
// newlines in cells are left to the go-pretty table writer.
func mdText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_[]<>#~&", r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mdBlock is mdText for paragraph text: pipes are escaped and each line is
// kept from opening a list, heading underline or thematic break.
func mdBlock(s string) string {
	lines := strings.Split(strings.ReplaceAll(mdText(s), "|", `\|`), "\n")
	for i, l := range lines {
		lines[i] = escapeLineStart(l)
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(l string) string {
	trimmed := strings.TrimLeft(l, " ")
	indent := l[:len(l)-len(trimmed)]
	if trimmed == "" {
		return l
	}
	if strings.ContainsRune("-+=", rune(trimmed[0])) {
		return indent + "\\" + trimmed
	}
	n := 0
	for n < len(trimmed) && trimmed[n] >= '0' && trimmed[n] <= '9' {
		n++
	}
	if n > 0 && n < len(trimmed) && (trimmed[n] == '.' || trimmed[n] == ')') {
		return indent + trimmed[:n] + "\\" + trimmed[n:]
	}
	return l
}

// mdQuote renders a comment as a blockquote, keeping its line breaks inside
// the quote as hard breaks.
func mdQuote(s string) string {
	lines := strings.Split(mdBlock(strings.TrimRight(s, "\n")), "\n")
	return "> " + strings.Join(lines, "\\\n> ") + "\n\n"
}
