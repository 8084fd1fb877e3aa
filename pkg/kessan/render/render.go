package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
)

// Renderer renders dashboards to an output writer.
type Renderer interface {
	Render(w io.Writer, boards []dashboard.Dashboard, opts RenderOptions) error
}

type RenderOptions struct {
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	// Width is the chart bar area in columns; 0 uses DefaultChartWidth.
	Width int
}

// DefaultChartWidth is the bar area used when no width is known.
const DefaultChartWidth = 48

// Formats accepted by New.
var Formats = []string{"table", "json", "markdown", "html", "codes"}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "html":
		return NewHTMLRenderer(), nil
	case "codes":
		return NewCodesRenderer(), nil
	}
	return nil, fmt.Errorf("unknown format %q (want %s)", format, strings.Join(Formats, ", "))
}

func headerLine(h dashboard.Header) string {
	parts := []string{h.Name}
	if h.Code != "" {
		parts = append(parts, "("+h.Code+")")
	}
	if h.Market != "" {
		parts = append(parts, h.Market)
	}
	line := strings.Join(parts, " ")
	if h.Period != "" {
		line += " ・ " + h.Period
	}
	if h.AnnouncementDate != "" {
		line += " ・ 発表日 " + h.AnnouncementDate
	}
	return line
}

func cardValue(c dashboard.Card) string {
	return c.Value + c.Unit
}

func panelValue(it dashboard.PanelItem) string {
	s := it.Value + "億円"
	if it.Percent != "" {
		s += " (" + it.Percent + "%)"
	}
	return s
}
