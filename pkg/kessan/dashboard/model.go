package dashboard

import (
	"fmt"
	"strings"

	"github.com/komsit37/kessan/pkg/kessan/columns"
	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/metrics"
	"github.com/komsit37/kessan/pkg/kessan/settings"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Tab is one statement view.
type Tab string

const (
	TabPL Tab = "pl"
	TabBS Tab = "bs"
	TabCF Tab = "cf"
)

// Tabs in display order. DefaultTab is the tab a dashboard opens on.
var (
	Tabs       = []Tab{TabPL, TabBS, TabCF}
	DefaultTab = TabCF
)

// Title returns the tab button label.
func (t Tab) Title() string {
	switch t {
	case TabPL:
		return "損益計算書（P/L）"
	case TabBS:
		return "貸借対照表（B/S）"
	case TabCF:
		return "キャッシュフロー（C/F）"
	}
	return string(t)
}

// ParseTabs parses "all" or a comma-separated list of tabs.
func ParseTabs(expr string) ([]Tab, error) {
	expr = strings.TrimSpace(strings.ToLower(expr))
	if expr == "" || expr == "all" {
		return append([]Tab(nil), Tabs...), nil
	}
	var out []Tab
	seen := map[Tab]struct{}{}
	for _, p := range strings.Split(expr, ",") {
		t := Tab(strings.TrimSpace(p))
		switch t {
		case TabPL, TabBS, TabCF:
		default:
			return nil, fmt.Errorf("unknown tab %q (want all, pl, bs or cf)", p)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// Header identifies the company and period.
type Header struct {
	Name             string `json:"name"`
	Code             string `json:"code"`
	Market           string `json:"market"`
	Period           string `json:"period"`
	AnnouncementDate string `json:"announcementDate"`
}

// Quote is an optional live share-price line.
type Quote struct {
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Change   string `json:"change"`
	Negative bool   `json:"negative"`
}

// Card is a KPI card.
type Card struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	YoYChange   string `json:"yoyChange,omitempty"`
	YoYNegative bool   `json:"yoyNegative,omitempty"`
	Negative    bool   `json:"negative,omitempty"`
}

// Bar is one bar or stacked segment, in millions of yen.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarGroup is one category on the chart's x axis. Plain bar charts have a
// single segment per group.
type BarGroup struct {
	Label    string `json:"label"`
	Segments []Bar  `json:"segments"`
}

// ChartKind selects how groups are drawn.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartStacked ChartKind = "stacked"
	ChartGrouped ChartKind = "grouped"
)

// Chart is an axis-scaled chart. Axis comes from the resolved settings slot.
type Chart struct {
	Title     string                `json:"title"`
	Subtitle  string                `json:"subtitle,omitempty"`
	Kind      ChartKind             `json:"kind"`
	Slot      string                `json:"slot"`
	Axis      types.ChartAxisConfig `json:"axis"`
	Groups    []BarGroup            `json:"groups"`
	Reference *Bar                  `json:"reference,omitempty"`
}

// Table is a multi-period comparison.
type Table struct {
	Title   string           `json:"title"`
	Columns []string         `json:"columns"`
	Rows    [][]columns.Cell `json:"rows"`
}

// PanelItem is one line of a breakdown panel.
type PanelItem struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Percent  string `json:"percent,omitempty"`
	Negative bool   `json:"negative,omitempty"`
}

// Panel is a breakdown panel with an optional resolved comment.
type Panel struct {
	Title      string      `json:"title"`
	Items      []PanelItem `json:"items"`
	CommentKey string      `json:"commentKey,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	HasComment bool        `json:"hasComment"`
}

// Section is the content of one tab.
type Section struct {
	Tab    Tab      `json:"tab"`
	Title  string   `json:"title"`
	Cards  []Card   `json:"cards"`
	Charts []Chart  `json:"charts"`
	Tables []Table  `json:"tables,omitempty"`
	Panels []Panel  `json:"panels"`
	Notes  []string `json:"notes,omitempty"`
}

// Dashboard is everything a renderer needs for one company. It is built
// from the record and never mutated by renderers.
type Dashboard struct {
	Header    Header                                   `json:"header"`
	Quote     *Quote                                   `json:"quote,omitempty"`
	ActiveTab Tab                                      `json:"activeTab"`
	Settings  settings.Resolved                        `json:"settings"`
	Metrics   metrics.DerivedMetrics                   `json:"metrics"`
	Totals    metrics.Totals                           `json:"totals"`
	Comments  map[string]map[string]comments.Resolved `json:"comments"`
	Sections  []Section                                `json:"sections"`
}

// Section returns the section for tab.
func (d Dashboard) Section(tab Tab) (Section, bool) {
	for _, s := range d.Sections {
		if s.Tab == tab {
			return s, true
		}
	}
	return Section{}, false
}
