// Package dashboard assembles the per-company view model that every renderer
// consumes: header, resolved chart axes, derived metrics, resolved comments
// and one section per statement tab.
package dashboard

import (
	"fmt"

	"github.com/komsit37/kessan/pkg/kessan/columns"
	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/format"
	"github.com/komsit37/kessan/pkg/kessan/metrics"
	"github.com/komsit37/kessan/pkg/kessan/settings"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

const unitOku = "億円"

// Options control Build.
type Options struct {
	Lang comments.Lang
	// Tabs limits the sections built; empty builds all.
	Tabs []Tab
	// ActiveTab overrides DefaultTab.
	ActiveTab Tab
}

// Build assembles the dashboard for a validated record. Missing optional
// figures drop the card or panel line that would show them.
func Build(c types.Company, opts Options) Dashboard {
	m, totals := metrics.ForCompany(c)
	resolved := settings.Resolve(c.ChartSettings)
	lang := opts.Lang
	if lang == "" {
		lang = comments.LangEN
	}
	notes := comments.ResolveAll(c.Comments, comments.Defaults(m, lang))

	active := opts.ActiveTab
	if active == "" {
		active = DefaultTab
	}
	tabs := opts.Tabs
	if len(tabs) == 0 {
		tabs = Tabs
	}

	d := Dashboard{
		Header: Header{
			Name:             c.Name,
			Code:             c.Code,
			Market:           c.Market,
			Period:           c.Period,
			AnnouncementDate: c.AnnouncementDate,
		},
		ActiveTab: active,
		Settings:  resolved,
		Metrics:   m,
		Totals:    totals,
		Comments:  notes,
	}
	for _, t := range tabs {
		switch t {
		case TabPL:
			if c.PL != nil {
				d.Sections = append(d.Sections, plSection(*c.PL, c.PLComparison, resolved, totals))
			}
		case TabBS:
			if c.BS != nil {
				d.Sections = append(d.Sections, bsSection(*c.BS, resolved, totals, notes))
			}
		case TabCF:
			if c.CF != nil {
				d.Sections = append(d.Sections, cfSection(*c.CF, c.CFComparison, resolved, totals, notes))
			}
		}
	}
	return d
}

func figureCard(label string, f *types.StatementFigure, value func(float64) string) (Card, bool) {
	if f == nil {
		return Card{}, false
	}
	return Card{
		Label:       label,
		Value:       value(f.Value),
		Unit:        unitOku,
		YoYChange:   f.YoYChange,
		YoYNegative: format.IsNegativeChange(f.YoYChange),
		Negative:    f.Value < 0,
	}, true
}

func plSection(pl types.IncomeStatement, comparison []types.ComparisonRow, s settings.Resolved, totals metrics.Totals) Section {
	sec := Section{Tab: TabPL, Title: TabPL.Title()}

	for _, fc := range []struct {
		label string
		f     *types.StatementFigure
		value func(float64) string
	}{
		{"売上高", pl.Revenue, format.ToOku},
		{"営業利益", pl.OperatingIncome, format.ToOku},
		{"経常利益", pl.OrdinaryIncome, format.ToOkuDecimal},
		{"当期純利益", pl.NetIncome, format.ToOku},
	} {
		if card, ok := figureCard(fc.label, fc.f, fc.value); ok {
			sec.Cards = append(sec.Cards, card)
		}
	}

	structure := Chart{Title: "損益構造", Kind: ChartBar, Slot: settings.SlotPL, Axis: s.PL}
	for _, b := range []struct {
		label string
		f     *types.StatementFigure
	}{
		{"売上高", pl.Revenue},
		{"売上総利益", pl.GrossProfit},
		{"営業利益", pl.OperatingIncome},
		{"経常利益", pl.OrdinaryIncome},
		{"当期純利益", pl.NetIncome},
	} {
		if b.f == nil {
			continue
		}
		structure.Groups = append(structure.Groups, single(b.label, b.f.Value))
	}
	sec.Charts = append(sec.Charts, structure)

	if len(comparison) > 0 {
		title := fmt.Sprintf("%d期業績比較", len(comparison))
		cols := columns.Ordered(columns.Sets["pl"], comparison)
		sec.Charts = append(sec.Charts, comparisonChart(title, settings.SlotPL, s.PL, cols, comparison))
		sec.Tables = append(sec.Tables, comparisonTable(title, cols, comparison))
	}

	revenue := value(pl.Revenue)
	gross := value(pl.GrossProfit)
	ordinary := value(pl.OrdinaryIncome)

	if p, ok := breakdown("売上高", pl.Revenue, []panelLine{
		{label: "売上原価", f: pl.CostOfSales, base: revenue, pct: true},
		{label: "売上総利益", f: pl.GrossProfit, pctText: totals.GrossProfitMargin},
	}); ok {
		sec.Panels = append(sec.Panels, p)
	}
	if p, ok := breakdown("売上総利益", pl.GrossProfit, []panelLine{
		{label: "販管費", f: pl.SGA, base: gross, pct: true},
		{label: "営業利益", f: pl.OperatingIncome, base: gross, pct: true},
	}); ok {
		sec.Panels = append(sec.Panels, p)
	}
	if p, ok := breakdown("経常利益", pl.OrdinaryIncome, []panelLine{
		{label: "営業利益", f: pl.OperatingIncome, base: ordinary, pct: true},
		{label: "営業外損益", f: pl.NonOperating, base: ordinary, pct: true, decimal: true},
	}); ok {
		sec.Panels = append(sec.Panels, p)
	}
	if p, ok := breakdown("当期純利益", pl.NetIncome, []panelLine{
		{label: "経常利益", f: pl.OrdinaryIncome, decimal: true},
		{label: "特別損益・法人税等", f: pl.ExtraordinaryTax, signed: true},
	}); ok {
		sec.Panels = append(sec.Panels, p)
	}
	return sec
}

type panelLine struct {
	label   string
	f       *types.StatementFigure
	base    float64
	pct     bool
	pctText string
	decimal bool
	signed  bool
}

// breakdown builds a P/L panel titled with the headline figure. Lines whose
// figure is missing are skipped; a missing headline drops the panel.
func breakdown(title string, head *types.StatementFigure, lines []panelLine) (Panel, bool) {
	if head == nil {
		return Panel{}, false
	}
	p := Panel{Title: fmt.Sprintf("%s %s%s", title, format.ToOku(head.Value), unitOku)}
	for _, l := range lines {
		if l.f == nil {
			continue
		}
		item := PanelItem{Label: l.label, Negative: l.f.Value < 0}
		switch {
		case l.signed:
			item.Value = format.SignedOkuDecimal(l.f.Value)
		case l.decimal:
			item.Value = format.ToOkuDecimal(l.f.Value)
		default:
			item.Value = format.ToOku(l.f.Value)
		}
		switch {
		case l.pctText != "":
			item.Percent = l.pctText
		case l.pct:
			item.Percent = format.PercentOf(l.f.Value, l.base)
		}
		p.Items = append(p.Items, item)
	}
	return p, true
}

func bsSection(bs types.BalanceSheet, s settings.Resolved, totals metrics.Totals, notes map[string]map[string]comments.Resolved) Section {
	sec := Section{Tab: TabBS, Title: TabBS.Title()}
	sec.Cards = []Card{
		{Label: "総資産", Value: format.ToOku(totals.TotalAssets), Unit: unitOku},
		{Label: "負債合計", Value: format.ToOku(totals.TotalLiabilities), Unit: unitOku},
		{Label: "自己資本比率", Value: format.Number(bs.EquityRatio), Unit: "%"},
		{Label: "純資産", Value: format.ToOku(totals.TotalEquity), Unit: unitOku},
	}

	assets := bs.Assets.Ordered(types.AssetCategories)
	left := BarGroup{Label: "資産の部"}
	for _, it := range assets {
		left.Segments = append(left.Segments, Bar{Label: it.Label, Value: it.Value})
	}
	right := BarGroup{Label: "負債・純資産の部", Segments: []Bar{
		{Label: "流動負債", Value: bs.Liabilities.Current},
		{Label: "固定負債", Value: bs.Liabilities.NonCurrent},
		{Label: "純資産", Value: bs.Equity.NetAssets},
	}}
	sec.Charts = []Chart{{
		Title:  "貸借対照表の構成",
		Kind:   ChartStacked,
		Slot:   settings.SlotBS,
		Axis:   s.BS,
		Groups: []BarGroup{left, right},
	}}

	total := totals.TotalAssets
	assetPanel := Panel{Title: fmt.Sprintf("【資産の部】%s%s", format.ToOku(total), unitOku)}
	for _, it := range assets {
		assetPanel.Items = append(assetPanel.Items, PanelItem{
			Label:    it.Label,
			Value:    format.ToOku(it.Value),
			Percent:  format.PercentOf(it.Value, total),
			Negative: it.Value < 0,
		})
	}
	withComment(&assetPanel, notes, comments.SectionBS, comments.KeyAssets)

	liabPanel := Panel{
		Title: fmt.Sprintf("【負債・純資産の部】%s%s", format.ToOku(total), unitOku),
		Items: []PanelItem{
			{Label: "流動負債", Value: format.ToOku(bs.Liabilities.Current), Percent: format.PercentOf(bs.Liabilities.Current, total)},
			{Label: "固定負債", Value: format.ToOkuDecimal(bs.Liabilities.NonCurrent), Percent: format.PercentOf(bs.Liabilities.NonCurrent, total)},
			{Label: "純資産", Value: format.ToOku(bs.Equity.NetAssets), Percent: format.PercentOf(bs.Equity.NetAssets, total), Negative: bs.Equity.NetAssets < 0},
		},
	}
	withComment(&liabPanel, notes, comments.SectionBS, comments.KeyLiabilities)

	sec.Panels = []Panel{assetPanel, liabPanel}
	return sec
}

func cfSection(cf types.CashFlowStatement, comparison []types.ComparisonRow, s settings.Resolved, totals metrics.Totals, notes map[string]map[string]comments.Resolved) Section {
	sec := Section{Tab: TabCF, Title: TabCF.Title()}

	if card, ok := figureCard("営業CF", cf.Operating, format.ToOkuDecimal); ok {
		sec.Cards = append(sec.Cards, card)
	}
	if card, ok := figureCard("投資CF", cf.Investing, format.SignedOkuDecimal); ok {
		sec.Cards = append(sec.Cards, card)
	}
	if card, ok := figureCard("財務CF", cf.Financing, format.SignedOkuDecimal); ok {
		sec.Cards = append(sec.Cards, card)
	}
	free := value(cf.FreeCF)
	sec.Cards = append(sec.Cards, Card{
		Label:    "フリーCF",
		Value:    format.SignedOkuDecimal(free),
		Unit:     unitOku,
		Negative: free < 0,
	})

	operating, investing, financing := value(cf.Operating), value(cf.Investing), value(cf.Financing)
	opening, closing := value(cf.OpeningCash), value(cf.ClosingCash)

	sec.Charts = append(sec.Charts,
		Chart{
			Title: "キャッシュフロー構成",
			Kind:  ChartBar,
			Slot:  settings.SlotCFComposition,
			Axis:  s.CF.Composition,
			Groups: []BarGroup{
				single("営業CF", operating),
				single("投資CF", investing),
				single("財務CF", financing),
			},
			Reference: &Bar{Label: "フリーCF", Value: free},
		},
		Chart{
			Title: "現金増減フロー",
			Kind:  ChartBar,
			Slot:  settings.SlotCFWaterfall,
			Axis:  s.CF.Waterfall,
			Groups: []BarGroup{
				single("期首現金", opening),
				single("営業CF", operating),
				single("投資CF", investing),
				single("財務CF", financing),
				single("期末現金", closing),
			},
		},
	)

	sec.Notes = append(sec.Notes, fmt.Sprintf("現金増減: %s%s%s | 営業CF %s億 + 投資CF %s億 + 財務CF %s億 = %s億",
		plusSign(totals.CashChange), format.ToOkuDecimal(totals.CashChange), unitOku,
		format.ToOkuDecimal(operating), format.ToOkuDecimal(investing), format.ToOkuDecimal(financing),
		format.ToOkuDecimal(totals.CashFlowSum)))

	if len(comparison) > 0 {
		title := fmt.Sprintf("%d期キャッシュフロー比較", len(comparison))
		cols := columns.Ordered(columns.Sets["cf"], comparison)
		sec.Charts = append(sec.Charts, comparisonChart(title, settings.SlotCFComparison, s.CF.Comparison, cols, comparison))
		sec.Tables = append(sec.Tables, comparisonTable(title, cols, comparison))
	}

	for _, d := range []struct {
		label string
		total float64
		items types.LineItems
		key   string
		plus  bool
	}{
		{"営業CF", operating, cf.Details.Operating, comments.KeyOperating, true},
		{"投資CF", investing, cf.Details.Investing, comments.KeyInvesting, false},
		{"財務CF", financing, cf.Details.Financing, comments.KeyFinancing, false},
	} {
		p := Panel{Title: fmt.Sprintf("%s %s%s", d.label, format.ToOkuDecimal(d.total), unitOku)}
		for i, it := range d.items {
			v := format.ToOkuDecimal(it.Value)
			if d.plus && i > 0 && it.Value >= 0 {
				v = "+" + v
			}
			p.Items = append(p.Items, PanelItem{Label: it.Label, Value: v, Negative: it.Value < 0})
		}
		withComment(&p, notes, comments.SectionCF, d.key)
		sec.Panels = append(sec.Panels, p)
	}
	return sec
}

func comparisonChart(title, slot string, axis types.ChartAxisConfig, cols []string, rows []types.ComparisonRow) Chart {
	ch := Chart{Title: title, Kind: ChartGrouped, Slot: slot, Axis: axis}
	for _, row := range rows {
		g := BarGroup{Label: row.Period}
		for _, col := range cols[1:] {
			if v, ok := row.Values.Get(col); ok {
				g.Segments = append(g.Segments, Bar{Label: col, Value: v})
			}
		}
		ch.Groups = append(ch.Groups, g)
	}
	return ch
}

func comparisonTable(title string, cols []string, rows []types.ComparisonRow) Table {
	t := Table{Title: title, Columns: cols}
	for _, row := range rows {
		cells := make([]columns.Cell, len(cols))
		for i, col := range cols {
			cells[i] = columns.Value(col, row)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func withComment(p *Panel, notes map[string]map[string]comments.Resolved, section, key string) {
	p.CommentKey = section + "." + key
	r := notes[section][key]
	p.Comment, p.HasComment = r.Text, r.Shown
}

func single(label string, v float64) BarGroup {
	return BarGroup{Label: label, Segments: []Bar{{Label: label, Value: v}}}
}

func value(f *types.StatementFigure) float64 {
	if f == nil {
		return 0
	}
	return f.Value
}

func plusSign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}
