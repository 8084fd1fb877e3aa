package dashboard_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/settings"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

func loadSample(t *testing.T) types.Company {
	t.Helper()
	b, err := os.ReadFile("../../../testdata/kakiyasu.json")
	require.NoError(t, err)
	var c types.Company
	require.NoError(t, json.Unmarshal(b, &c))
	return c
}

func section(t *testing.T, d dashboard.Dashboard, tab dashboard.Tab) dashboard.Section {
	t.Helper()
	s, ok := d.Section(tab)
	require.True(t, ok, "section %s", tab)
	return s
}

func TestBuild_Header(t *testing.T) {
	t.Parallel()

	d := dashboard.Build(loadSample(t), dashboard.Options{})
	assert.Equal(t, "株式会社柿安本店", d.Header.Name)
	assert.Equal(t, "2294", d.Header.Code)
	assert.Equal(t, dashboard.TabCF, d.ActiveTab)
	assert.Equal(t, "280.3", d.Metrics.CurrentRatio)
	require.Len(t, d.Sections, 3)
	assert.Equal(t, dashboard.TabPL, d.Sections[0].Tab)
}

func TestBuild_PL(t *testing.T) {
	t.Parallel()

	pl := section(t, dashboard.Build(loadSample(t), dashboard.Options{}), dashboard.TabPL)

	require.Len(t, pl.Cards, 4)
	assert.Equal(t, dashboard.Card{Label: "売上高", Value: "361", Unit: "億円", YoYChange: "▲2.6%", YoYNegative: true}, pl.Cards[0])
	assert.Equal(t, "15.4", pl.Cards[2].Value)
	assert.Equal(t, "7", pl.Cards[3].Value)

	require.Len(t, pl.Charts, 2)
	assert.Equal(t, settings.SlotPL, pl.Charts[0].Slot)
	assert.Equal(t, [2]float64{0, 40000}, pl.Charts[0].Axis.Domain)
	assert.Len(t, pl.Charts[0].Groups, 5)
	assert.Equal(t, dashboard.ChartGrouped, pl.Charts[1].Kind)

	require.Len(t, pl.Tables, 1)
	assert.Equal(t, "5期業績比較", pl.Tables[0].Title)
	assert.Equal(t, []string{"period", "売上高", "営業利益", "経常利益", "純利益"}, pl.Tables[0].Columns)
	assert.Len(t, pl.Tables[0].Rows, 5)

	require.Len(t, pl.Panels, 4)
	revenue := pl.Panels[0]
	assert.Equal(t, "売上高 361億円", revenue.Title)
	assert.Equal(t, dashboard.PanelItem{Label: "売上原価", Value: "165", Percent: "45.8"}, revenue.Items[0])
	assert.Equal(t, dashboard.PanelItem{Label: "売上総利益", Value: "196", Percent: "54.2"}, revenue.Items[1])

	net := pl.Panels[3]
	assert.Equal(t, dashboard.PanelItem{Label: "特別損益・法人税等", Value: "▲8.4", Negative: true}, net.Items[1])
}

func TestBuild_PLMissingOptionalFigures(t *testing.T) {
	t.Parallel()

	c := loadSample(t)
	c.PL = &types.IncomeStatement{
		Revenue:   &types.StatementFigure{Value: 1000},
		NetIncome: &types.StatementFigure{Value: 100},
	}
	c.PLComparison = nil

	pl := section(t, dashboard.Build(c, dashboard.Options{}), dashboard.TabPL)
	assert.Len(t, pl.Cards, 2)
	assert.Len(t, pl.Charts[0].Groups, 2)
	assert.Empty(t, pl.Tables)
	require.Len(t, pl.Panels, 2)
	assert.Empty(t, pl.Panels[0].Items)
}

func TestBuild_BS(t *testing.T) {
	t.Parallel()

	bs := section(t, dashboard.Build(loadSample(t), dashboard.Options{}), dashboard.TabBS)

	assert.Equal(t, []dashboard.Card{
		{Label: "総資産", Value: "192", Unit: "億円"},
		{Label: "負債合計", Value: "42", Unit: "億円"},
		{Label: "自己資本比率", Value: "78.4", Unit: "%"},
		{Label: "純資産", Value: "150", Unit: "億円"},
	}, bs.Cards)

	require.Len(t, bs.Charts, 1)
	assert.Equal(t, dashboard.ChartStacked, bs.Charts[0].Kind)
	assert.Len(t, bs.Charts[0].Groups[0].Segments, 5)
	assert.Len(t, bs.Charts[0].Groups[1].Segments, 3)

	require.Len(t, bs.Panels, 2)
	assets := bs.Panels[0]
	assert.Equal(t, dashboard.PanelItem{Label: "現金預金", Value: "80", Percent: "41.6"}, assets.Items[0])
	assert.True(t, assets.HasComment)
	assert.Equal(t, "Current ratio 280.3% / Cash ratio 41.6%", assets.Comment)
	assert.Equal(t, "bs.assets", assets.CommentKey)

	liab := bs.Panels[1]
	assert.Equal(t, dashboard.PanelItem{Label: "固定負債", Value: "0.4", Percent: "0.2"}, liab.Items[1])
	assert.Equal(t, "Equity ratio 78.4%", liab.Comment)
}

func TestBuild_CF(t *testing.T) {
	t.Parallel()

	cf := section(t, dashboard.Build(loadSample(t), dashboard.Options{}), dashboard.TabCF)

	require.Len(t, cf.Cards, 4)
	assert.Equal(t, dashboard.Card{Label: "営業CF", Value: "17.5", Unit: "億円", YoYChange: "+23.8%"}, cf.Cards[0])
	assert.Equal(t, "▲29.5", cf.Cards[1].Value)
	assert.True(t, cf.Cards[1].YoYNegative)
	assert.Equal(t, dashboard.Card{Label: "フリーCF", Value: "▲12.1", Unit: "億円", Negative: true}, cf.Cards[3])

	require.Len(t, cf.Charts, 3)
	composition := cf.Charts[0]
	assert.Equal(t, settings.SlotCFComposition, composition.Slot)
	assert.Equal(t, [2]float64{-4000, 4000}, composition.Axis.Domain)
	require.NotNil(t, composition.Reference)
	assert.Equal(t, -1208.0, composition.Reference.Value)

	waterfall := cf.Charts[1]
	assert.Equal(t, settings.SlotCFWaterfall, waterfall.Slot)
	var labels []string
	for _, g := range waterfall.Groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"期首現金", "営業CF", "投資CF", "財務CF", "期末現金"}, labels)

	require.Len(t, cf.Notes, 1)
	assert.True(t, strings.HasPrefix(cf.Notes[0], "現金増減: -21.1億円"), cf.Notes[0])

	require.Len(t, cf.Tables, 1)
	assert.Equal(t, []string{"period", "営業CF", "投資CF", "財務CF", "フリーCF", "期末現金"}, cf.Tables[0].Columns)

	require.Len(t, cf.Panels, 3)
	op := cf.Panels[0]
	assert.Equal(t, []dashboard.PanelItem{
		{Label: "税前利益", Value: "11.0"},
		{Label: "減価償却費", Value: "+6.0"},
		{Label: "運転資本増減", Value: "+0.5"},
	}, op.Items)
	assert.Equal(t, "Operating CF margin 4.8% / CF-to-net-income ratio 249%", op.Comment)

	inv := cf.Panels[1]
	assert.True(t, inv.HasComment)
	assert.Equal(t, "※ One-time expenditure for full acquisition of Akatsuka Kousan", inv.Comment)
	assert.Equal(t, dashboard.PanelItem{Label: "子会社株式取得", Value: "-23.8", Negative: true}, inv.Items[0])
}

func TestBuild_CommentOverrides(t *testing.T) {
	t.Parallel()

	c := loadSample(t)
	c.Comments = types.Comments{
		"bs": {"assets": types.HiddenComment()},
		"cf": {"investing": types.HiddenComment()},
	}
	d := dashboard.Build(c, dashboard.Options{Lang: comments.LangJA})

	bs := section(t, d, dashboard.TabBS)
	assert.False(t, bs.Panels[0].HasComment)
	assert.Empty(t, bs.Panels[0].Comment)
	assert.Equal(t, "自己資本比率78.4%", bs.Panels[1].Comment)

	cf := section(t, d, dashboard.TabCF)
	assert.False(t, cf.Panels[1].HasComment)
	assert.False(t, cf.Panels[2].HasComment)
}

func TestBuild_DefaultAxes(t *testing.T) {
	t.Parallel()

	c := loadSample(t)
	c.ChartSettings = nil
	d := dashboard.Build(c, dashboard.Options{Tabs: []dashboard.Tab{dashboard.TabBS}, ActiveTab: dashboard.TabBS})

	require.Len(t, d.Sections, 1)
	assert.Equal(t, dashboard.TabBS, d.ActiveTab)
	assert.Equal(t, settings.Defaults().BS, d.Sections[0].Charts[0].Axis)
}

func TestBuild_ZeroDenominators(t *testing.T) {
	t.Parallel()

	c := loadSample(t)
	c.BS.Assets = nil
	c.BS.Liabilities.Current = 0
	d := dashboard.Build(c, dashboard.Options{})

	bs := section(t, d, dashboard.TabBS)
	assert.Empty(t, bs.Panels[0].Items)
	assert.Equal(t, "-", bs.Panels[1].Items[0].Percent)
	assert.Equal(t, "Current ratio -% / Cash ratio -%", bs.Panels[0].Comment)
}

func TestParseTabs(t *testing.T) {
	t.Parallel()

	got, err := dashboard.ParseTabs("all")
	require.NoError(t, err)
	assert.Equal(t, dashboard.Tabs, got)

	got, err = dashboard.ParseTabs("cf, pl,cf")
	require.NoError(t, err)
	assert.Equal(t, []dashboard.Tab{dashboard.TabCF, dashboard.TabPL}, got)

	_, err = dashboard.ParseTabs("is")
	assert.Error(t, err)
}
