package types

// Company is one dashboard record: a company's statements for a period plus
// optional chart and comment overrides.
type Company struct {
	Name             string                 `json:"name" yaml:"name" validate:"required"`
	Code             string                 `json:"code" yaml:"code"`
	Market           string                 `json:"market" yaml:"market"`
	Period           string                 `json:"period" yaml:"period"`
	AnnouncementDate string                 `json:"announcementDate" yaml:"announcementDate"`
	ChartSettings    *ChartSettingsOverride `json:"chartSettings,omitempty" yaml:"chartSettings,omitempty"`
	PL               *IncomeStatement       `json:"pl" yaml:"pl" validate:"required"`
	PLComparison     []ComparisonRow        `json:"plComparison,omitempty" yaml:"plComparison,omitempty"`
	BS               *BalanceSheet          `json:"bs" yaml:"bs" validate:"required"`
	CF               *CashFlowStatement     `json:"cf" yaml:"cf" validate:"required"`
	CFComparison     []ComparisonRow        `json:"cfComparison,omitempty" yaml:"cfComparison,omitempty"`
	Comments         Comments               `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// StatementFigure is a single line item with an optional year-over-year label
// such as "▲2.6%" or "+23.8%".
type StatementFigure struct {
	Value     float64 `json:"value" yaml:"value"`
	YoYChange string  `json:"yoyChange,omitempty" yaml:"yoyChange,omitempty"`
}

// IncomeStatement (P/L). Only revenue and net income are required; the other
// figures feed optional cards and panels.
type IncomeStatement struct {
	Revenue          *StatementFigure `json:"売上高" yaml:"売上高" validate:"required"`
	CostOfSales      *StatementFigure `json:"売上原価,omitempty" yaml:"売上原価,omitempty"`
	GrossProfit      *StatementFigure `json:"売上総利益,omitempty" yaml:"売上総利益,omitempty"`
	SGA              *StatementFigure `json:"販管費,omitempty" yaml:"販管費,omitempty"`
	OperatingIncome  *StatementFigure `json:"営業利益,omitempty" yaml:"営業利益,omitempty"`
	OrdinaryIncome   *StatementFigure `json:"経常利益,omitempty" yaml:"経常利益,omitempty"`
	NetIncome        *StatementFigure `json:"当期純利益" yaml:"当期純利益" validate:"required"`
	NonOperating     *StatementFigure `json:"営業外損益,omitempty" yaml:"営業外損益,omitempty"`
	ExtraordinaryTax *StatementFigure `json:"特別損益等,omitempty" yaml:"特別損益等,omitempty"`
}

// Asset category labels used by the sample records.
const (
	AssetCash              = "現金預金"
	AssetOtherCurrent      = "その他流動資産"
	AssetTangibleFixed     = "有形固定資産"
	AssetIntangibleFixed   = "無形固定資産"
	AssetInvestmentsOthers = "投資その他"
)

// AssetCategories is the display order for known asset categories.
var AssetCategories = []string{
	AssetCash,
	AssetOtherCurrent,
	AssetTangibleFixed,
	AssetIntangibleFixed,
	AssetInvestmentsOthers,
}

// BalanceSheet (B/S) in millions of currency units. EquityRatio is supplied
// by the record, never derived.
type BalanceSheet struct {
	Assets      LineItems   `json:"assets" yaml:"assets"`
	Liabilities Liabilities `json:"liabilities" yaml:"liabilities"`
	Equity      Equity      `json:"equity" yaml:"equity"`
	EquityRatio float64     `json:"自己資本比率" yaml:"自己資本比率"`
}

type Liabilities struct {
	Current    float64 `json:"流動負債" yaml:"流動負債"`
	NonCurrent float64 `json:"固定負債" yaml:"固定負債"`
}

type Equity struct {
	NetAssets float64 `json:"純資産" yaml:"純資産"`
}

// CashFlowStatement (C/F). FreeCF is taken as supplied; it is not checked
// against Operating+Investing.
type CashFlowStatement struct {
	Operating   *StatementFigure `json:"営業CF" yaml:"営業CF" validate:"required"`
	Investing   *StatementFigure `json:"投資CF" yaml:"投資CF" validate:"required"`
	Financing   *StatementFigure `json:"財務CF" yaml:"財務CF" validate:"required"`
	FreeCF      *StatementFigure `json:"フリーCF" yaml:"フリーCF" validate:"required"`
	OpeningCash *StatementFigure `json:"期首現金残高" yaml:"期首現金残高" validate:"required"`
	ClosingCash *StatementFigure `json:"期末現金残高" yaml:"期末現金残高" validate:"required"`
	Details     CashFlowDetails  `json:"details" yaml:"details"`
}

type CashFlowDetails struct {
	Operating LineItems `json:"営業CF" yaml:"営業CF"`
	Investing LineItems `json:"投資CF" yaml:"投資CF"`
	Financing LineItems `json:"財務CF" yaml:"財務CF"`
}

// ChartAxisConfig is the plotting range and tick marks of one chart.
type ChartAxisConfig struct {
	Domain [2]float64 `json:"domain" yaml:"domain"`
	Ticks  []float64  `json:"ticks" yaml:"ticks"`
}

// Clone returns a deep copy.
func (c ChartAxisConfig) Clone() ChartAxisConfig {
	out := ChartAxisConfig{Domain: c.Domain}
	if c.Ticks != nil {
		out.Ticks = append([]float64(nil), c.Ticks...)
	}
	return out
}

// ChartSettingsOverride is a partial axis configuration. A nil slot is
// "not supplied"; a non-nil slot is used as is, zero values included.
type ChartSettingsOverride struct {
	PL *ChartAxisConfig               `json:"pl,omitempty" yaml:"pl,omitempty"`
	BS *ChartAxisConfig               `json:"bs,omitempty" yaml:"bs,omitempty"`
	CF *CashFlowChartSettingsOverride `json:"cf,omitempty" yaml:"cf,omitempty"`
}

type CashFlowChartSettingsOverride struct {
	Composition *ChartAxisConfig `json:"composition,omitempty" yaml:"composition,omitempty"`
	Waterfall   *ChartAxisConfig `json:"waterfall,omitempty" yaml:"waterfall,omitempty"`
	Comparison  *ChartAxisConfig `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}
