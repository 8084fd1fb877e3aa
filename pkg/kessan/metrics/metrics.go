// Package metrics derives display ratios from raw statement figures.
package metrics

import (
	"github.com/komsit37/kessan/pkg/kessan/format"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

// NotComputable is the value of a ratio whose denominator is zero.
const NotComputable = format.NotComputable

// DerivedMetrics are fixed-point percentage strings.
type DerivedMetrics struct {
	CurrentRatio       string `json:"currentRatio"`
	CashRatio          string `json:"cashRatio"`
	EquityRatio        string `json:"equityRatio"`
	OperatingCFMargin  string `json:"operatingCFMargin"`
	CFToNetIncomeRatio string `json:"cfToNetIncomeRatio"`
}

// Totals are the aggregate amounts the dashboard shows next to the ratios,
// in millions of yen. GrossProfitMargin is a percentage string.
type Totals struct {
	TotalAssets       float64 `json:"totalAssets"`
	CurrentAssets     float64 `json:"currentAssets"`
	TotalLiabilities  float64 `json:"totalLiabilities"`
	TotalEquity       float64 `json:"totalEquity"`
	GrossProfitMargin string  `json:"grossProfitMargin"`
	CashChange        float64 `json:"cashChange"`
	CashFlowSum       float64 `json:"cashFlowSum"`
}

// Compute derives the ratios. Any zero denominator yields NotComputable.
func Compute(bs types.BalanceSheet, cf types.CashFlowStatement, pl types.IncomeStatement) DerivedMetrics {
	totalAssets := bs.Assets.Sum()
	cash := bs.Assets.Value(types.AssetCash)
	currentAssets := cash + bs.Assets.Value(types.AssetOtherCurrent)
	operating := figure(cf.Operating)

	return DerivedMetrics{
		CurrentRatio:       format.Ratio(currentAssets, bs.Liabilities.Current, 1),
		CashRatio:          format.Ratio(cash, totalAssets, 1),
		EquityRatio:        format.Number(bs.EquityRatio),
		OperatingCFMargin:  format.Ratio(operating, figure(pl.Revenue), 1),
		CFToNetIncomeRatio: format.Ratio(operating, figure(pl.NetIncome), 0),
	}
}

// Summarize computes the statement totals.
func Summarize(bs types.BalanceSheet, cf types.CashFlowStatement, pl types.IncomeStatement) Totals {
	return Totals{
		TotalAssets:       bs.Assets.Sum(),
		CurrentAssets:     bs.Assets.Value(types.AssetCash) + bs.Assets.Value(types.AssetOtherCurrent),
		TotalLiabilities:  bs.Liabilities.Current + bs.Liabilities.NonCurrent,
		TotalEquity:       bs.Equity.NetAssets,
		GrossProfitMargin: format.PercentOf(figure(pl.GrossProfit), figure(pl.Revenue)),
		CashChange:        figure(cf.ClosingCash) - figure(cf.OpeningCash),
		CashFlowSum:       figure(cf.Operating) + figure(cf.Investing) + figure(cf.Financing),
	}
}

// ForCompany computes both results for a validated record.
func ForCompany(c types.Company) (DerivedMetrics, Totals) {
	var (
		bs types.BalanceSheet
		cf types.CashFlowStatement
		pl types.IncomeStatement
	)
	if c.BS != nil {
		bs = *c.BS
	}
	if c.CF != nil {
		cf = *c.CF
	}
	if c.PL != nil {
		pl = *c.PL
	}
	return Compute(bs, cf, pl), Summarize(bs, cf, pl)
}

func figure(f *types.StatementFigure) float64 {
	if f == nil {
		return 0
	}
	return f.Value
}
