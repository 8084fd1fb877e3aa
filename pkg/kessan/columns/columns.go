package columns

import (
	"github.com/komsit37/kessan/pkg/kessan/format"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

const (
	// Period is the row-label column of every comparison table.
	Period = "period"
	// ClosingCash is a balance, not a flow: never styled by sign.
	ClosingCash = "期末現金"
)

// Cell is one rendered comparison-table value.
type Cell struct {
	Text     string  `json:"text"`
	Raw      float64 `json:"raw,omitempty"`
	Numeric  bool    `json:"numeric,omitempty"`
	Negative bool    `json:"negative,omitempty"`
}

// Resolver converts a comparison row into a cell for a given column.
type Resolver func(row types.ComparisonRow) Cell

// Registry maps column keys to resolvers; columns without an entry render
// the row value of the same label in 億.
var Registry = map[string]Resolver{
	Period: func(row types.ComparisonRow) Cell {
		return Cell{Text: row.Period}
	},
	ClosingCash: balance(ClosingCash),
}

func balance(label string) Resolver {
	return func(row types.ComparisonRow) Cell {
		v, ok := row.Values.Get(label)
		if !ok {
			return Cell{}
		}
		return Cell{Text: format.ToOkuDecimal(v), Raw: v, Numeric: true}
	}
}

// Compute determines final column order from an explicit list or the rows.
// Period always comes first. Explicit lists are honored in order and
// de-duplicated; otherwise columns are discovered in first-seen order.
func Compute(explicit []string, rows []types.ComparisonRow) []string {
	out := []string{Period}
	seen := map[string]struct{}{Period: {}}
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(explicit) > 0 {
		for _, k := range explicit {
			add(k)
		}
		return out
	}
	for _, row := range rows {
		for _, it := range row.Values {
			add(it.Label)
		}
	}
	return out
}

// Ordered is Compute with a preferred order: preferred columns that occur in
// rows come first, then any other columns in first-seen order.
func Ordered(preferred []string, rows []types.ComparisonRow) []string {
	present := map[string]struct{}{}
	for _, row := range rows {
		for _, it := range row.Values {
			present[it.Label] = struct{}{}
		}
	}
	explicit := make([]string, 0, len(present))
	for _, k := range preferred {
		if _, ok := present[k]; ok {
			explicit = append(explicit, k)
		}
	}
	for _, k := range Compute(nil, rows)[1:] {
		explicit = append(explicit, k)
	}
	return Compute(explicit, rows)
}

// Value resolves the cell for col in row.
func Value(col string, row types.ComparisonRow) Cell {
	if r, ok := Registry[col]; ok {
		return r(row)
	}
	v, ok := row.Values.Get(col)
	if !ok {
		return Cell{}
	}
	return Cell{Text: format.ToOkuDecimal(v), Raw: v, Numeric: true, Negative: v < 0}
}
