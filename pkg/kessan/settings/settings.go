// Package settings resolves chart axis configuration: each slot of a partial
// override is used as is, every omitted slot falls back to a built-in default.
package settings

import "github.com/komsit37/kessan/pkg/kessan/types"

// Resolved is a complete axis configuration for every chart.
type Resolved struct {
	PL types.ChartAxisConfig `json:"pl"`
	BS types.ChartAxisConfig `json:"bs"`
	CF CashFlow              `json:"cf"`
}

type CashFlow struct {
	Composition types.ChartAxisConfig `json:"composition"`
	Waterfall   types.ChartAxisConfig `json:"waterfall"`
	Comparison  types.ChartAxisConfig `json:"comparison"`
}

// Slot names, used by renderers and error messages.
const (
	SlotPL            = "pl"
	SlotBS            = "bs"
	SlotCFComposition = "cf.composition"
	SlotCFWaterfall   = "cf.waterfall"
	SlotCFComparison  = "cf.comparison"
)

// Built-in defaults, in millions of yen. Never handed out directly.
var (
	defaultPL = types.ChartAxisConfig{
		Domain: [2]float64{0, 50000},
		Ticks:  []float64{0, 10000, 20000, 30000, 40000, 50000},
	}
	defaultBS = types.ChartAxisConfig{
		Domain: [2]float64{0, 25000},
		Ticks:  []float64{0, 5000, 10000, 15000, 20000, 25000},
	}
	defaultCFComposition = types.ChartAxisConfig{
		Domain: [2]float64{-5000, 5000},
		Ticks:  []float64{-5000, -2500, 0, 2500, 5000},
	}
	defaultCFWaterfall = types.ChartAxisConfig{
		Domain: [2]float64{-5000, 15000},
		Ticks:  []float64{-5000, 0, 5000, 10000, 15000},
	}
	defaultCFComparison = types.ChartAxisConfig{
		Domain: [2]float64{-5000, 15000},
		Ticks:  []float64{-5000, 0, 5000, 10000, 15000},
	}
)

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() Resolved {
	return Resolved{
		PL: defaultPL.Clone(),
		BS: defaultBS.Clone(),
		CF: CashFlow{
			Composition: defaultCFComposition.Clone(),
			Waterfall:   defaultCFWaterfall.Clone(),
			Comparison:  defaultCFComparison.Clone(),
		},
	}
}

// Resolve merges override into the defaults slot by slot. A supplied slot is
// returned unmodified (no domain/ticks consistency checks); nil slots get
// the default. A nil override yields Defaults().
func Resolve(override *types.ChartSettingsOverride) Resolved {
	out := Defaults()
	if override == nil {
		return out
	}
	out.PL = pick(override.PL, out.PL)
	out.BS = pick(override.BS, out.BS)
	if cf := override.CF; cf != nil {
		out.CF.Composition = pick(cf.Composition, out.CF.Composition)
		out.CF.Waterfall = pick(cf.Waterfall, out.CF.Waterfall)
		out.CF.Comparison = pick(cf.Comparison, out.CF.Comparison)
	}
	return out
}

func pick(supplied *types.ChartAxisConfig, def types.ChartAxisConfig) types.ChartAxisConfig {
	if supplied == nil {
		return def
	}
	return supplied.Clone()
}

// Slot returns the resolved axis for a slot name.
func (r Resolved) Slot(name string) (types.ChartAxisConfig, bool) {
	switch name {
	case SlotPL:
		return r.PL, true
	case SlotBS:
		return r.BS, true
	case SlotCFComposition:
		return r.CF.Composition, true
	case SlotCFWaterfall:
		return r.CF.Waterfall, true
	case SlotCFComparison:
		return r.CF.Comparison, true
	}
	return types.ChartAxisConfig{}, false
}
