// Package comments resolves the annotation shown under each breakdown panel:
// a custom string, a generated default, or nothing.
package comments

import (
	"fmt"
	"strings"

	"github.com/komsit37/kessan/pkg/kessan/metrics"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Sections and slot keys.
const (
	SectionBS = "bs"
	SectionCF = "cf"

	KeyAssets      = "assets"
	KeyLiabilities = "liabilities"
	KeyOperating   = "operating"
	KeyInvesting   = "investing"
	KeyFinancing   = "financing"
)

// Slots lists every comment slot per section, in display order.
var Slots = map[string][]string{
	SectionBS: {KeyAssets, KeyLiabilities},
	SectionCF: {KeyOperating, KeyInvesting, KeyFinancing},
}

// Lang selects the default comment templates.
type Lang string

const (
	LangEN Lang = "en"
	LangJA Lang = "ja"
)

// ParseLang accepts "en" or "ja" (case-insensitive); empty means English.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(LangEN):
		return LangEN, nil
	case string(LangJA):
		return LangJA, nil
	}
	return "", fmt.Errorf("unknown language %q (want en or ja)", s)
}

// DefaultSet maps section -> key -> generated text. Slots without a default
// are absent.
type DefaultSet map[string]map[string]string

// Defaults fills the templates from m.
func Defaults(m metrics.DerivedMetrics, lang Lang) DefaultSet {
	if lang == LangJA {
		return DefaultSet{
			SectionBS: {
				KeyAssets:      fmt.Sprintf("流動比率%s%% ／ 現金比率%s%%", m.CurrentRatio, m.CashRatio),
				KeyLiabilities: fmt.Sprintf("自己資本比率%s%%", m.EquityRatio),
			},
			SectionCF: {
				KeyOperating: fmt.Sprintf("営業CFマージン%s%% ／ 対純利益比%s%%", m.OperatingCFMargin, m.CFToNetIncomeRatio),
			},
		}
	}
	return DefaultSet{
		SectionBS: {
			KeyAssets:      fmt.Sprintf("Current ratio %s%% / Cash ratio %s%%", m.CurrentRatio, m.CashRatio),
			KeyLiabilities: fmt.Sprintf("Equity ratio %s%%", m.EquityRatio),
		},
		SectionCF: {
			KeyOperating: fmt.Sprintf("Operating CF margin %s%% / CF-to-net-income ratio %s%%", m.OperatingCFMargin, m.CFToNetIncomeRatio),
		},
	}
}

// Resolve returns the text for one slot and whether anything is shown.
// Hidden overrides win, then custom text, then the default.
func Resolve(section, key string, overrides types.Comments, defaults DefaultSet) (string, bool) {
	o := overrides.Get(section, key)
	switch o.Mode {
	case types.CommentHidden:
		return "", false
	case types.CommentCustom:
		return o.Text, true
	}
	if d, ok := defaults[section][key]; ok {
		return d, true
	}
	return "", false
}

// Resolved is the outcome for one slot.
type Resolved struct {
	Text  string `json:"text,omitempty"`
	Shown bool   `json:"shown"`
}

// ResolveAll resolves every known slot.
func ResolveAll(overrides types.Comments, defaults DefaultSet) map[string]map[string]Resolved {
	out := make(map[string]map[string]Resolved, len(Slots))
	for section, keys := range Slots {
		out[section] = make(map[string]Resolved, len(keys))
		for _, key := range keys {
			text, ok := Resolve(section, key, overrides, defaults)
			out[section][key] = Resolved{Text: text, Shown: ok}
		}
	}
	return out
}
