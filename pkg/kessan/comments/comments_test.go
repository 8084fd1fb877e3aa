package comments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/metrics"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

var sampleMetrics = metrics.DerivedMetrics{
	CurrentRatio:       "280.3",
	CashRatio:          "41.6",
	EquityRatio:        "78.4",
	OperatingCFMargin:  "4.8",
	CFToNetIncomeRatio: "249",
}

func TestDefaults_English(t *testing.T) {
	t.Parallel()

	d := comments.Defaults(sampleMetrics, comments.LangEN)
	assert.Equal(t, "Current ratio 280.3% / Cash ratio 41.6%", d[comments.SectionBS][comments.KeyAssets])
	assert.Equal(t, "Equity ratio 78.4%", d[comments.SectionBS][comments.KeyLiabilities])
	assert.Equal(t, "Operating CF margin 4.8% / CF-to-net-income ratio 249%", d[comments.SectionCF][comments.KeyOperating])
	_, ok := d[comments.SectionCF][comments.KeyInvesting]
	assert.False(t, ok)
	_, ok = d[comments.SectionCF][comments.KeyFinancing]
	assert.False(t, ok)
}

func TestDefaults_Japanese(t *testing.T) {
	t.Parallel()

	d := comments.Defaults(sampleMetrics, comments.LangJA)
	assert.Equal(t, "流動比率280.3% ／ 現金比率41.6%", d[comments.SectionBS][comments.KeyAssets])
	assert.Equal(t, "自己資本比率78.4%", d[comments.SectionBS][comments.KeyLiabilities])
	assert.Equal(t, "営業CFマージン4.8% ／ 対純利益比249%", d[comments.SectionCF][comments.KeyOperating])
}

func TestDefaults_NotComputable(t *testing.T) {
	t.Parallel()

	m := sampleMetrics
	m.CurrentRatio = metrics.NotComputable
	d := comments.Defaults(m, comments.LangEN)
	assert.Equal(t, "Current ratio -% / Cash ratio 41.6%", d[comments.SectionBS][comments.KeyAssets])
}

func TestResolve(t *testing.T) {
	t.Parallel()

	defaults := comments.Defaults(sampleMetrics, comments.LangEN)

	tests := []struct {
		name      string
		overrides types.Comments
		section   string
		key       string
		wantText  string
		wantShown bool
	}{
		{
			name:      "nil overrides use default",
			overrides: nil,
			section:   comments.SectionBS, key: comments.KeyAssets,
			wantText: "Current ratio 280.3% / Cash ratio 41.6%", wantShown: true,
		},
		{
			name:      "explicit null uses default",
			overrides: types.Comments{comments.SectionBS: {comments.KeyLiabilities: {}}},
			section:   comments.SectionBS, key: comments.KeyLiabilities,
			wantText: "Equity ratio 78.4%", wantShown: true,
		},
		{
			name:      "custom string wins over default",
			overrides: types.Comments{comments.SectionCF: {comments.KeyOperating: types.CustomComment("custom")}},
			section:   comments.SectionCF, key: comments.KeyOperating,
			wantText: "custom", wantShown: true,
		},
		{
			name:      "empty custom string is shown verbatim",
			overrides: types.Comments{comments.SectionCF: {comments.KeyOperating: types.CustomComment("")}},
			section:   comments.SectionCF, key: comments.KeyOperating,
			wantText: "", wantShown: true,
		},
		{
			name:      "false hides a slot with a default",
			overrides: types.Comments{comments.SectionBS: {comments.KeyAssets: types.HiddenComment()}},
			section:   comments.SectionBS, key: comments.KeyAssets,
			wantShown: false,
		},
		{
			name:      "false hides a slot without a default",
			overrides: types.Comments{comments.SectionCF: {comments.KeyFinancing: types.HiddenComment()}},
			section:   comments.SectionCF, key: comments.KeyFinancing,
			wantShown: false,
		},
		{
			name:      "custom on slot without default",
			overrides: types.Comments{comments.SectionCF: {comments.KeyInvesting: types.CustomComment("capex")}},
			section:   comments.SectionCF, key: comments.KeyInvesting,
			wantText: "capex", wantShown: true,
		},
		{
			name:      "no default and no override",
			overrides: types.Comments{},
			section:   comments.SectionCF, key: comments.KeyInvesting,
			wantShown: false,
		},
		{
			name:      "unknown section",
			overrides: nil,
			section:   "pl", key: "revenue",
			wantShown: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text, shown := comments.Resolve(tt.section, tt.key, tt.overrides, defaults)
			assert.Equal(t, tt.wantShown, shown)
			assert.Equal(t, tt.wantText, text)

			text2, shown2 := comments.Resolve(tt.section, tt.key, tt.overrides, defaults)
			assert.Equal(t, text, text2, "idempotent")
			assert.Equal(t, shown, shown2, "idempotent")
		})
	}
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	overrides := types.Comments{
		comments.SectionCF: {
			comments.KeyInvesting: types.CustomComment("※ acquisition"),
			comments.KeyFinancing: types.HiddenComment(),
		},
	}
	got := comments.ResolveAll(overrides, comments.Defaults(sampleMetrics, comments.LangEN))

	require.Len(t, got, 2)
	assert.True(t, got[comments.SectionBS][comments.KeyAssets].Shown)
	assert.Equal(t, comments.Resolved{Text: "※ acquisition", Shown: true}, got[comments.SectionCF][comments.KeyInvesting])
	assert.Equal(t, comments.Resolved{}, got[comments.SectionCF][comments.KeyFinancing])
}

func TestParseLang(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]comments.Lang{"": comments.LangEN, "EN": comments.LangEN, " ja ": comments.LangJA} {
		got, err := comments.ParseLang(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := comments.ParseLang("fr")
	assert.Error(t, err)
}
