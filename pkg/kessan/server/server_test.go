package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/quote"
	"github.com/komsit37/kessan/pkg/kessan/server"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubQuotes struct {
	calls atomic.Int32
}

func (s *stubQuotes) Get(_ context.Context, sym string) (quote.Quote, error) {
	s.calls.Add(1)
	return quote.Quote{Symbol: sym, Price: "1,980", ChangeFmt: "-0.75%", ChangeRaw: -0.75}, nil
}

func newServer(t *testing.T, q quote.Service) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	sample, err := os.ReadFile("../../../testdata/kakiyasu.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kakiyasu.json"), sample, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name":`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incomplete.json"), []byte(`{"name":"x","pl":{},"bs":{},"cf":{}}`), 0o644))

	s := server.New(server.Options{
		DataDir:   dir,
		CacheTTL:  time.Minute,
		CacheSize: 8,
		Quotes:    q,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return s.Router(), dir
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	w := do(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(r, http.MethodHead, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCompanies(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	w := do(r, http.MethodGet, "/api/companies")
	require.Equal(t, http.StatusOK, w.Code)

	var got []server.CompanySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1, "invalid records are skipped")
	assert.Equal(t, server.CompanySummary{
		File:   "kakiyasu",
		Name:   "株式会社柿安本店",
		Code:   "2294",
		Market: "東証プライム",
		Period: "2025年4月期",
	}, got[0])
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	w := do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu")
	require.Equal(t, http.StatusOK, w.Code)

	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "株式会社柿安本店", d.Header.Name)
	assert.Equal(t, dashboard.TabCF, d.ActiveTab)
	assert.Equal(t, "280.3", d.Metrics.CurrentRatio)
	assert.Contains(t, d.Comments["bs"]["assets"].Text, "Current ratio 280.3%")
	assert.True(t, d.Comments["cf"]["financing"].Shown)
	assert.Nil(t, d.Quote)
	assert.Len(t, d.Sections, 3)
}

func TestDashboard_Lang(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	w := do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu&lang=ja")
	require.Equal(t, http.StatusOK, w.Code)
	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Contains(t, d.Comments["bs"]["assets"].Text, "流動比率280.3%")

	w = do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu&lang=fr")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard_Errors(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	tests := []struct {
		name   string
		target string
		status int
		errMsg string
	}{
		{"missing parameter", "/api/dashboard", http.StatusNotFound, "companyData parameter is not specified"},
		{"unknown record", "/api/dashboard?companyData=nope", http.StatusNotFound, "nope.json not found"},
		{"path traversal", "/api/dashboard?companyData=..%2Fetc", http.StatusBadRequest, ""},
		{"parse error", "/api/dashboard?companyData=broken", http.StatusUnprocessableEntity, ""},
		{"invalid record", "/api/dashboard?companyData=incomplete", http.StatusUnprocessableEntity, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, w.Code)
			msg := errorBody(t, w)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestDashboard_CacheInvalidatedOnChange(t *testing.T) {
	t.Parallel()
	r, dir := newServer(t, nil)

	w := do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu")
	require.Equal(t, http.StatusOK, w.Code)

	p := filepath.Join(dir, "kakiyasu.json")
	var raw map[string]any
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &raw))
	raw["name"] = "柿安"
	b, err = json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, b, 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(p, later, later))

	w = do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu")
	require.Equal(t, http.StatusOK, w.Code)
	var d dashboard.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "柿安", d.Header.Name)
}

func TestDashboard_Quote(t *testing.T) {
	t.Parallel()
	q := &stubQuotes{}
	r, _ := newServer(t, q)

	for range 2 {
		w := do(r, http.MethodGet, "/api/dashboard?companyData=kakiyasu")
		require.Equal(t, http.StatusOK, w.Code)
		var d dashboard.Dashboard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
		require.NotNil(t, d.Quote)
		assert.Equal(t, "2294.T", d.Quote.Symbol)
		assert.True(t, d.Quote.Negative)
	}
	assert.Equal(t, int32(2), q.calls.Load(), "quotes are attached after the dashboard cache")
}

func TestPage(t *testing.T) {
	t.Parallel()
	r, _ := newServer(t, nil)

	w := do(r, http.MethodGet, "/companies/kakiyasu")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<title>株式会社柿安本店 2025年4月期</title>")
	assert.Contains(t, w.Body.String(), "<table>")

	w = do(r, http.MethodGet, "/companies/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
