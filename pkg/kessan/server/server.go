// Package server serves dashboards over HTTP: JSON view models for a
// frontend and the same HTML page the CLI renders.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/komsit37/kessan/pkg/kessan/cache"
	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/quote"
	"github.com/komsit37/kessan/pkg/kessan/render"
	"github.com/komsit37/kessan/pkg/kessan/source"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

type Options struct {
	DataDir   string
	CacheTTL  time.Duration
	CacheSize int
	// Quotes is optional.
	Quotes quote.Service
	Logger *slog.Logger
}

type Server struct {
	dataDir string
	files   source.FileSource
	quotes  quote.Service
	logger  *slog.Logger
	boards  *cache.Cache[boardKey, dashboard.Dashboard]
	html    render.Renderer
}

// boardKey invalidates a cached dashboard when its file changes.
type boardKey struct {
	path  string
	mtime int64
	lang  comments.Lang
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.CacheSize
	if size <= 0 {
		size = 128
	}
	return &Server{
		dataDir: opts.DataDir,
		files:   source.FileSource{Logger: logger},
		quotes:  opts.Quotes,
		logger:  logger,
		boards:  cache.New[boardKey, dashboard.Dashboard](opts.CacheTTL, size),
		html:    render.NewHTMLRenderer(),
	}
}

// Router wires the endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", Health)
	r.HEAD("/healthz", Health)

	api := r.Group("/api")
	{
		api.GET("/companies", s.Companies)
		api.GET("/dashboard", s.Dashboard)
	}
	r.GET("/companies/:name", s.Page)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "data_dir", s.dataDir)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Health handles /healthz and is never cached by clients.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CompanySummary is one entry of /api/companies.
type CompanySummary struct {
	File   string `json:"file"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Market string `json:"market"`
	Period string `json:"period"`
}

// Companies lists the valid records in the data directory. Invalid files are
// skipped with a warning.
func (s *Server) Companies(c *gin.Context) {
	files, err := source.Files(s.dataDir)
	if err != nil {
		s.logger.Error("list records failed", "data_dir", s.dataDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]CompanySummary, 0, len(files))
	for _, f := range files {
		rec, err := s.files.ReadFile(f)
		if err != nil {
			s.logger.Warn("skipping invalid record", "file", f, "error", err)
			continue
		}
		rel, err := filepath.Rel(s.dataDir, f)
		if err != nil {
			rel = filepath.Base(f)
		}
		out = append(out, CompanySummary{
			File:   filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))),
			Name:   rec.Name,
			Code:   rec.Code,
			Market: rec.Market,
			Period: rec.Period,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Dashboard returns the view model for ?companyData=<name>.
func (s *Server) Dashboard(c *gin.Context) {
	name := c.Query("companyData")
	if name == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "companyData parameter is not specified"})
		return
	}
	d, ok := s.board(c, name)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

// Page renders the HTML dashboard for a record name.
func (s *Server) Page(c *gin.Context) {
	d, ok := s.board(c, c.Param("name"))
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.html.Render(&buf, []dashboard.Dashboard{d}, render.RenderOptions{}); err != nil {
		s.logger.Error("render page failed", "name", c.Param("name"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// board loads (or reuses) the dashboard for name and writes the error
// response itself when it cannot.
func (s *Server) board(c *gin.Context, name string) (dashboard.Dashboard, bool) {
	lang, err := comments.ParseLang(c.Query("lang"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return dashboard.Dashboard{}, false
	}
	path, info, err := source.Locate(s.dataDir, name)
	if err != nil {
		s.writeLoadError(c, name, err)
		return dashboard.Dashboard{}, false
	}

	key := boardKey{path: path, mtime: info.ModTime().UnixNano(), lang: lang}
	d, err := s.boards.GetOrLoad(key, func() (dashboard.Dashboard, error) {
		rec, err := s.files.ReadFile(path)
		if err != nil {
			return dashboard.Dashboard{}, err
		}
		s.logger.Debug("dashboard built", "file", path, "lang", lang)
		return dashboard.Build(rec, dashboard.Options{Lang: lang}), nil
	})
	if err != nil {
		s.writeLoadError(c, name, err)
		return dashboard.Dashboard{}, false
	}

	if s.quotes != nil {
		company := types.Company{Code: d.Header.Code, Market: d.Header.Market}
		quote.Attach(c.Request.Context(), s.quotes, company, &d, s.logger)
	}
	return d, true
}

func (s *Server) writeLoadError(c *gin.Context, name string, err error) {
	var (
		nf   *source.NotFoundError
		perr *source.ParseError
		verr *types.ValidationError
	)
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": name + ".json not found"})
	case errors.Is(err, source.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &perr), errors.As(err, &verr):
		s.logger.Warn("invalid record", "name", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.logger.Error("load record failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// requestLogger logs each request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"remote_addr", c.ClientIP(),
		)
	}
}
