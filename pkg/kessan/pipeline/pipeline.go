package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/filter"
	"github.com/komsit37/kessan/pkg/kessan/quote"
	"github.com/komsit37/kessan/pkg/kessan/render"
	"github.com/komsit37/kessan/pkg/kessan/source"
)

// Runner loads records, builds their dashboards and renders them.
type Runner struct {
	Source   source.Source
	Renderer render.Renderer
	Writer   io.Writer
	// Quotes is optional; nil skips the share-price line.
	Quotes quote.Service
	Logger *slog.Logger
}

type ExecuteOptions struct {
	Filter      *filter.Filter
	Tabs        []dashboard.Tab
	Lang        comments.Lang
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Width       int
}

func (r *Runner) Execute(ctx context.Context, path string, opts ExecuteOptions) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	recs, err := r.Source.Load(ctx, path)
	if err != nil {
		return err
	}

	boards := make([]dashboard.Dashboard, 0, len(recs))
	for _, rec := range recs {
		if !opts.Filter.Match(rec.Company) {
			continue
		}
		d := dashboard.Build(rec.Company, dashboard.Options{Lang: opts.Lang, Tabs: opts.Tabs})
		if r.Quotes != nil {
			quote.Attach(ctx, r.Quotes, rec.Company, &d, logger)
		}
		boards = append(boards, d)
	}
	logger.Debug("dashboards built", "path", path, "loaded", len(recs), "rendered", len(boards))

	return r.Renderer.Render(r.Writer, boards, render.RenderOptions{
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		Width:       opts.Width,
	})
}
