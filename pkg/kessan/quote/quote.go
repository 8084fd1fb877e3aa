// Package quote adds an optional live share-price line to a dashboard.
// Quotes are display-only; they never feed the metrics.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/kessan/pkg/kessan/cache"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/types"
)

// Quote is the latest price for a symbol.
type Quote struct {
	Symbol    string
	Name      string
	Price     string
	ChangeFmt string
	ChangeRaw float64
}

// Service fetches a quote for a symbol.
type Service interface {
	Get(ctx context.Context, sym string) (Quote, error)
}

// Symbol returns the Yahoo Finance symbol for a company: Tokyo-listed codes
// get the ".T" suffix. Empty when the record has no code.
func Symbol(c types.Company) string {
	code := strings.TrimSpace(c.Code)
	if code == "" {
		return ""
	}
	if c.Market == "" || strings.HasPrefix(c.Market, "東証") {
		return code + ".T"
	}
	return code
}

// YFService implements Service using yf-go.
type YFService struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYFService(timeout time.Duration) *YFService {
	return &YFService{client: yfgo.NewClient(), timeout: timeout}
}

func (s *YFService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return Quote{}, err
	}
	if res.Price == nil {
		return Quote{}, fmt.Errorf("no price for %s", sym)
	}

	q := Quote{Symbol: sym}
	p := res.Price.RegularMarketPrice
	if p.Fmt != "" {
		q.Price = p.Fmt
	} else if p.Raw != nil {
		q.Price = fmt.Sprintf("%.2f", *p.Raw)
	}
	cp := res.Price.RegularMarketChangePercent
	q.ChangeFmt = cp.Fmt
	if cp.Raw != nil {
		q.ChangeRaw = *cp.Raw
		if q.ChangeFmt == "" {
			q.ChangeFmt = fmt.Sprintf("%.2f%%", q.ChangeRaw)
		}
	}
	if res.Price.ShortName != "" {
		q.Name = res.Price.ShortName
	} else {
		q.Name = res.Price.LongName
	}
	return q, nil
}

// CachedService decorates a Service with a TTL+LRU cache keyed on symbol.
type CachedService struct {
	next  Service
	cache *cache.Cache[string, Quote]
}

func NewCachedService(next Service, ttl time.Duration, size int) *CachedService {
	return &CachedService{next: next, cache: cache.New[string, Quote](ttl, size)}
}

func (c *CachedService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	return c.cache.GetOrLoad(sym, func() (Quote, error) {
		return c.next.Get(ctx, sym)
	})
}

// Attach fetches the company's quote and sets d.Quote. Failures are logged
// at debug level and leave d unchanged.
func Attach(ctx context.Context, svc Service, c types.Company, d *dashboard.Dashboard, logger *slog.Logger) {
	if svc == nil {
		return
	}
	sym := Symbol(c)
	if sym == "" {
		return
	}
	q, err := svc.Get(ctx, sym)
	if err != nil || q.Price == "" {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("quote unavailable", "symbol", sym, "err", err)
		return
	}
	d.Quote = &dashboard.Quote{
		Symbol:   sym,
		Price:    q.Price,
		Change:   q.ChangeFmt,
		Negative: q.ChangeRaw < 0 || strings.HasPrefix(q.ChangeFmt, "-"),
	}
}
