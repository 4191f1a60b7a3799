package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/harvest-cli/internal/model"
)

// Chain tries scrapers in priority order, returning the first success.
// Each attempt gets its own timeout so one slow upstream cannot consume
// the whole scrape budget.
type Chain struct {
	scrapers       []Scraper
	attemptTimeout time.Duration
}

// NewChain creates a Chain over the given scrapers, tried in order.
func NewChain(attemptTimeout time.Duration, scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers, attemptTimeout: attemptTimeout}
}

// Scrape tries each scraper in order for a single URL. Returns nil when
// every strategy fails; the caller classifies that as a scrape failure
// rather than an error.
func (c *Chain) Scrape(ctx context.Context, targetURL string) *model.RawContent {
	log := zap.L().With(zap.String("url", targetURL))

	for _, s := range c.scrapers {
		if ctx.Err() != nil {
			return nil
		}

		attemptCtx := ctx
		if c.attemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
			defer cancel()
		}

		content, err := s.Scrape(attemptCtx, targetURL)
		if err == nil && content != nil {
			log.Debug("scrape succeeded",
				zap.String("scraper", s.Name()),
				zap.Int("chars", len(content.Text)),
			)
			return content
		}
		if err != nil {
			log.Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.Error(err),
			)
		}
	}

	log.Debug("scrape: all scrapers failed")
	return nil
}
