package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
	"github.com/sells-group/harvest-cli/pkg/serper"
)

// Selector runs the planned queries, scores every hit, and tracks the
// best candidate. Queries stop early once a candidate reaches the stop
// score. A rate limiter paces consecutive queries.
type Selector struct {
	provider serper.Client
	planner  *Planner
	scorer   *Scorer
	limiter  *rate.Limiter
	cfg      config.SearchConfig
}

// NewSelector creates a Selector. The pacing interval comes from
// cfg.PacingMillis; values < 1 disable pacing.
func NewSelector(provider serper.Client, planner *Planner, scorer *Scorer, cfg config.SearchConfig) *Selector {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.PacingMillis > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.PacingMillis)*time.Millisecond), 1)
	}
	return &Selector{
		provider: provider,
		planner:  planner,
		scorer:   scorer,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// SelectStaffPage resolves the best-scoring candidate URL for the
// organization and category. The returned candidate has an empty URL
// when no query produced a hit. Provider failures count as zero hits
// for that query; they never abort selection.
//
// Ties keep the first-seen candidate: a later hit replaces the best only
// when its score is strictly greater.
func (s *Selector) SelectStaffPage(ctx context.Context, org, categoryLabel string) (model.ScoredCandidate, error) {
	log := zap.L().With(
		zap.String("organization", org),
		zap.String("category", categoryLabel),
	)

	best := model.ScoredCandidate{Score: s.cfg.MinScore}
	queries := s.planner.Queries(org, categoryLabel)

	for i, q := range queries {
		if ctx.Err() != nil {
			return best, ctx.Err()
		}
		if i > 0 {
			if err := s.limiter.Wait(ctx); err != nil {
				return best, err
			}
		}

		log.Debug("search query", zap.Int("index", i+1), zap.Int("total", len(queries)), zap.String("query", q))

		searchCtx := ctx
		if s.cfg.TimeoutSecs > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSecs)*time.Second)
			defer cancel()
		}

		resp, err := s.provider.Search(searchCtx, q, s.cfg.ResultsPerPage)
		if err != nil {
			log.Warn("search query failed, continuing", zap.String("query", q), zap.Error(err))
			continue
		}

		for _, r := range resp.Organic {
			hit := model.SearchHit{URL: r.Link, Title: r.Title, Snippet: r.Snippet}
			if sc := s.scorer.Score(hit, org, categoryLabel); sc > best.Score {
				best = model.ScoredCandidate{URL: hit.URL, Score: sc}
			}
		}

		if best.Score >= s.cfg.StopScore {
			log.Debug("stop score reached", zap.String("url", best.URL), zap.Int("score", best.Score))
			break
		}
	}

	if best.URL == "" {
		log.Info("no staff page candidate found", zap.Int("queries", len(queries)))
	} else {
		log.Info("staff page candidate selected", zap.String("url", best.URL), zap.Int("score", best.Score))
	}
	return best, nil
}
