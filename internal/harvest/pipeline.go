// Package harvest sequences search, scrape, compaction, and extraction
// into one terminal outcome per organization.
package harvest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/harvest-cli/internal/model"
)

// Sentinel reasons recorded in the title column of failed outcomes.
const (
	reasonNoPage           = "NOT FOUND - No staff page"
	reasonScrapeFailed     = "NOT FOUND - Scrape failed"
	reasonExtractionFailed = "NOT FOUND - Extraction failed"
)

// PageSelector resolves the best staff-page candidate for an
// organization and category.
type PageSelector interface {
	SelectStaffPage(ctx context.Context, org, categoryLabel string) (model.ScoredCandidate, error)
}

// ContentRetriever fetches page text through the scrape fallback chain.
// A nil result means every strategy failed.
type ContentRetriever interface {
	Scrape(ctx context.Context, targetURL string) *model.RawContent
}

// Compactor reduces raw page text to the staff-relevant subset.
type Compactor interface {
	Compact(raw model.RawContent, categoryLabel string) model.CompactedContent
	Emails(text string) []string
}

// Extractor turns compacted content into validated staff records.
type Extractor interface {
	Extract(ctx context.Context, org model.Organization, categoryLabel string, content model.CompactedContent, emailHints []string, ts time.Time) ([]model.StaffRecord, error)
}

// Pipeline runs one organization through all stages. Dependencies are
// injected so each stage can be replaced in tests.
type Pipeline struct {
	selector  PageSelector
	retriever ContentRetriever
	compactor Compactor
	extractor Extractor
	now       func() time.Time
}

// New creates a Pipeline.
func New(selector PageSelector, retriever ContentRetriever, compactor Compactor, extractor Extractor) *Pipeline {
	return &Pipeline{
		selector:  selector,
		retriever: retriever,
		compactor: compactor,
		extractor: extractor,
		now:       time.Now,
	}
}

// Harvest processes one organization+category to a terminal outcome.
// Upstream failures never propagate as errors; each maps to a
// not-found status carrying a single sentinel record.
func (p *Pipeline) Harvest(ctx context.Context, org model.Organization, categoryLabel string) model.HarvestOutcome {
	log := zap.L().With(
		zap.String("organization", org.Name),
		zap.String("category", categoryLabel),
	)

	candidate, err := p.selector.SelectStaffPage(ctx, org.Name, categoryLabel)
	if err != nil || candidate.URL == "" {
		if err != nil {
			log.Warn("selection aborted", zap.Error(err))
		}
		return p.failed(org, categoryLabel, model.StatusNoPage, reasonNoPage, "")
	}

	raw := p.retriever.Scrape(ctx, candidate.URL)
	if raw == nil {
		return p.failed(org, categoryLabel, model.StatusScrapeFailed, reasonScrapeFailed, candidate.URL)
	}

	compacted := p.compactor.Compact(*raw, categoryLabel)
	hints := p.compactor.Emails(compacted.Text)

	records, err := p.extractor.Extract(ctx, org, categoryLabel, compacted, hints, p.now().UTC())
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
	}
	if len(records) == 0 {
		return p.failed(org, categoryLabel, model.StatusExtractionFailed, reasonExtractionFailed, raw.SourceURL)
	}

	log.Info("harvest complete", zap.Int("records", len(records)), zap.String("source_url", raw.SourceURL))
	return model.HarvestOutcome{
		Organization: org.Name,
		Category:     categoryLabel,
		Status:       model.StatusFound,
		Records:      records,
	}
}

func (p *Pipeline) failed(org model.Organization, categoryLabel string, status model.HarvestStatus, reason, sourceURL string) model.HarvestOutcome {
	zap.L().Info("harvest failed",
		zap.String("organization", org.Name),
		zap.String("category", categoryLabel),
		zap.String("status", string(status)),
	)
	return model.HarvestOutcome{
		Organization: org.Name,
		Category:     categoryLabel,
		Status:       status,
		Records:      []model.StaffRecord{model.Sentinel(org, categoryLabel, reason, sourceURL, p.now().UTC())},
	}
}
