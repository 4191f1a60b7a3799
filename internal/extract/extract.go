package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
	"github.com/sells-group/harvest-cli/pkg/anthropic"
)

// Extractor runs the schema-constrained extraction call and converts
// the response into validated staff records.
type Extractor struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewExtractor creates an Extractor.
func NewExtractor(client anthropic.Client, cfg config.AnthropicConfig) *Extractor {
	return &Extractor{client: client, cfg: cfg}
}

// Extract asks the model for the staff list on one compacted page.
// Returns the cleaned records and the upstream error, if any. An
// unparsable response is not an error: it yields zero records and the
// caller classifies the outcome.
func (e *Extractor) Extract(ctx context.Context, org model.Organization, categoryLabel string, content model.CompactedContent, emailHints []string, ts time.Time) ([]model.StaffRecord, error) {
	log := zap.L().With(
		zap.String("organization", org.Name),
		zap.String("category", categoryLabel),
	)

	if e.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	temp := e.cfg.Temperature
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: BuildPrompt(org, categoryLabel, content, emailHints)},
		},
	})
	if err != nil {
		return nil, err
	}

	log.Debug("extraction call complete",
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	items := Parse(resp.Text())
	if items == nil {
		log.Warn("extraction response unparsable")
		return nil, nil
	}

	records := CleanRecords(items, org, categoryLabel, content.SourceURL, ts)
	log.Info("records extracted",
		zap.Int("parsed", len(items)),
		zap.Int("kept", len(records)),
	)
	return records, nil
}
