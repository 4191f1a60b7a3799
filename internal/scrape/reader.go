package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/harvest-cli/internal/model"
	"github.com/sells-group/harvest-cli/pkg/reader"
)

// ReaderScraper renders a URL as plain text via the reader service. It
// is the first tier of the chain: the service handles JS-heavy athletics
// sites that a raw GET cannot.
type ReaderScraper struct {
	client   reader.Client
	minChars int
}

// NewReaderScraper creates a ReaderScraper. Responses shorter than
// minChars are rejected so the chain falls through to direct fetch.
func NewReaderScraper(client reader.Client, minChars int) *ReaderScraper {
	return &ReaderScraper{client: client, minChars: minChars}
}

func (r *ReaderScraper) Name() string { return "reader" }

// Scrape fetches the plain-text rendering and validates its length.
func (r *ReaderScraper) Scrape(ctx context.Context, targetURL string) (*model.RawContent, error) {
	text, err := r.client.Read(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(text)) <= r.minChars {
		return nil, eris.Errorf("reader: content too short (%d chars)", len(text))
	}

	return &model.RawContent{
		Text:      text,
		SourceURL: targetURL,
		Strategy:  r.Name(),
	}, nil
}
