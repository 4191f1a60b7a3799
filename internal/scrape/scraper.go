// Package scrape retrieves the textual content of a staff page through
// an ordered fallback chain of scraping strategies.
package scrape

import (
	"context"

	"github.com/sells-group/harvest-cli/internal/model"
)

// Scraper fetches a single URL and returns its textual content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.RawContent, error)
	Name() string
}
