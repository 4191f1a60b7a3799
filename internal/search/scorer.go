package search

import (
	"strings"

	"github.com/sells-group/harvest-cli/internal/category"
	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
)

// staffURLHints mark URL paths that usually point at staff listings.
var staffURLHints = []string{"staff", "coaches", "coach", "directory", "staff-directory", "coaching-staff", "staffdir"}

// negativeURLTerms mark URLs that usually point at rosters, news, or
// other non-directory pages.
var negativeURLTerms = []string{
	"roster", "schedule", "recap", "news", "article", "tickets", "stats",
	"boxscore", "preview", "camps", "clinic", "recreation", "intramural",
	"club", "pdf",
}

// negativeTitleTerms mark game-coverage page titles.
var negativeTitleTerms = []string{"recap", "preview", "game", "result"}

// staffTitleTerms mark directory-style page titles.
var staffTitleTerms = []string{"staff", "coaches", "directory"}

// Scorer assigns a relevance score to one search hit. All deltas come
// from the configured weight table.
type Scorer struct {
	registry *category.Registry
	weights  config.Weights
}

// NewScorer creates a Scorer with the given weight table.
func NewScorer(registry *category.Registry, weights config.Weights) *Scorer {
	return &Scorer{registry: registry, weights: weights}
}

// Score applies every rule in the weight table and sums the deltas. The
// result can be negative.
func (s *Scorer) Score(hit model.SearchHit, org, categoryLabel string) int {
	link := strings.ToLower(hit.URL)
	title := strings.ToLower(hit.Title)
	snippet := strings.ToLower(hit.Snippet)

	score := 0

	// Domain signal: known org domain beats .edu beats any athletics domain.
	dom := s.registry.DomainFor(org)
	switch {
	case dom != "" && strings.Contains(link, dom):
		score += s.weights.KnownDomain
	case strings.Contains(link, ".edu"):
		score += s.weights.EduDomain
	case containsAny(link, s.registry.KnownDomains()):
		score += s.weights.AthleticsDomain
	default:
		score += s.weights.NoDomainSignal
	}

	if containsAny(link, staffURLHints) {
		score += s.weights.StaffURLHint
	}
	if containsAny(title, staffTitleTerms) {
		score += s.weights.StaffTitle
	}

	for _, alias := range s.registry.Aliases(categoryLabel) {
		a := strings.ToLower(alias)
		if strings.Contains(title, a) {
			score += s.weights.AliasInTitle
		}
		if strings.Contains(snippet, a) {
			score += s.weights.AliasInSnippet
		}
		if strings.Contains(link, strings.ReplaceAll(a, " ", "-")) {
			score += s.weights.AliasInURL
		}
	}

	if strings.Contains(snippet, "@") {
		score += s.weights.EmailInSnippet
	}

	if containsAny(link, negativeURLTerms) {
		score += s.weights.NegativeURLTerm
	}
	if containsAny(title, negativeTitleTerms) {
		score += s.weights.NegativeTitle
	}

	return score
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
