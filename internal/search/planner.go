// Package search resolves the most likely staff-directory URL for an
// organization and category: query planning, result scoring, and
// best-candidate selection.
package search

import (
	"fmt"
	"strings"

	"github.com/sells-group/harvest-cli/internal/category"
)

// Search operator clauses shared by every planned query.
const (
	intentClause = `(staff OR coaches OR "coaching staff" OR directory)`
	emailClause  = `(email OR "@")`
	inurlClause  = `(inurl:staff OR inurl:coaches OR inurl:directory)`
)

// negatedQueryTerms are excluded at query time. A subset of the scorer's
// negative URL terms; the rest are handled by scoring alone.
var negatedQueryTerms = []string{"roster", "schedule", "recap", "news", "tickets", "stats", "pdf"}

// maxQueryAliases caps how many category aliases are OR'd into a query.
const maxQueryAliases = 3

// Planner builds the ordered search query list for one organization and
// category.
type Planner struct {
	registry   *category.Registry
	maxQueries int
}

// NewPlanner creates a Planner. maxQueries truncates the generated list;
// values < 1 disable truncation.
func NewPlanner(registry *category.Registry, maxQueries int) *Planner {
	return &Planner{registry: registry, maxQueries: maxQueries}
}

// Queries returns the ordered query list. When the organization has a
// known athletics domain the first query is scoped to it; the remaining
// queries broaden from .edu-scoped to unrestricted to URL-pattern.
func (p *Planner) Queries(org, categoryLabel string) []string {
	aliases := p.registry.Aliases(categoryLabel)
	if len(aliases) > maxQueryAliases {
		aliases = aliases[:maxQueryAliases]
	}
	quoted := make([]string, len(aliases))
	for i, a := range aliases {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	aliasOr := strings.Join(quoted, " OR ")

	var neg strings.Builder
	for i, t := range negatedQueryTerms {
		if i > 0 {
			neg.WriteByte(' ')
		}
		neg.WriteString("-" + t)
	}
	negatives := neg.String()

	var qs []string
	if dom := p.registry.DomainFor(org); dom != "" {
		qs = append(qs, fmt.Sprintf("site:%s %s %s %s %s", dom, intentClause, aliasOr, emailClause, negatives))
	}
	qs = append(qs,
		fmt.Sprintf("site:.edu %q %s %s %s %s", org, intentClause, aliasOr, emailClause, negatives),
		fmt.Sprintf("%q athletics %s %s %s %s", org, intentClause, aliasOr, emailClause, negatives),
		fmt.Sprintf("%q %s %s %s", org, aliasOr, inurlClause, negatives),
	)

	if p.maxQueries > 0 && len(qs) > p.maxQueries {
		qs = qs[:p.maxQueries]
	}
	return qs
}
