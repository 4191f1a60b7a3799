// Package compact reduces raw page text to the lines likely to contain
// staff data, keeping the extraction prompt inside its character budget.
package compact

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/harvest-cli/internal/category"
	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/internal/model"
)

// emailRe matches syntactically plausible email addresses.
var emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

// roleKeywords mark lines naming staff roles.
var roleKeywords = []string{"coach", "coaches", "staff", "director", "coordinator", "assistant", "head coach"}

// Compactor filters raw content down to staff-relevant lines.
type Compactor struct {
	registry *category.Registry
	cfg      config.CompactConfig
}

// New creates a Compactor.
func New(registry *category.Registry, cfg config.CompactConfig) *Compactor {
	return &Compactor{registry: registry, cfg: cfg}
}

// Compact keeps every trimmed non-empty line that contains an email
// address, a category alias, or a staff-role keyword. When the kept text
// falls below the floor, meaning the filter stripped too much of this
// page, it falls back to the leading raw lines instead. Either way the
// result is truncated to the character budget.
func (c *Compactor) Compact(raw model.RawContent, categoryLabel string) model.CompactedContent {
	aliases := make([]string, 0)
	for _, a := range c.registry.Aliases(categoryLabel) {
		aliases = append(aliases, strings.ToLower(a))
	}

	var lines []string
	for _, ln := range strings.Split(raw.Text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}

	var kept []string
	for _, ln := range lines {
		lower := strings.ToLower(ln)
		switch {
		case emailRe.MatchString(ln):
			kept = append(kept, ln)
		case containsAny(lower, aliases):
			kept = append(kept, ln)
		case containsAny(lower, roleKeywords):
			kept = append(kept, ln)
		}
	}

	joined := strings.Join(kept, "\n")
	if len(joined) < c.cfg.MinKeptChars {
		n := c.cfg.FallbackLines
		if n > len(lines) {
			n = len(lines)
		}
		joined = strings.Join(lines[:n], "\n")
	}

	if len(joined) > c.cfg.MaxChars {
		joined = joined[:c.cfg.MaxChars]
	}

	return model.CompactedContent{Text: joined, SourceURL: raw.SourceURL}
}

// Emails returns the sorted unique email addresses present in the text,
// capped at the configured hint limit. Used to bias extraction toward
// addresses actually on the page.
func (c *Compactor) Emails(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(text, -1) {
		seen[m] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)

	limit := c.cfg.MaxEmailHints
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
