// Package category holds the staff-category alias tables and the known
// athletics-domain map used for query planning and result scoring.
package category

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is a staff sub-group label plus the alias terms that identify
// it in page titles, snippets, and URLs.
type Category struct {
	Label   string   `yaml:"label" mapstructure:"label"`
	Aliases []string `yaml:"aliases" mapstructure:"aliases"`
}

// defaultAliases maps category labels to their search alias terms.
var defaultAliases = map[string][]string{
	"Men's Soccer":          {"men's soccer", "msoc", "soccer"},
	"Women's Soccer":        {"women's soccer", "wsoc", "soccer"},
	"Men's Basketball":      {"men's basketball", "mbb", "basketball"},
	"Women's Basketball":    {"women's basketball", "wbb", "basketball"},
	"Football":              {"football"},
	"Men's Track & Field":   {"men's track", "track and field", "cross country", "mtrack", "mxctf"},
	"Women's Track & Field": {"women's track", "track and field", "cross country", "wtrack", "wxctf"},
	"Rowing":                {"rowing", "crew"},
	"Men's Lacrosse":        {"men's lacrosse", "mlax", "lacrosse"},
	"Women's Lacrosse":      {"women's lacrosse", "wlax", "lacrosse"},
	"Volleyball":            {"volleyball"},
	"Swimming":              {"swimming", "diving", "swimming and diving"},
	"Tennis":                {"tennis"},
	"Golf":                  {"golf"},
	"Field Hockey":          {"field hockey"},
}

// defaultDomains maps organization names (substring-matched after
// normalization) to their athletics web domains.
var defaultDomains = map[string]string{
	"Harvard":   "gocrimson.com",
	"Yale":      "yalebulldogs.com",
	"Princeton": "goprincetontigers.com",
	"Brown":     "brownbears.com",
	"Dartmouth": "dartmouthsports.com",
}

// Registry resolves category aliases and organization domains. Extra
// entries from configuration extend the built-in tables.
type Registry struct {
	aliases map[string][]string
	domains map[string]string
}

// NewRegistry builds a Registry from the built-in tables plus optional
// overrides. Override aliases replace the built-in list for that label;
// override domains are added to the map.
func NewRegistry(extraCategories []Category, extraDomains map[string]string) *Registry {
	r := &Registry{
		aliases: make(map[string][]string, len(defaultAliases)),
		domains: make(map[string]string, len(defaultDomains)),
	}
	for label, as := range defaultAliases {
		r.aliases[label] = as
	}
	for _, c := range extraCategories {
		if c.Label != "" && len(c.Aliases) > 0 {
			r.aliases[c.Label] = c.Aliases
		}
	}
	for org, dom := range defaultDomains {
		r.domains[org] = dom
	}
	for org, dom := range extraDomains {
		r.domains[org] = dom
	}
	return r
}

// Labels returns all known category labels, sorted order not guaranteed.
func (r *Registry) Labels() []string {
	out := make([]string, 0, len(r.aliases))
	for label := range r.aliases {
		out = append(out, label)
	}
	return out
}

// Aliases returns the alias terms for a category label. Unknown labels
// fall back to the label itself, so planning still produces queries.
func (r *Registry) Aliases(label string) []string {
	if as, ok := r.aliases[label]; ok {
		return as
	}
	return []string{label}
}

// DomainFor returns the known athletics domain for an organization, or
// "" when no mapping exists. Matching is a normalized substring check so
// "Harvard University" resolves via the "Harvard" entry.
func (r *Registry) DomainFor(org string) string {
	key := NormalizeKey(org)
	for name, dom := range r.domains {
		if strings.Contains(key, NormalizeKey(name)) {
			return dom
		}
	}
	return ""
}

// KnownDomains returns every mapped athletics domain.
func (r *Registry) KnownDomains() []string {
	out := make([]string, 0, len(r.domains))
	for _, d := range r.domains {
		out = append(out, d)
	}
	return out
}

var spaceRe = regexp.MustCompile(`\s+`)

// stripMarks removes combining marks so "Université" matches "Universite".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey lowercases, collapses whitespace, and folds diacritics
// for organization-name matching.
func NormalizeKey(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(spaceRe.ReplaceAllString(strings.TrimSpace(folded), " "))
}
