package search

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/harvest-cli/internal/config"
	"github.com/sells-group/harvest-cli/pkg/serper"
)

// mockProvider returns canned results per query and records issued queries.
type mockProvider struct {
	byQuery map[string][]serper.OrganicResult
	all     []serper.OrganicResult
	err     error
	queries []string
}

func (m *mockProvider) Search(_ context.Context, query string, _ int) (*serper.SearchResponse, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if m.byQuery != nil {
		return &serper.SearchResponse{Organic: m.byQuery[query]}, nil
	}
	return &serper.SearchResponse{Organic: m.all}, nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		MaxQueries:     4,
		ResultsPerPage: 8,
		StopScore:      70,
		MinScore:       -10,
		PacingMillis:   0, // no pacing in tests
		Weights:        defaultWeights(),
	}
}

func newTestSelector(provider serper.Client, cfg config.SearchConfig) *Selector {
	reg := testRegistry()
	return NewSelector(provider, NewPlanner(reg, cfg.MaxQueries), NewScorer(reg, cfg.Weights), cfg)
}

func TestSelectStaffPage_PicksBestHit(t *testing.T) {
	provider := &mockProvider{all: []serper.OrganicResult{
		{
			Link:  "https://example.edu/sports/msoc/roster",
			Title: "Men's Soccer Roster",
		},
		{
			Link:    "https://example.edu/athletics/staff/msoc",
			Title:   "Men's Soccer Staff",
			Snippet: "Head Coach — jdoe@example.edu",
		},
	}}

	sel := newTestSelector(provider, testSearchConfig())
	best, err := sel.SelectStaffPage(context.Background(), "Example College", "Men's Soccer")

	require.NoError(t, err)
	assert.Equal(t, "https://example.edu/athletics/staff/msoc", best.URL)
	assert.GreaterOrEqual(t, best.Score, 70)
}

func TestSelectStaffPage_EarlyExitAtStopScore(t *testing.T) {
	// The first query already yields a >= 70 candidate, so no further
	// queries may be issued.
	provider := &mockProvider{all: []serper.OrganicResult{
		{
			Link:    "https://example.edu/athletics/staff/msoc",
			Title:   "Men's Soccer Staff Directory",
			Snippet: "jdoe@example.edu",
		},
	}}

	sel := newTestSelector(provider, testSearchConfig())
	best, err := sel.SelectStaffPage(context.Background(), "Example College", "Men's Soccer")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, best.Score, 70)
	assert.Len(t, provider.queries, 1)
}

func TestSelectStaffPage_ExhaustsQueriesBelowStopScore(t *testing.T) {
	provider := &mockProvider{all: []serper.OrganicResult{
		{Link: "https://example.com/somewhere", Title: "Something"},
	}}

	sel := newTestSelector(provider, testSearchConfig())
	best, err := sel.SelectStaffPage(context.Background(), "Example College", "Golf")

	require.NoError(t, err)
	assert.Len(t, provider.queries, 4)
	assert.Equal(t, "https://example.com/somewhere", best.URL)
}

func TestSelectStaffPage_NoHits(t *testing.T) {
	provider := &mockProvider{}

	sel := newTestSelector(provider, testSearchConfig())
	best, err := sel.SelectStaffPage(context.Background(), "Unknown State", "Golf")

	require.NoError(t, err)
	assert.Empty(t, best.URL)
	assert.Equal(t, -10, best.Score)
}

func TestSelectStaffPage_ProviderFailureIsZeroHits(t *testing.T) {
	provider := &mockProvider{err: eris.New("serper: status 500")}

	sel := newTestSelector(provider, testSearchConfig())
	best, err := sel.SelectStaffPage(context.Background(), "Example College", "Golf")

	require.NoError(t, err)
	assert.Empty(t, best.URL)
	assert.Len(t, provider.queries, 4, "every query should still be attempted")
}

func TestSelectStaffPage_FirstSeenWinsTies(t *testing.T) {
	// Two hits with identical scores: the first must be kept.
	provider := &mockProvider{all: []serper.OrganicResult{
		{Link: "https://a.example.com/page", Title: "Something"},
		{Link: "https://b.example.com/page", Title: "Something"},
	}}

	cfg := testSearchConfig()
	sel := newTestSelector(provider, cfg)
	best, err := sel.SelectStaffPage(context.Background(), "Unknown State", "Golf")

	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com/page", best.URL)
}
