package main

import (
	"context"
	"time"

	"github.com/sells-group/harvest-cli/internal/category"
	"github.com/sells-group/harvest-cli/internal/compact"
	"github.com/sells-group/harvest-cli/internal/extract"
	"github.com/sells-group/harvest-cli/internal/harvest"
	"github.com/sells-group/harvest-cli/internal/scrape"
	"github.com/sells-group/harvest-cli/internal/search"
	"github.com/sells-group/harvest-cli/internal/store"
	anthropicpkg "github.com/sells-group/harvest-cli/pkg/anthropic"
	"github.com/sells-group/harvest-cli/pkg/reader"
	"github.com/sells-group/harvest-cli/pkg/serper"
)

// harvestEnv holds the initialized store, clients, and pipeline needed
// by the harvest/results commands.
type harvestEnv struct {
	Store    store.Store
	Registry *category.Registry
	Pipeline *harvest.Pipeline
}

// Close releases resources held by the environment.
func (he *harvestEnv) Close() {
	if he.Store != nil {
		_ = he.Store.Close()
	}
}

// initHarvest sets up the store, all API clients, and the pipeline.
// Callers should defer env.Close().
func initHarvest(ctx context.Context) (*harvestEnv, error) {
	if err := cfg.Validate("harvest"); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	registry := category.NewRegistry(cfg.Categories, cfg.Domains)

	serperClient := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
	selector := search.NewSelector(
		serperClient,
		search.NewPlanner(registry, cfg.Search.MaxQueries),
		search.NewScorer(registry, cfg.Search.Weights),
		cfg.Search,
	)

	readerClient := reader.NewClient(cfg.Reader.Key, reader.WithBaseURL(cfg.Reader.BaseURL))
	chain := scrape.NewChain(
		time.Duration(cfg.Scrape.TimeoutSecs)*time.Second,
		scrape.NewReaderScraper(readerClient, cfg.Scrape.MinContentChars),
		scrape.NewDirectScraper(cfg.Scrape.MinContentChars),
	)

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	extractor := extract.NewExtractor(anthropicClient, cfg.Anthropic)

	pipeline := harvest.New(selector, chain, compact.New(registry, cfg.Compact), extractor)

	return &harvestEnv{
		Store:    st,
		Registry: registry,
		Pipeline: pipeline,
	}, nil
}
