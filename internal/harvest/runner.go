package harvest

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/harvest-cli/internal/model"
	"github.com/sells-group/harvest-cli/internal/store"
)

// Harvester is the per-organization pipeline contract the Runner
// drives.
type Harvester interface {
	Harvest(ctx context.Context, org model.Organization, categoryLabel string) model.HarvestOutcome
}

// Runner executes a batch of organizations against one category and
// persists every outcome under a single run.
type Runner struct {
	harvester   Harvester
	store       store.Store
	concurrency int
}

// NewRunner creates a Runner. Concurrency values < 1 run sequentially.
func NewRunner(harvester Harvester, st store.Store, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{harvester: harvester, store: st, concurrency: concurrency}
}

// Run harvests every organization, saving outcomes as they finalize.
// Per-organization failures are outcomes, not errors; only store
// failures abort the batch.
func (r *Runner) Run(ctx context.Context, orgs []model.Organization, categoryLabel, division, conference string) (*model.HarvestRun, error) {
	run, err := r.store.CreateRun(ctx, model.HarvestRun{
		Category:   categoryLabel,
		Division:   division,
		Conference: conference,
		OrgCount:   len(orgs),
	})
	if err != nil {
		return nil, err
	}

	var (
		mu          sync.Mutex
		foundCount  int
		recordCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, org := range orgs {
		g.Go(func() error {
			outcome := r.harvester.Harvest(gctx, org, categoryLabel)
			if err := r.store.SaveOutcome(gctx, run.ID, outcome); err != nil {
				return err
			}

			mu.Lock()
			if outcome.Status.Found() {
				foundCount++
				recordCount += len(outcome.Records)
			}
			mu.Unlock()
			return nil
		})
	}

	status := model.RunStatusComplete
	if err := g.Wait(); err != nil {
		status = model.RunStatusFailed
		zap.L().Error("harvest run aborted", zap.String("run_id", run.ID), zap.Error(err))
	}

	if err := r.store.CompleteRun(ctx, run.ID, status, foundCount, recordCount); err != nil {
		return run, err
	}

	run.Status = status
	run.FoundCount = foundCount
	run.RecordCount = recordCount

	zap.L().Info("harvest run finished",
		zap.String("run_id", run.ID),
		zap.String("category", categoryLabel),
		zap.Int("organizations", len(orgs)),
		zap.Int("found", foundCount),
		zap.Int("records", recordCount),
	)
	return run, nil
}
