package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/harvest-cli/internal/harvest"
	"github.com/sells-group/harvest-cli/internal/roster"
)

var (
	harvestRoster      string
	harvestCategory    string
	harvestDivision    string
	harvestConference  string
	harvestConcurrency int
	harvestLimit       int
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest staff records for a roster of organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initHarvest(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		orgs, err := roster.Load(harvestRoster)
		if err != nil {
			return err
		}
		orgs = roster.Filter(orgs, harvestDivision, harvestConference)
		if len(orgs) == 0 {
			return eris.New("no organizations match the roster selection")
		}
		if harvestLimit > 0 && len(orgs) > harvestLimit {
			orgs = orgs[:harvestLimit]
		}

		concurrency := harvestConcurrency
		if concurrency == 0 {
			concurrency = cfg.Harvest.Concurrency
		}

		runner := harvest.NewRunner(env.Pipeline, env.Store, concurrency)
		run, err := runner.Run(ctx, orgs, harvestCategory, harvestDivision, harvestConference)
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %d/%d organizations found, %d records\n",
			run.ID, run.FoundCount, run.OrgCount, run.RecordCount)
		return nil
	},
}

func init() {
	harvestCmd.Flags().StringVar(&harvestRoster, "roster", "", "roster file (yaml or xlsx)")
	harvestCmd.Flags().StringVar(&harvestCategory, "category", "", "category label to harvest (e.g. \"Men's Soccer\")")
	harvestCmd.Flags().StringVar(&harvestDivision, "division", "", "only organizations in this division")
	harvestCmd.Flags().StringVar(&harvestConference, "conference", "", "only organizations in this conference")
	harvestCmd.Flags().IntVar(&harvestConcurrency, "concurrency", 0, "parallel organizations (default from config)")
	harvestCmd.Flags().IntVar(&harvestLimit, "limit", 0, "max organizations to process")
	harvestCmd.MarkFlagRequired("roster")   //nolint:errcheck
	harvestCmd.MarkFlagRequired("category") //nolint:errcheck
	rootCmd.AddCommand(harvestCmd)
}
