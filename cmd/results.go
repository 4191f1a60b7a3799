package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/harvest-cli/internal/store"
)

var (
	resultsRunID string
	resultsLimit int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List harvest runs or the records of one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if resultsRunID == "" {
			runs, err := st.ListRuns(ctx, store.RunFilter{Limit: resultsLimit})
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%s  %-10s %-20s %3d orgs  %3d found  %4d records  %s\n",
					r.ID, r.Status, r.Category, r.OrgCount, r.FoundCount, r.RecordCount,
					r.StartedAt.Format("2006-01-02 15:04"))
			}
			return nil
		}

		run, err := st.GetRun(ctx, resultsRunID)
		if err != nil {
			return err
		}
		if run == nil {
			return eris.Errorf("run %s not found", resultsRunID)
		}

		records, err := st.ListRecords(ctx, resultsRunID)
		if err != nil {
			return err
		}
		for _, r := range records {
			name, email := "-", "-"
			if r.Name != nil {
				name = *r.Name
			}
			if r.Email != nil {
				email = *r.Email
			}
			fmt.Printf("%-30s %-25s %-35s %-30s %s\n", r.Organization, name, r.Title, email, r.SourceURL)
		}
		return nil
	},
}

func init() {
	resultsCmd.Flags().StringVar(&resultsRunID, "run", "", "run id to list records for")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 50, "max runs to list")
	rootCmd.AddCommand(resultsCmd)
}
