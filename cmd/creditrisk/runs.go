package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"creditrisk/internal/domain"
	"creditrisk/internal/gateway"
)

func newRunsCommand(a *app) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show a recorded training run (the latest by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.DatabaseURL == "" {
				return errors.New("database_url is not configured")
			}
			pool, err := openRunStore(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := gateway.NewPostgresRunRepository(pool)

			var run *domain.TrainingRun
			if runID != "" {
				run, err = repo.FindRun(ctx, runID)
			} else {
				run, err = repo.LatestRun(ctx)
			}
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("no matching training run")
			}
			if err != nil {
				return err
			}
			labels, err := repo.LabelsForRun(ctx, run.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "run %s finished %s in %s\n",
				run.ID, run.FinishedAt.Format(time.RFC3339), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Field", "Value"})
			table.AppendBulk([][]string{
				{"model", run.ModelKind},
				{"auc", strconv.FormatFloat(run.AUC, 'f', 4, 64)},
				{"rows", strconv.Itoa(run.Rows)},
				{"customers", strconv.Itoa(run.Customers)},
				{"label source", string(run.LabelSource)},
				{"high risk customers", strconv.Itoa(run.HighRiskCount)},
				{"stored labels", strconv.Itoa(len(labels))},
				{"artifact", run.ArtifactPath},
			})
			kinds := make([]string, 0, len(run.CandidateAUC))
			for k := range run.CandidateAUC {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			for _, k := range kinds {
				table.Append([]string{"auc " + k, strconv.FormatFloat(run.CandidateAUC[k], 'f', 4, 64)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "id", "", "run id to show")
	return cmd
}
