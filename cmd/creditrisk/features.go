package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"creditrisk/internal/gateway"
	"creditrisk/internal/usecase"
)

func newFeaturesCommand(a *app) *cobra.Command {
	var input, output, aggregates string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Build the processed training table from raw transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewFeatureUseCase(
				gateway.NewCSVTransactionRepository(),
				gateway.NewCSVFrameWriter(),
				gateway.NewParquetAggregateWriter(),
				a.logger,
			)
			res, err := uc.Build(cmd.Context(), input, usecase.FeatureConfig{
				Options:        a.cfg.FeatureOptions(),
				ProcessedPath:  output,
				AggregatesPath: aggregates,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"rows":               res.Frame.Len(),
				"customers":          len(res.Aggregates),
				"duplicates_removed": res.Duplicates,
				"rows_dropped":       res.Dropped,
				"output":             output,
				"aggregates":         aggregates,
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/raw/data.csv", "raw transactions CSV")
	cmd.Flags().StringVar(&output, "output", "data/processed/processed.csv", "processed table CSV")
	cmd.Flags().StringVar(&aggregates, "aggregates", "", "optional parquet file for customer aggregates")
	return cmd
}
