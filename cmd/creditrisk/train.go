package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"creditrisk/internal/gateway"
	"creditrisk/internal/model"
	"creditrisk/internal/usecase"
)

func newTrainCommand(a *app) *cobra.Command {
	var (
		input      string
		kind       string
		candidates string
		artifact   string
		processed  string
		aggregates string
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model and write the artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if kind != "" {
				cfg.Training.Model = kind
			}
			if candidates != "" {
				cfg.Training.Candidates = strings.Split(candidates, ",")
			}
			if artifact != "" {
				cfg.Training.ArtifactPath = artifact
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := []usecase.TrainingOption{
				usecase.WithLogger(a.logger),
				usecase.WithFeatureExport(gateway.NewCSVFrameWriter(), gateway.NewParquetAggregateWriter()),
			}
			if cfg.DatabaseURL != "" {
				pool, err := openRunStore(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				opts = append(opts, usecase.WithRunRepository(gateway.NewPostgresRunRepository(pool)))
			}
			if len(cfg.Kafka.Brokers) > 0 {
				publisher := gateway.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.logger)
				defer publisher.Close() //nolint:errcheck
				opts = append(opts, usecase.WithEventPublisher(publisher))
			}

			uc := usecase.NewTrainingUseCase(gateway.NewCSVTransactionRepository(), gateway.NewFileArtifactStore(), opts...)
			res, err := uc.Train(ctx, input, usecase.TrainingConfig{
				Features: usecase.FeatureConfig{
					Options:        cfg.FeatureOptions(),
					ProcessedPath:  processed,
					AggregatesPath: aggregates,
				},
				Training:       cfg.TrainerConfig(),
				TargetColumn:   cfg.Training.TargetColumn,
				Candidates:     cfg.Training.CandidateKinds(),
				ExcludeColumns: cfg.Training.ExcludeColumns,
			})
			if err != nil {
				return err
			}
			renderTrainingReport(os.Stdout, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/raw/data.csv", "raw transactions CSV")
	cmd.Flags().StringVar(&kind, "model", "", fmt.Sprintf("model kind, one of %v", model.Kinds))
	cmd.Flags().StringVar(&candidates, "candidates", "", "comma-separated model kinds to compare")
	cmd.Flags().StringVar(&artifact, "artifact", "", "artifact output path")
	cmd.Flags().StringVar(&processed, "processed", "", "optional CSV for the labelled training table")
	cmd.Flags().StringVar(&aggregates, "aggregates", "", "optional parquet file for customer aggregates")
	return cmd
}

func openRunStore(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if err := gateway.RunMigrations(dsn); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return pool, nil
}

func renderTrainingReport(w io.Writer, res *usecase.TrainingResult) {
	fmt.Fprintf(w, "run %s: %s (label source %s, %d rows, %d customers)\n",
		res.Run.ID, res.Run.ModelKind, res.Run.LabelSource, res.Run.Rows, res.Run.Customers)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Model", "Test AUC", "Selected"})
	for _, c := range res.Candidates {
		selected := ""
		if c.Kind == res.Best.Kind {
			selected = "*"
		}
		table.Append([]string{string(c.Kind), strconv.FormatFloat(c.AUC, 'f', 4, 64), selected})
	}
	table.Render()

	if len(res.Clusters) == 0 {
		return
	}
	fmt.Fprintln(w, "proxy label clusters (a clustering artifact, not observed defaults):")
	clusters := tablewriter.NewWriter(w)
	clusters.SetHeader([]string{"Cluster", "Customers", "High risk", "Median recency", "Median frequency", "Median monetary"})
	for _, s := range res.Clusters {
		clusters.Append([]string{
			strconv.Itoa(s.Cluster),
			strconv.Itoa(s.Customers),
			strconv.FormatBool(s.HighRisk),
			strconv.FormatFloat(s.MedianRecency, 'f', 1, 64),
			strconv.FormatFloat(s.MedianFrequency, 'f', 1, 64),
			strconv.FormatFloat(s.MedianMonetary, 'f', 2, 64),
		})
	}
	clusters.Render()
}
