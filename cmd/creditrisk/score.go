package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"creditrisk/internal/gateway"
	"creditrisk/internal/scoring"
	"creditrisk/internal/usecase"
)

func newScoreCommand(a *app) *cobra.Command {
	var artifact, recordPath, input string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON record or every row of a features CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (recordPath == "") == (input == "") {
				return errors.New("exactly one of --record or --input is required")
			}
			ctx := cmd.Context()
			if artifact == "" {
				artifact = a.cfg.Training.ArtifactPath
			}
			data, err := gateway.NewFileArtifactStore().ReadArtifact(ctx, artifact)
			if err != nil {
				return err
			}
			svc, err := scoring.Load(data, a.cfg.Training.Threshold)
			if err != nil {
				return err
			}
			uc := usecase.NewScoringUseCase(svc, usecase.WithScoringLogger(a.logger))
			enc := json.NewEncoder(os.Stdout)

			if recordPath != "" {
				raw, err := os.ReadFile(recordPath)
				if err != nil {
					return errors.Wrap(err, "could not read record")
				}
				var record map[string]any
				if err := json.Unmarshal(raw, &record); err != nil {
					return errors.Wrap(err, "record must be a JSON object")
				}
				p, err := uc.Predict(ctx, record)
				if err != nil {
					return err
				}
				return enc.Encode(p)
			}

			frame, err := gateway.NewCSVTransactionRepository().ReadFrame(ctx, input)
			if err != nil {
				return err
			}
			for i := 0; i < frame.Len(); i++ {
				p, err := uc.Predict(ctx, frame.Row(i))
				if err != nil {
					if encErr := enc.Encode(map[string]any{"row": i, "error": err.Error()}); encErr != nil {
						return encErr
					}
					continue
				}
				if err := enc.Encode(map[string]any{"row": i, "prediction": p}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&artifact, "artifact", "", "artifact path (defaults to the configured one)")
	cmd.Flags().StringVar(&recordPath, "record", "", "JSON file holding one feature record")
	cmd.Flags().StringVar(&input, "input", "", "CSV of feature rows to score")
	return cmd
}
