package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"creditrisk/internal/gateway"
	"creditrisk/internal/observability"
	grpcpresentation "creditrisk/internal/presentation/grpc"
	"creditrisk/internal/presentation/rest"
	"creditrisk/internal/scoring"
	"creditrisk/internal/usecase"
)

func newServeCommand(a *app) *cobra.Command {
	var artifact string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP and gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			logger := a.logger
			if artifact == "" {
				artifact = cfg.Training.ArtifactPath
			}

			data, err := gateway.NewFileArtifactStore().ReadArtifact(ctx, artifact)
			if err != nil {
				return err
			}
			svc, err := scoring.Load(data, cfg.Training.Threshold)
			if err != nil {
				return err
			}
			meta := svc.Model()
			logger.Info("model loaded",
				slog.String("run_id", meta.RunID),
				slog.String("model", string(meta.ModelKind)),
				slog.Float64("auc", meta.AUC),
				slog.String("label_source", string(meta.LabelSource)),
			)

			metrics := observability.NewMetrics()
			metrics.SetModel(meta.RunID, string(meta.ModelKind), meta.AUC)

			opts := []usecase.ScoringOption{
				usecase.WithMetrics(metrics),
				usecase.WithScoringLogger(logger),
			}
			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
				defer client.Close() //nolint:errcheck
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Warn("redis unavailable, serving without cache", slog.String("error", err.Error()))
				} else {
					opts = append(opts, usecase.WithPredictionCache(gateway.NewRedisPredictionCache(client, cfg.Redis.TTL)))
				}
			}
			uc := usecase.NewScoringUseCase(svc, opts...)

			grpcServer := grpcpresentation.NewServer(grpcpresentation.NewScoringHandler(uc, logger), logger)
			router := rest.NewRouter(
				rest.NewPredictHandler(uc, logger),
				rest.NewHealthHandler(uc, logger),
				metrics.Handler(),
			)
			httpServer := rest.NewServer(cfg.HTTPAddress(), router, logger)

			errCh := make(chan error, 2)
			go func() {
				if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
					errCh <- errors.Wrap(err, "gRPC server error")
				}
			}()
			go func() {
				logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- errors.Wrap(err, "HTTP server error")
				}
			}()

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info("shutdown signal received")
			case runErr = <-errCh:
				logger.Error("server error", slog.String("error", runErr.Error()))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			grpcServer.GracefulStop()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
			logger.Info("creditrisk stopped")
			return runErr
		},
	}
	cmd.Flags().StringVar(&artifact, "artifact", "", "artifact path (defaults to the configured one)")
	return cmd
}
