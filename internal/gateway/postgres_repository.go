package gateway

import (
	"context"
	"embed"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creditrisk/internal/domain"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded schema migrations to the database at
// dsn. It is a no-op when the schema is current.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Wrap(err, "postgres: open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return errors.Wrap(err, "postgres: create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "postgres: run migrations up")
	}
	return nil
}

// PostgresRunRepository stores training runs and the labels they used.
type PostgresRunRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRunRepository creates a new PostgreSQL-backed run repository.
func NewPostgresRunRepository(pool *pgxpool.Pool) *PostgresRunRepository {
	return &PostgresRunRepository{pool: pool}
}

// SaveRun persists a run and its labels in one transaction. Saving a run
// id again replaces the earlier record.
func (r *PostgresRunRepository) SaveRun(ctx context.Context, run *domain.TrainingRun, labels []domain.RiskLabel) error {
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid run id %q", run.ID)
	}
	candidates, err := json.Marshal(run.CandidateAUC)
	if err != nil {
		return errors.Wrap(err, "failed to encode candidate scores")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO training_runs (
			id, started_at, finished_at, model_kind, auc, candidate_auc,
			row_count, customer_count, label_source, high_risk_count, artifact_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			model_kind = EXCLUDED.model_kind,
			auc = EXCLUDED.auc,
			candidate_auc = EXCLUDED.candidate_auc,
			row_count = EXCLUDED.row_count,
			customer_count = EXCLUDED.customer_count,
			label_source = EXCLUDED.label_source,
			high_risk_count = EXCLUDED.high_risk_count,
			artifact_path = EXCLUDED.artifact_path
	`
	_, err = tx.Exec(ctx, query,
		id,
		run.StartedAt,
		run.FinishedAt,
		run.ModelKind,
		run.AUC,
		candidates,
		run.Rows,
		run.Customers,
		string(run.LabelSource),
		run.HighRiskCount,
		run.ArtifactPath,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save training run")
	}

	if _, err = tx.Exec(ctx, `DELETE FROM risk_labels WHERE run_id = $1`, id); err != nil {
		return errors.Wrap(err, "failed to delete old risk labels")
	}
	if len(labels) > 0 {
		rows := make([][]any, len(labels))
		for i, l := range labels {
			rows[i] = []any{id, l.CustomerID, l.Cluster, l.HighRisk}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"risk_labels"},
			[]string{"run_id", "customer_id", "cluster", "is_high_risk"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return errors.Wrap(err, "failed to save risk labels")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

const runColumns = `
	id::text, started_at, finished_at, model_kind, auc, candidate_auc,
	row_count, customer_count, label_source, high_risk_count, artifact_path
`

// FindRun returns the run with the given id, or domain.ErrNotFound.
func (r *PostgresRunRepository) FindRun(ctx context.Context, id string) (*domain.TrainingRun, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM training_runs WHERE id = $1`, id)
	return scanRun(row)
}

// LatestRun returns the most recently finished run, or domain.ErrNotFound.
func (r *PostgresRunRepository) LatestRun(ctx context.Context) (*domain.TrainingRun, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM training_runs ORDER BY finished_at DESC LIMIT 1`)
	return scanRun(row)
}

// LabelsForRun returns the labels saved with a run, ordered by customer.
func (r *PostgresRunRepository) LabelsForRun(ctx context.Context, runID string) ([]domain.RiskLabel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT customer_id, cluster, is_high_risk FROM risk_labels WHERE run_id = $1 ORDER BY customer_id`,
		runID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query risk labels")
	}
	defer rows.Close()

	var labels []domain.RiskLabel
	for rows.Next() {
		var l domain.RiskLabel
		if err := rows.Scan(&l.CustomerID, &l.Cluster, &l.HighRisk); err != nil {
			return nil, errors.Wrap(err, "failed to scan risk label")
		}
		labels = append(labels, l)
	}
	return labels, errors.Wrap(rows.Err(), "failed to read risk labels")
}

func scanRun(row pgx.Row) (*domain.TrainingRun, error) {
	var (
		run         domain.TrainingRun
		candidates  []byte
		labelSource string
		startedAt   time.Time
		finishedAt  time.Time
	)
	err := row.Scan(
		&run.ID, &startedAt, &finishedAt, &run.ModelKind, &run.AUC, &candidates,
		&run.Rows, &run.Customers, &labelSource, &run.HighRiskCount, &run.ArtifactPath,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to scan training run")
	}
	if err := json.Unmarshal(candidates, &run.CandidateAUC); err != nil {
		return nil, errors.Wrap(err, "failed to decode candidate scores")
	}
	run.StartedAt, run.FinishedAt = startedAt.UTC(), finishedAt.UTC()
	run.LabelSource = domain.LabelSource(labelSource)
	return &run, nil
}
