package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"runcoach/internal/models"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS collection_sessions (
	session_id     UUID PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL,
	stopped_at     TIMESTAMPTZ,
	is_real_sensor BOOLEAN NOT NULL DEFAULT FALSE,
	sample_count   BIGINT NOT NULL DEFAULT 0
)`

// PostgresSessionsRepo 采集会话落库
type PostgresSessionsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresSessionsRepo(db *sql.DB, logger *zap.Logger) *PostgresSessionsRepo {
	return &PostgresSessionsRepo{db: db, logger: logger}
}

// EnsureSchema 启动时建表（幂等）
func (r *PostgresSessionsRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSessionsTableSQL); err != nil {
		return fmt.Errorf("failed to create collection_sessions: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) Create(ctx context.Context, s models.CollectionSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collection_sessions (session_id, started_at, is_real_sensor, sample_count)
		 VALUES ($1, $2, $3, $4)`,
		s.ID, s.StartedAt, s.IsRealSensor, s.SampleCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection session: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) Close(ctx context.Context, id string, stoppedAt time.Time, sampleCount int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE collection_sessions SET stopped_at = $2, sample_count = $3 WHERE session_id = $1`,
		id, stoppedAt, sampleCount,
	)
	if err != nil {
		return fmt.Errorf("failed to close collection session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSessionsRepo) List(ctx context.Context, page, size int) ([]models.CollectionSession, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM collection_sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count collection sessions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, started_at, stopped_at, is_real_sensor, sample_count
		 FROM collection_sessions
		 ORDER BY started_at DESC
		 LIMIT $1 OFFSET $2`,
		size, pageOffset(page, size),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query collection sessions: %w", err)
	}
	defer rows.Close()

	out := []models.CollectionSession{}
	for rows.Next() {
		var (
			s         models.CollectionSession
			stoppedAt sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.StartedAt, &stoppedAt, &s.IsRealSensor, &s.SampleCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan collection session: %w", err)
		}
		if stoppedAt.Valid {
			t := stoppedAt.Time
			s.StoppedAt = &t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	r.logger.Debug("Listed collection sessions",
		zap.Int("page", page),
		zap.Int("size", size),
		zap.Int("total", total),
	)
	return out, total, nil
}
