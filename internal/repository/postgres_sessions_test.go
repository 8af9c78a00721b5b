package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"runcoach/internal/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSessionsRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewPostgresSessionsRepo(db, zap.NewNop())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS collection_sessions`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	started := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO collection_sessions`).
		WithArgs("s-1", started, true, int64(0)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), models.CollectionSession{ID: "s-1", StartedAt: started, IsRealSensor: true})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	stopped := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE collection_sessions SET stopped_at`).
		WithArgs("missing", stopped, int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Close(context.Background(), "missing", stopped, 12)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	stopped := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE collection_sessions SET stopped_at`).
		WithArgs("s-1", stopped, int64(300)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Close(context.Background(), "s-1", stopped, 300))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Paginates(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	started := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	stopped := started.Add(10 * time.Minute)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collection_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	rows := sqlmock.NewRows([]string{"session_id", "started_at", "stopped_at", "is_real_sensor", "sample_count"}).
		AddRow("s-2", started.Add(time.Hour), nil, false, 0).
		AddRow("s-1", started, stopped, true, 6000)
	mock.ExpectQuery(`SELECT session_id, started_at, stopped_at, is_real_sensor, sample_count`).
		WithArgs(2, 2).
		WillReturnRows(rows)

	records, total, err := repo.List(context.Background(), 2, 2)

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, records, 2)
	assert.Equal(t, "s-2", records[0].ID)
	assert.Nil(t, records[0].StoppedAt)
	assert.Equal(t, "s-1", records[1].ID)
	require.NotNil(t, records[1].StoppedAt)
	assert.True(t, records[1].StoppedAt.Equal(stopped))
	assert.Equal(t, int64(6000), records[1].SampleCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
