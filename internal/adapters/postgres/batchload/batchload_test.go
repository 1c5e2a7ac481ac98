package batchload

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbatchload "github.com/CodAressss/orders-batch-service/internal/domain/batchload"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

func newRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "idempotency_key", "file_hash", "status", "total_processed",
		"success_count", "error_count", "created_at", "updated_at",
	})
}

func TestLookup_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM batch_loads").
		WithArgs("digest-1", "batch-A").
		WillReturnRows(newRows().AddRow("bl-1", "batch-A", "digest-1", "COMPLETED", 1, 1, 0, now, now))
	mock.ExpectQuery("SELECT (.+) FROM batch_load_errors").
		WithArgs("bl-1").
		WillReturnRows(sqlmock.NewRows([]string{"line_number", "code", "message"}))

	repo := New(db)

	bl, found, err := repo.Lookup(context.Background(), "batch-A", "digest-1")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domainbatchload.StatusCompleted, bl.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookup_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM batch_loads").
		WithArgs("digest-1", "batch-A").
		WillReturnRows(newRows())

	repo := New(db)

	_, found, err := repo.Lookup(context.Background(), "batch-A", "digest-1")

	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_RaceTranslatesToAlreadyReserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO batch_loads").
		WillReturnError(&pgconn.PgError{ConstraintName: reservationUniqueConstraint})

	repo := New(db)

	_, err = repo.Reserve(context.Background(), "batch-A", "digest-1")

	assert.ErrorIs(t, err, constant.ErrAlreadyReserved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO batch_loads").
		WillReturnRows(newRows().AddRow("bl-1", "batch-A", "digest-1", "PROCESSING", 0, 0, 0, now, now))

	repo := New(db)

	bl, err := repo.Reserve(context.Background(), "batch-A", "digest-1")

	require.NoError(t, err)
	assert.Equal(t, "bl-1", bl.ID)
	assert.Equal(t, domainbatchload.StatusProcessing, bl.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
