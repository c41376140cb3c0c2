package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/storage"
)

func newMockClient(t *testing.T) (*storage.SQLClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewSQLClient(db, storage.MySQLDialect(), 500), mock
}

func TestUpsertSearchLogs_WhenMySQLAndRowExists_ThenSkipsInsert(t *testing.T) {
	// Arrange
	client, mock := newMockClient(t)
	existing := logAt("alice@example.com", "2025-01-02T03:04:05Z", "a")
	fresh := logAt("bob@example.com", "2025-01-02T03:04:05Z", "b")

	mock.ExpectBegin()
	sel := mock.ExpectPrepare(regexp.QuoteMeta(`SELECT 1 FROM search_logs WHERE id = ?`))
	ins := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT IGNORE INTO search_logs`))
	sel.ExpectQuery().WithArgs(existing.Fingerprint()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	sel.ExpectQuery().WithArgs(fresh.Fingerprint()).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	ins.ExpectExec().WithArgs(
		fresh.Fingerprint(), "2025-01-02T03:04:05Z", "bob@example.com", "b", nil,
		"archive search", "investigation", "archive", 0, "/", sqlmock.AnyArg(),
	).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	inserted, err := client.UpsertSearchLogs(context.Background(), []models.SearchLog{existing, fresh})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSearchLogs_WhenInsertFails_ThenRollsBackWithStorageError(t *testing.T) {
	// Arrange
	client, mock := newMockClient(t)
	l := logAt("alice@example.com", "2025-01-02T03:04:05Z", "a")

	mock.ExpectBegin()
	sel := mock.ExpectPrepare(regexp.QuoteMeta(`SELECT 1 FROM search_logs WHERE id = ?`))
	ins := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT IGNORE INTO search_logs`))
	sel.ExpectQuery().WithArgs(l.Fingerprint()).WillReturnRows(sqlmock.NewRows([]string{"1"}))
	ins.ExpectExec().WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	// Act
	inserted, err := client.UpsertSearchLogs(context.Background(), []models.SearchLog{l})

	// Assert
	require.Error(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, faults.KindStorage, faults.Classify(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCursorValue_WhenMySQL_ThenUsesDuplicateKeyUpdate(t *testing.T) {
	// Arrange
	client, mock := newMockClient(t)
	mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE v = VALUES(v)`)).
		WithArgs(models.CursorKeyBootstrapCompleted, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err := client.SetCursorValue(context.Background(), models.CursorKeyBootstrapCompleted, "1")

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCursorValue_WhenQueryFails_ThenReturnsStorageError(t *testing.T) {
	// Arrange
	client, mock := newMockClient(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT v FROM kv WHERE k = ?`)).
		WillReturnError(errors.New("connection refused"))

	// Act
	_, _, err := client.GetCursorValue(context.Background(), models.CursorKeyLastPolledEnd)

	// Assert
	var se *faults.StorageError
	require.True(t, errors.As(err, &se))
	assert.NoError(t, mock.ExpectationsWereMet())
}
