package dao

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	errors "github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
)

// setupMockFiles wires the store to sqlmock so the insert failure paths
// can be produced deterministically.
func setupMockFiles(t *testing.T) (*Files, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.ExpectClose()
		require.NoError(t, db.Close())
	})

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS file_metadata").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_file_metadata_user_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	files, err := NewFiles(db)
	require.NoError(t, err)
	return files, mock
}

func TestInsertOrGetRecoversFromUniqueRace(t *testing.T) {
	files, mock := setupMockFiles(t)
	ctx := context.Background()

	uploadedAt := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	winnerRow := sqlmock.NewRows([]string{
		"id", "user_id", "file_id", "filename", "file_size", "mime_type", "upload_date",
	}).AddRow(17, 1, "contended", "winner.bin", nil, nil, uploadedAt)

	// lost the check-then-insert race: the pre-check misses, the insert
	// trips the unique index, the re-query finds the winner's row
	mock.ExpectQuery("SELECT (.+) FROM file_metadata WHERE file_id").
		WithArgs("contended").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO file_metadata").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "file_metadata_file_id_key"`))
	mock.ExpectQuery("SELECT (.+) FROM file_metadata WHERE file_id").
		WithArgs("contended").
		WillReturnRows(winnerRow)

	saved, created, err := files.InsertOrGet(ctx, &model.FileRecord{
		UserID:   2,
		FileID:   "contended",
		Filename: "loser.bin",
	})
	require.NoError(t, err)
	require.False(t, created, "losing the race is not a failure")
	require.Equal(t, int64(17), saved.ID)
	require.Equal(t, "winner.bin", saved.Filename)
	require.Nil(t, saved.FileSize)
}

func TestInsertOrGetPropagatesInsertFailure(t *testing.T) {
	files, mock := setupMockFiles(t)
	ctx := context.Background()

	insertErr := errors.New("connection reset by peer")

	// insert fails and the re-query finds nothing, so this was a real
	// persistence failure rather than a duplicate race
	mock.ExpectQuery("SELECT (.+) FROM file_metadata WHERE file_id").
		WithArgs("doomed").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO file_metadata").
		WillReturnError(insertErr)
	mock.ExpectQuery("SELECT (.+) FROM file_metadata WHERE file_id").
		WithArgs("doomed").
		WillReturnError(sql.ErrNoRows)

	_, _, err := files.InsertOrGet(ctx, &model.FileRecord{
		UserID:   2,
		FileID:   "doomed",
		Filename: "doomed.bin",
	})
	require.ErrorContains(t, err, "connection reset by peer")
}
