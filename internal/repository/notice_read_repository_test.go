package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoticeReadMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestNoticeReadRepositoryMarkReadFirstWriter(t *testing.T) {
	db, mock, cleanup := newNoticeReadMock(t)
	defer cleanup()
	repo := NewNoticeReadRepository(db)

	readAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO notice_reads").
		WithArgs(sqlmock.AnyArg(), "notice-1", "user-1", "org-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"read_at"}).AddRow(readAt))

	got, err := repo.MarkRead(context.Background(), "notice-1", "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, readAt, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeReadRepositoryMarkReadConflictReadsBack(t *testing.T) {
	db, mock, cleanup := newNoticeReadMock(t)
	defer cleanup()
	repo := NewNoticeReadRepository(db)

	original := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	// ON CONFLICT DO NOTHING returns no rows for the loser.
	mock.ExpectQuery("INSERT INTO notice_reads").
		WithArgs(sqlmock.AnyArg(), "notice-1", "user-1", "org-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"read_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT read_at FROM notice_reads WHERE notice_id = $1 AND user_id = $2")).
		WithArgs("notice-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"read_at"}).AddRow(original))

	got, err := repo.MarkRead(context.Background(), "notice-1", "user-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, original, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeReadRepositoryListReaders(t *testing.T) {
	db, mock, cleanup := newNoticeReadMock(t)
	defer cleanup()
	repo := NewNoticeReadRepository(db)

	readAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"user_id", "name", "email", "role", "registration_number", "read_at"}).
		AddRow("user-1", "Student One", "one@example.edu", "student", "REG-1", readAt).
		AddRow("user-2", "Teacher Two", "two@example.edu", "teacher", nil, readAt.Add(-time.Hour))
	mock.ExpectQuery("SELECT u.id AS user_id, u.name, u.email, u.role, u.registration_number, nr.read_at").
		WithArgs("org-1", "notice-1").
		WillReturnRows(rows)

	readers, err := repo.ListReaders(context.Background(), "org-1", "notice-1")
	require.NoError(t, err)
	require.Len(t, readers, 2)
	assert.Equal(t, "user-1", readers[0].UserID)
	require.NotNil(t, readers[0].ReadAt)
	assert.Nil(t, readers[1].RegistrationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
