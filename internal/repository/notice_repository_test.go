package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/notice-api/internal/models"
)

func newNoticeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestNoticeRepositoryCreateAssignsIdentity(t *testing.T) {
	db, mock, cleanup := newNoticeMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec("INSERT INTO notices").
		WillReturnResult(sqlmock.NewResult(1, 1))

	subjectID := "subject-1"
	notice := &models.Notice{
		OrgID:          "org-1",
		CreatedBy:      "teacher-1",
		NoticeType:     models.NoticeTypeSubject,
		Title:          "Unit test on Friday",
		Description:    "Covers chapters 1-3",
		Category:       models.NoticeCategoryAcademic,
		SubjectID:      &subjectID,
		TargetClassIDs: pq.StringArray{"class-1", "class-2"},
		Date:           "2026-03-20",
	}
	require.NoError(t, repo.Create(context.Background(), notice))
	assert.NotEmpty(t, notice.ID)
	assert.False(t, notice.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepositoryStudentFeed(t *testing.T) {
	db, mock, cleanup := newNoticeMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	now := time.Now().UTC()
	columns := []string{
		"id", "org_id", "created_by", "notice_type", "title", "description", "category",
		"subject_id", "target_class_ids", "date", "urgent", "file_url", "created_at", "updated_at",
		"creator_name", "creator_role", "subject_name", "subject_code",
	}
	rows := sqlmock.NewRows(columns).
		AddRow("notice-2", "org-1", "admin-1", "admin", "Holiday", "Campus closed", "general",
			nil, pq.StringArray{}, "2026-03-21", false, nil, now, now, "Admin", "admin", nil, nil).
		AddRow("notice-1", "org-1", "teacher-1", "subject", "Unit test", "Chapters 1-3", "academic",
			"subject-1", pq.StringArray{"class-1"}, "2026-03-20", true, nil, now.Add(-time.Hour), now.Add(-time.Hour), "Teacher", "teacher", "Databases", "DBMS")
	mock.ExpectQuery("SELECT n.id, n.org_id, n.created_by, n.notice_type").
		WithArgs("org-1", "class-1").
		WillReturnRows(rows)

	feed, err := repo.StudentFeed(context.Background(), "org-1", "class-1")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "notice-2", feed[0].ID)
	assert.Equal(t, models.NoticeTypeSubject, feed[1].NoticeType)
	require.NotNil(t, feed[1].SubjectName)
	assert.Equal(t, "Databases", *feed[1].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepositoryListFiltersByCategory(t *testing.T) {
	db, mock, cleanup := newNoticeMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	now := time.Now().UTC()
	columns := []string{
		"id", "org_id", "created_by", "notice_type", "title", "description", "category",
		"subject_id", "target_class_ids", "date", "urgent", "file_url", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT id, org_id, created_by, notice_type").
		WithArgs("org-1", "events").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("notice-1", "org-1", "admin-1", "admin", "Fest", "Annual fest", "events",
				nil, pq.StringArray{}, "2026-04-01", false, nil, now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("org-1", "events").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	notices, total, err := repo.List(context.Background(), "org-1", models.NoticeFilter{Category: "events"})
	require.NoError(t, err)
	assert.Len(t, notices, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newNoticeMock(t)
	defer cleanup()
	repo := NewNoticeRepository(db)

	mock.ExpectExec("DELETE FROM notices").
		WithArgs("notice-9", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "org-1", "notice-9")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
