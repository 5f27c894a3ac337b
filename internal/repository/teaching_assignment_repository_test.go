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

func newAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeachingAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO teaching_assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.TeachingAssignment{
		OrgID:     "org-1",
		TeacherID: "teacher-1",
		SubjectID: "subject-1",
		ClassIDs:  pq.StringArray{"class-1", "class-2"},
	}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryListByTeacherAndSubject(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "org_id", "teacher_id", "subject_id", "class_ids", "created_at"}).
		AddRow("assign-1", "org-1", "teacher-1", "subject-1", pq.StringArray{"class-1", "class-2", "class-3"}, time.Now())
	mock.ExpectQuery("SELECT id, org_id, teacher_id, subject_id, class_ids, created_at").
		WithArgs("org-1", "teacher-1", "subject-1").
		WillReturnRows(rows)

	assignments, err := repo.ListByTeacherAndSubject(context.Background(), "org-1", "teacher-1", "subject-1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, pq.StringArray{"class-1", "class-2", "class-3"}, assignments[0].ClassIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "org_id", "teacher_id", "subject_id", "class_ids", "created_at", "teacher_name", "subject_name", "subject_code"}).
		AddRow("assign-1", "org-1", "teacher-1", "subject-1", pq.StringArray{"class-1"}, time.Now(), "Teacher One", "Databases", "DBMS")
	mock.ExpectQuery("SELECT ta.id, ta.org_id, ta.teacher_id, ta.subject_id, ta.class_ids").
		WithArgs("org-1", "teacher-1").
		WillReturnRows(rows)

	assignments, err := repo.ListByTeacher(context.Background(), "org-1", "teacher-1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "DBMS", assignments[0].SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
