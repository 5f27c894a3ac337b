package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/notice-api/internal/models"
)

func newUserMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "org_id", "registration_number", "name", "email", "password_hash",
		"role", "admin_level", "department_id", "class_id", "created_at", "updated_at",
	})
}

func TestUserRepositoryFindByIDScopedToOrg(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id =").
		WithArgs("user-1", "org-1").
		WillReturnRows(userRows().
			AddRow("user-1", "org-1", "REG-1", "Student One", "one@example.edu", "hash", "student", nil, nil, "class-1", now, now))

	user, err := repo.FindByID(context.Background(), "org-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	require.NotNil(t, user.ClassID)
	assert.Equal(t, "class-1", *user.ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListWithRoleFilter(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE org_id =").
		WithArgs("org-1", "teacher").
		WillReturnRows(userRows().
			AddRow("teacher-1", "org-1", nil, "Teacher One", "t1@example.edu", "hash", "teacher", nil, nil, nil, now, now))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("org-1", "teacher").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	role := models.RoleTeacher
	users, total, err := repo.List(context.Background(), "org-1", models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListByOrgRoster(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE org_id =").
		WithArgs("org-1").
		WillReturnRows(userRows().
			AddRow("user-1", "org-1", nil, "A", "a@example.edu", "hash", "student", nil, nil, "class-1", now, now).
			AddRow("user-2", "org-1", nil, "B", "b@example.edu", "hash", "teacher", nil, nil, nil, now, now))

	users, err := repo.ListByOrg(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-9", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "org-1", "user-9")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
