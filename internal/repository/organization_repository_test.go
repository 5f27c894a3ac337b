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

	"github.com/campusboard/notice-api/internal/models"
)

func newOrganizationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOrganizationRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newOrganizationMock(t)
	defer cleanup()
	repo := NewOrganizationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "address", "logo_url", "created_at", "updated_at"}).
		AddRow("org-1", "ACME123", "Acme Institute", nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, address, logo_url, created_at, updated_at FROM organizations WHERE code = $1")).
		WithArgs("ACME123").
		WillReturnRows(rows)

	org, err := repo.FindByCode(context.Background(), "ACME123")
	require.NoError(t, err)
	assert.Equal(t, "org-1", org.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepositoryCodeExists(t *testing.T) {
	db, mock, cleanup := newOrganizationMock(t)
	defer cleanup()
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM organizations WHERE code = $1 LIMIT 1")).
		WithArgs("ACME123").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM organizations WHERE code = $1 LIMIT 1")).
		WithArgs("FREE999").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.CodeExists(context.Background(), "ACME123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CodeExists(context.Background(), "FREE999")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newOrganizationMock(t)
	defer cleanup()
	repo := NewOrganizationRepository(db)

	mock.ExpectExec("INSERT INTO organizations").
		WillReturnResult(sqlmock.NewResult(1, 1))

	org := &models.Organization{Code: "ACME123", Name: "Acme Institute"}
	require.NoError(t, repo.Create(context.Background(), org))
	assert.NotEmpty(t, org.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
