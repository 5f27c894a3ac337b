package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

// OrganizationRepository persists tenants.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs the repository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now
	const query = `INSERT INTO organizations (id, code, name, address, logo_url, created_at, updated_at)
		VALUES (:id, :code, :name, :address, :logo_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// FindByCode returns the organization with the given globally unique code.
func (r *OrganizationRepository) FindByCode(ctx context.Context, code string) (*models.Organization, error) {
	const query = `SELECT id, code, name, address, logo_url, created_at, updated_at FROM organizations WHERE code = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, code); err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByID returns an organization by identifier.
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	const query = `SELECT id, code, name, address, logo_url, created_at, updated_at FROM organizations WHERE id = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, err
	}
	return &org, nil
}

// CodeExists checks whether an organization code is already taken.
func (r *OrganizationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM organizations WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check organization code: %w", err)
	}
	return true, nil
}
