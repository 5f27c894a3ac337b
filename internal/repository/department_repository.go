package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

// DepartmentRepository persists departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs the repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department. The (org_id, code) unique index rejects
// duplicate codes inside a tenant.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if dept.CreatedAt.IsZero() {
		dept.CreatedAt = now
	}
	dept.UpdatedAt = now
	const query = `INSERT INTO departments (id, org_id, name, code, description, created_at, updated_at)
		VALUES (:id, :org_id, :name, :code, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// ListByOrg returns the departments of the organization ordered by code.
// A non-nil departmentID restricts the result to that department.
func (r *DepartmentRepository) ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.Department, error) {
	query := `SELECT id, org_id, name, code, description, created_at, updated_at FROM departments WHERE org_id = $1`
	args := []interface{}{orgID}
	if departmentID != nil {
		query += ` AND id = $2`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY code ASC`
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID returns a department scoped to the organization.
func (r *DepartmentRepository) FindByID(ctx context.Context, orgID, id string) (*models.Department, error) {
	const query = `SELECT id, org_id, name, code, description, created_at, updated_at FROM departments WHERE id = $1 AND org_id = $2`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id, orgID); err != nil {
		return nil, err
	}
	return &dept, nil
}
