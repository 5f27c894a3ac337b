package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusboard/notice-api/internal/models"
)

// ClassRepository persists classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a new class. The (org_id, department_id, year, section)
// unique index rejects duplicate cohorts.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	const query = `INSERT INTO classes (id, org_id, department_id, year, section, name, created_at, updated_at)
		VALUES (:id, :org_id, :department_id, :year, :section, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// ListByOrg returns classes of the organization with department display
// fields. A non-nil departmentID restricts the result to that department.
func (r *ClassRepository) ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.ClassDetail, error) {
	query := `
SELECT c.id, c.org_id, c.department_id, c.year, c.section, c.name, c.created_at, c.updated_at,
       d.name AS department_name, d.code AS department_code
FROM classes c
JOIN departments d ON d.id = c.department_id
WHERE c.org_id = $1`
	args := []interface{}{orgID}
	if departmentID != nil {
		query += ` AND c.department_id = $2`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY c.year ASC, c.section ASC`
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class scoped to the organization.
func (r *ClassRepository) FindByID(ctx context.Context, orgID, id string) (*models.Class, error) {
	const query = `SELECT id, org_id, department_id, year, section, name, created_at, updated_at FROM classes WHERE id = $1 AND org_id = $2`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id, orgID); err != nil {
		return nil, err
	}
	return &class, nil
}

// CountByIDs counts how many of the given class IDs exist in the
// organization. Used to verify that a reference set does not point outside
// the tenant.
func (r *ClassRepository) CountByIDs(ctx context.Context, orgID string, ids []string) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE org_id = $1 AND id = ANY($2)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, orgID, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return count, nil
}
