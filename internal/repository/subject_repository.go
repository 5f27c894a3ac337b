package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

// SubjectRepository persists subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a new subject. The (org_id, department_id, code) unique
// index rejects duplicate codes inside a department.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (id, org_id, department_id, name, code, year, description, created_at, updated_at)
		VALUES (:id, :org_id, :department_id, :name, :code, :year, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// ListByOrg returns subjects of the organization with department display
// fields. A non-nil departmentID restricts the result to that department.
func (r *SubjectRepository) ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.SubjectDetail, error) {
	query := `
SELECT s.id, s.org_id, s.department_id, s.name, s.code, s.year, s.description, s.created_at, s.updated_at,
       d.name AS department_name, d.code AS department_code
FROM subjects s
JOIN departments d ON d.id = s.department_id
WHERE s.org_id = $1`
	args := []interface{}{orgID}
	if departmentID != nil {
		query += ` AND s.department_id = $2`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY s.code ASC`
	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject scoped to the organization.
func (r *SubjectRepository) FindByID(ctx context.Context, orgID, id string) (*models.Subject, error) {
	const query = `SELECT id, org_id, department_id, name, code, year, description, created_at, updated_at FROM subjects WHERE id = $1 AND org_id = $2`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, orgID); err != nil {
		return nil, err
	}
	return &subject, nil
}
