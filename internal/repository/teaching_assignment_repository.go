package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

// TeachingAssignmentRepository persists teacher-subject-classes assignments.
type TeachingAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeachingAssignmentRepository constructs the repository.
func NewTeachingAssignmentRepository(db *sqlx.DB) *TeachingAssignmentRepository {
	return &TeachingAssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *TeachingAssignmentRepository) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teaching_assignments (id, org_id, teacher_id, subject_id, class_ids, created_at)
		VALUES (:id, :org_id, :teacher_id, :subject_id, :class_ids, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teaching assignment: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's assignments in the organization with
// subject display fields, oldest first.
func (r *TeachingAssignmentRepository) ListByTeacher(ctx context.Context, orgID, teacherID string) ([]models.TeachingAssignmentDetail, error) {
	const query = `
SELECT ta.id, ta.org_id, ta.teacher_id, ta.subject_id, ta.class_ids, ta.created_at,
       u.name AS teacher_name, s.name AS subject_name, s.code AS subject_code
FROM teaching_assignments ta
JOIN users u ON u.id = ta.teacher_id
JOIN subjects s ON s.id = ta.subject_id
WHERE ta.org_id = $1 AND ta.teacher_id = $2
ORDER BY ta.created_at ASC`
	var assignments []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, orgID, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// ListByTeacherAndSubject returns the assignments linking a teacher to a
// subject. The caller checks target classes against the class sets.
func (r *TeachingAssignmentRepository) ListByTeacherAndSubject(ctx context.Context, orgID, teacherID, subjectID string) ([]models.TeachingAssignment, error) {
	const query = `SELECT id, org_id, teacher_id, subject_id, class_ids, created_at
FROM teaching_assignments
WHERE org_id = $1 AND teacher_id = $2 AND subject_id = $3`
	var assignments []models.TeachingAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, orgID, teacherID, subjectID); err != nil {
		return nil, fmt.Errorf("list assignments for subject: %w", err)
	}
	return assignments, nil
}

// ListByOrg returns all assignments of the organization with display fields.
func (r *TeachingAssignmentRepository) ListByOrg(ctx context.Context, orgID string) ([]models.TeachingAssignmentDetail, error) {
	const query = `
SELECT ta.id, ta.org_id, ta.teacher_id, ta.subject_id, ta.class_ids, ta.created_at,
       u.name AS teacher_name, s.name AS subject_name, s.code AS subject_code
FROM teaching_assignments ta
JOIN users u ON u.id = ta.teacher_id
JOIN subjects s ON s.id = ta.subject_id
WHERE ta.org_id = $1
ORDER BY u.name ASC, s.code ASC`
	var assignments []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, orgID); err != nil {
		return nil, fmt.Errorf("list org assignments: %w", err)
	}
	return assignments, nil
}
