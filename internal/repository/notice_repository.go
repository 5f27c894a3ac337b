package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

const noticeColumns = `id, org_id, created_by, notice_type, title, description, category, subject_id, target_class_ids, date, urgent, file_url, created_at, updated_at`

// NoticeRepository persists notices.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository constructs the repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
	}
	notice.UpdatedAt = now
	const query = `INSERT INTO notices (id, org_id, created_by, notice_type, title, description, category, subject_id, target_class_ids, date, urgent, file_url, created_at, updated_at)
		VALUES (:id, :org_id, :created_by, :notice_type, :title, :description, :category, :subject_id, :target_class_ids, :date, :urgent, :file_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// FindByID returns a notice scoped to the organization.
func (r *NoticeRepository) FindByID(ctx context.Context, orgID, id string) (*models.Notice, error) {
	const query = `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1 AND org_id = $2`
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id, orgID); err != nil {
		return nil, err
	}
	return &notice, nil
}

// List returns notices of the organization, newest first, with an optional
// category filter.
func (r *NoticeRepository) List(ctx context.Context, orgID string, filter models.NoticeFilter) ([]models.Notice, int, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+noticeColumns+` FROM notices WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notices WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}
	return notices, total, nil
}

// StudentFeed returns the union of org-wide admin notices and subject
// notices targeting the student's class, newest first with the notice id as
// a stable tie-break.
func (r *NoticeRepository) StudentFeed(ctx context.Context, orgID, classID string) ([]models.NoticeDetail, error) {
	const query = `
SELECT n.id, n.org_id, n.created_by, n.notice_type, n.title, n.description, n.category,
       n.subject_id, n.target_class_ids, n.date, n.urgent, n.file_url, n.created_at, n.updated_at,
       u.name AS creator_name, u.role AS creator_role, s.name AS subject_name, s.code AS subject_code
FROM notices n
JOIN users u ON u.id = n.created_by
LEFT JOIN subjects s ON s.id = n.subject_id
WHERE n.org_id = $1
  AND (n.notice_type = 'admin' OR (n.notice_type = 'subject' AND $2 = ANY(n.target_class_ids)))
ORDER BY n.created_at DESC, n.id DESC`
	var notices []models.NoticeDetail
	if err := r.db.SelectContext(ctx, &notices, query, orgID, classID); err != nil {
		return nil, fmt.Errorf("student notice feed: %w", err)
	}
	return notices, nil
}

// Update modifies the mutable fields of a notice scoped to the organization.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notices SET title = :title, description = :description, category = :category,
date = :date, urgent = :urgent, file_url = :file_url, updated_at = :updated_at
WHERE id = :id AND org_id = :org_id`
	result, err := r.db.NamedExecContext(ctx, query, notice)
	if err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated notice rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a notice scoped to the organization.
func (r *NoticeRepository) Delete(ctx context.Context, orgID, id string) error {
	const query = `DELETE FROM notices WHERE id = $1 AND org_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted notice rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
