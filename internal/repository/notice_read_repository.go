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

// NoticeReadRepository persists read receipts. The (notice_id, user_id)
// unique index carries the exactly-once invariant.
type NoticeReadRepository struct {
	db *sqlx.DB
}

// NewNoticeReadRepository constructs the repository.
func NewNoticeReadRepository(db *sqlx.DB) *NoticeReadRepository {
	return &NoticeReadRepository{db: db}
}

// MarkRead creates the receipt if absent and returns its read_at. When the
// pair already exists, the insert is a no-op and the original read_at is
// read back, so concurrent first reads converge on the winner's timestamp
// and the duplicate-key condition never reaches the caller.
func (r *NoticeReadRepository) MarkRead(ctx context.Context, noticeID, userID, orgID string) (time.Time, error) {
	const insert = `INSERT INTO notice_reads (id, notice_id, user_id, org_id, read_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (notice_id, user_id) DO NOTHING
RETURNING read_at`
	var readAt time.Time
	err := r.db.GetContext(ctx, &readAt, insert, uuid.NewString(), noticeID, userID, orgID, time.Now().UTC())
	if err == nil {
		return readAt, nil
	}
	if err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("insert notice read: %w", err)
	}

	const readBack = `SELECT read_at FROM notice_reads WHERE notice_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &readAt, readBack, noticeID, userID); err != nil {
		return time.Time{}, fmt.Errorf("read back notice read: %w", err)
	}
	return readAt, nil
}

// ListReaders returns the users holding a receipt for the notice with their
// read_at, most recent readers first.
func (r *NoticeReadRepository) ListReaders(ctx context.Context, orgID, noticeID string) ([]models.ReadStatsEntry, error) {
	const query = `
SELECT u.id AS user_id, u.name, u.email, u.role, u.registration_number, nr.read_at
FROM notice_reads nr
JOIN users u ON u.id = nr.user_id
WHERE nr.org_id = $1 AND nr.notice_id = $2
ORDER BY nr.read_at DESC`
	var readers []models.ReadStatsEntry
	if err := r.db.SelectContext(ctx, &readers, query, orgID, noticeID); err != nil {
		return nil, fmt.Errorf("list notice readers: %w", err)
	}
	return readers, nil
}
