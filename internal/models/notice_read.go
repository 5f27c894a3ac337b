package models

import "time"

// NoticeRead records that a user viewed a notice. Exactly one row exists per
// (notice, user) pair; the row is never updated or deleted.
type NoticeRead struct {
	ID       string    `db:"id" json:"id"`
	NoticeID string    `db:"notice_id" json:"notice_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	OrgID    string    `db:"org_id" json:"org_id"`
	ReadAt   time.Time `db:"read_at" json:"read_at"`
}

// ReadStatsEntry carries display fields for one user in a read-stats report.
// ReadAt is set for readers only.
type ReadStatsEntry struct {
	UserID             string     `db:"user_id" json:"user_id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	Role               UserRole   `db:"role" json:"role"`
	RegistrationNumber *string    `db:"registration_number" json:"registration_number,omitempty"`
	ReadAt             *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// NoticeReadStats partitions the organization roster by read state for a
// notice. Readers and NonReaders are disjoint and together cover every user
// in the organization.
type NoticeReadStats struct {
	NoticeID    string           `json:"notice_id"`
	NoticeTitle string           `json:"notice_title"`
	TotalUsers  int              `json:"total_users"`
	ReadCount   int              `json:"read_count"`
	UnreadCount int              `json:"unread_count"`
	Readers     []ReadStatsEntry `json:"readers"`
	NonReaders  []ReadStatsEntry `json:"non_readers"`
}
