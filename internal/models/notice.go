package models

import (
	"time"

	"github.com/lib/pq"
)

// NoticeType distinguishes organization-wide notices from subject notices.
type NoticeType string

const (
	NoticeTypeAdmin   NoticeType = "admin"
	NoticeTypeSubject NoticeType = "subject"
)

// NoticeCategory classifies a notice for filtering.
type NoticeCategory string

const (
	NoticeCategoryGeneral  NoticeCategory = "general"
	NoticeCategoryAcademic NoticeCategory = "academic"
	NoticeCategoryEvents   NoticeCategory = "events"
)

// Notice is a persisted notice row. SubjectID and TargetClassIDs are set iff
// NoticeType is subject; admin notices are visible to the whole organization.
type Notice struct {
	ID             string         `db:"id" json:"id"`
	OrgID          string         `db:"org_id" json:"org_id"`
	CreatedBy      string         `db:"created_by" json:"created_by"`
	NoticeType     NoticeType     `db:"notice_type" json:"notice_type"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	Category       NoticeCategory `db:"category" json:"category"`
	SubjectID      *string        `db:"subject_id" json:"subject_id,omitempty"`
	TargetClassIDs pq.StringArray `db:"target_class_ids" json:"target_class_ids,omitempty"`
	Date           string         `db:"date" json:"date"`
	Urgent         bool           `db:"urgent" json:"urgent"`
	FileURL        *string        `db:"file_url" json:"file_url,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// NoticeDetail enriches a notice with creator and subject display fields.
type NoticeDetail struct {
	Notice
	CreatorName string  `db:"creator_name" json:"creator_name"`
	CreatorRole string  `db:"creator_role" json:"creator_role"`
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
	SubjectCode *string `db:"subject_code" json:"subject_code,omitempty"`
}

// NoticeFilter captures supported filters for listing notices.
type NoticeFilter struct {
	Category string
	Page     int
	PageSize int
}
