package models

import (
	"time"

	"github.com/lib/pq"
)

// TeachingAssignment authorizes a teacher to publish content for a subject
// to a set of classes. Teacher, subject and classes all belong to the same
// organization as the assignment.
type TeachingAssignment struct {
	ID        string         `db:"id" json:"id"`
	OrgID     string         `db:"org_id" json:"org_id"`
	TeacherID string         `db:"teacher_id" json:"teacher_id"`
	SubjectID string         `db:"subject_id" json:"subject_id"`
	ClassIDs  pq.StringArray `db:"class_ids" json:"class_ids"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// TeachingAssignmentDetail enriches assignments with descriptive fields.
type TeachingAssignmentDetail struct {
	TeachingAssignment
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}
