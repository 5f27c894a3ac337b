package models

import "time"

// Subject is an academic subject owned by a department. The code is unique
// per (organization, department).
type Subject struct {
	ID           string    `db:"id" json:"id"`
	OrgID        string    `db:"org_id" json:"org_id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Year         int       `db:"year" json:"year"`
	Description  *string   `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail enriches a subject with department display fields.
type SubjectDetail struct {
	Subject
	DepartmentName string `db:"department_name" json:"department_name"`
	DepartmentCode string `db:"department_code" json:"department_code"`
}
