package models

import "time"

// Class is a (department, year, section) cohort. The display name is derived
// from the department code at creation time, e.g. "CSE-3 Year-A".
type Class struct {
	ID           string    `db:"id" json:"id"`
	OrgID        string    `db:"org_id" json:"org_id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Year         int       `db:"year" json:"year"`
	Section      string    `db:"section" json:"section"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail enriches a class with department display fields.
type ClassDetail struct {
	Class
	DepartmentName string `db:"department_name" json:"department_name"`
	DepartmentCode string `db:"department_code" json:"department_code"`
}
