package models

import "time"

// UserRole represents the available roles within an organization.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleTeacher   UserRole = "teacher"
	RoleFaculty   UserRole = "faculty"
	RoleLibrarian UserRole = "librarian"
	RoleAdmin     UserRole = "admin"
)

// AdminLevel refines the admin role into permission scopes.
type AdminLevel string

const (
	SuperAdmin    AdminLevel = "SUPER_ADMIN"
	DeptAdmin     AdminLevel = "DEPT_ADMIN"
	AcademicAdmin AdminLevel = "ACADEMIC_ADMIN"
)

// User represents an application user stored in the users table.
// AdminLevel is set iff Role is admin; DepartmentID is set iff AdminLevel is
// DEPT_ADMIN; ClassID is set only for students.
type User struct {
	ID                 string      `db:"id" json:"id"`
	OrgID              string      `db:"org_id" json:"org_id"`
	RegistrationNumber *string     `db:"registration_number" json:"registration_number,omitempty"`
	Name               string      `db:"name" json:"name"`
	Email              string      `db:"email" json:"email"`
	PasswordHash       string      `db:"password_hash" json:"-"`
	Role               UserRole    `db:"role" json:"role"`
	AdminLevel         *AdminLevel `db:"admin_level" json:"admin_level,omitempty"`
	DepartmentID       *string     `db:"department_id" json:"department_id,omitempty"`
	ClassID            *string     `db:"class_id" json:"class_id,omitempty"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}
