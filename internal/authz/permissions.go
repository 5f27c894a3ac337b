package authz

import "github.com/campusboard/notice-api/internal/models"

// Permission is a key in the closed permission table.
type Permission string

const (
	ManageDepartments  Permission = "MANAGE_DEPARTMENTS"
	ManageAllClasses   Permission = "MANAGE_ALL_CLASSES"
	ManageDeptClasses  Permission = "MANAGE_DEPT_CLASSES"
	ManageAllSubjects  Permission = "MANAGE_ALL_SUBJECTS"
	ManageDeptSubjects Permission = "MANAGE_DEPT_SUBJECTS"
	AssignAllTeachers  Permission = "ASSIGN_ALL_TEACHERS"
	AssignDeptTeachers Permission = "ASSIGN_DEPT_TEACHERS"
	CreateOrgNotice    Permission = "CREATE_ORG_NOTICE"
	MarkMandatory      Permission = "MARK_MANDATORY"
	ViewAllAnalytics   Permission = "VIEW_ALL_ANALYTICS"
	ViewDeptAnalytics  Permission = "VIEW_DEPT_ANALYTICS"
	CreateAdmin        Permission = "CREATE_ADMIN"
	ManageUsers        Permission = "MANAGE_USERS"
)

// matrix maps each permission to the admin levels allowed to hold it. It is
// a closed, immutable table; extension means replacing the whole table.
var matrix = map[Permission][]models.AdminLevel{
	ManageDepartments:  {models.SuperAdmin},
	ManageAllClasses:   {models.SuperAdmin},
	ManageDeptClasses:  {models.SuperAdmin, models.DeptAdmin},
	ManageAllSubjects:  {models.SuperAdmin},
	ManageDeptSubjects: {models.SuperAdmin, models.DeptAdmin},
	AssignAllTeachers:  {models.SuperAdmin},
	AssignDeptTeachers: {models.SuperAdmin, models.DeptAdmin},
	CreateOrgNotice:    {models.SuperAdmin, models.DeptAdmin, models.AcademicAdmin},
	MarkMandatory:      {models.SuperAdmin, models.AcademicAdmin},
	ViewAllAnalytics:   {models.SuperAdmin},
	ViewDeptAnalytics:  {models.SuperAdmin, models.DeptAdmin},
	CreateAdmin:        {models.SuperAdmin},
	ManageUsers:        {models.SuperAdmin, models.DeptAdmin},
}

// Actor is the minimal identity view the evaluator operates on.
type Actor struct {
	Role         models.UserRole
	AdminLevel   *models.AdminLevel
	DepartmentID *string
}

// ActorFromClaims projects JWT claims onto an evaluator actor.
func ActorFromClaims(claims *models.JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{Role: claims.Role, AdminLevel: claims.AdminLevel, DepartmentID: claims.DepartmentID}
}

// ActorFromUser projects a stored user onto an evaluator actor.
func ActorFromUser(user *models.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{Role: user.Role, AdminLevel: user.AdminLevel, DepartmentID: user.DepartmentID}
}

// Evaluate reports whether the actor holds the permission. Non-admin roles
// and unknown permissions always evaluate to false.
func Evaluate(actor Actor, permission Permission) bool {
	if actor.Role != models.RoleAdmin || actor.AdminLevel == nil {
		return false
	}
	levels, ok := matrix[permission]
	if !ok {
		return false
	}
	for _, level := range levels {
		if level == *actor.AdminLevel {
			return true
		}
	}
	return false
}

// CanAccessDepartment reports whether an admin actor may touch resources of
// the given department. Only meaningful for admins; every other role is
// denied.
func CanAccessDepartment(actor Actor, departmentID string) bool {
	if actor.Role != models.RoleAdmin || actor.AdminLevel == nil {
		return false
	}
	switch *actor.AdminLevel {
	case models.SuperAdmin:
		return true
	case models.DeptAdmin:
		return actor.DepartmentID != nil && *actor.DepartmentID == departmentID
	default:
		return false
	}
}

// DepartmentFilter returns the department a read query must be restricted
// to, or nil for an unrestricted view. Dept admins see only their own
// department; super admins and academic admins are unfiltered (the latter
// only touch organization-wide notices). Writes must additionally pass
// CanAccessDepartment.
func DepartmentFilter(actor Actor) *string {
	if actor.Role != models.RoleAdmin || actor.AdminLevel == nil {
		return nil
	}
	if *actor.AdminLevel == models.DeptAdmin && actor.DepartmentID != nil {
		return actor.DepartmentID
	}
	return nil
}

// Flags evaluates the whole table for an actor. Used by the capability
// endpoint so UIs never embed their own copy of the matrix.
func Flags(actor Actor) map[string]bool {
	flags := make(map[string]bool, len(matrix))
	for permission := range matrix {
		flags[string(permission)] = Evaluate(actor, permission)
	}
	return flags
}
