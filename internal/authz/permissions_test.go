package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusboard/notice-api/internal/models"
)

func adminActor(level models.AdminLevel, deptID *string) Actor {
	return Actor{Role: models.RoleAdmin, AdminLevel: &level, DepartmentID: deptID}
}

func TestEvaluateNonAdminAlwaysDenied(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleStudent, models.RoleTeacher, models.RoleFaculty, models.RoleLibrarian} {
		actor := Actor{Role: role}
		for permission := range matrix {
			assert.False(t, Evaluate(actor, permission), "role %s must not hold %s", role, permission)
		}
	}
}

func TestEvaluateUnknownPermissionDenied(t *testing.T) {
	assert.False(t, Evaluate(adminActor(models.SuperAdmin, nil), Permission("DROP_TABLES")))
	assert.False(t, Evaluate(adminActor(models.DeptAdmin, nil), Permission("")))
}

func TestEvaluateMatrixMembership(t *testing.T) {
	super := adminActor(models.SuperAdmin, nil)
	dept := adminActor(models.DeptAdmin, nil)
	academic := adminActor(models.AcademicAdmin, nil)

	assert.True(t, Evaluate(super, ManageDepartments))
	assert.False(t, Evaluate(dept, ManageDepartments))
	assert.False(t, Evaluate(academic, ManageDepartments))

	assert.True(t, Evaluate(super, ManageDeptClasses))
	assert.True(t, Evaluate(dept, ManageDeptClasses))
	assert.False(t, Evaluate(academic, ManageDeptClasses))

	assert.True(t, Evaluate(super, CreateOrgNotice))
	assert.True(t, Evaluate(dept, CreateOrgNotice))
	assert.True(t, Evaluate(academic, CreateOrgNotice))

	assert.True(t, Evaluate(super, MarkMandatory))
	assert.False(t, Evaluate(dept, MarkMandatory))
	assert.True(t, Evaluate(academic, MarkMandatory))

	assert.True(t, Evaluate(super, CreateAdmin))
	assert.False(t, Evaluate(dept, CreateAdmin))
	assert.False(t, Evaluate(academic, CreateAdmin))
}

func TestEvaluateAdminWithoutLevelDenied(t *testing.T) {
	actor := Actor{Role: models.RoleAdmin}
	assert.False(t, Evaluate(actor, CreateOrgNotice))
}

func TestCanAccessDepartment(t *testing.T) {
	deptID := "dept-1"
	otherID := "dept-2"

	assert.True(t, CanAccessDepartment(adminActor(models.SuperAdmin, nil), deptID))
	assert.True(t, CanAccessDepartment(adminActor(models.SuperAdmin, nil), otherID))

	deptAdmin := adminActor(models.DeptAdmin, &deptID)
	assert.True(t, CanAccessDepartment(deptAdmin, deptID))
	assert.False(t, CanAccessDepartment(deptAdmin, otherID))

	assert.False(t, CanAccessDepartment(adminActor(models.AcademicAdmin, nil), deptID))
	assert.False(t, CanAccessDepartment(Actor{Role: models.RoleTeacher}, deptID))
	assert.False(t, CanAccessDepartment(adminActor(models.DeptAdmin, nil), deptID))
}

func TestDepartmentFilter(t *testing.T) {
	deptID := "dept-1"

	assert.Nil(t, DepartmentFilter(adminActor(models.SuperAdmin, nil)))
	assert.Nil(t, DepartmentFilter(adminActor(models.AcademicAdmin, nil)))
	assert.Nil(t, DepartmentFilter(Actor{Role: models.RoleStudent}))

	filter := DepartmentFilter(adminActor(models.DeptAdmin, &deptID))
	if assert.NotNil(t, filter) {
		assert.Equal(t, deptID, *filter)
	}
}

func TestFlagsCoversWholeTable(t *testing.T) {
	flags := Flags(adminActor(models.AcademicAdmin, nil))
	assert.Len(t, flags, len(matrix))
	assert.True(t, flags[string(CreateOrgNotice)])
	assert.True(t, flags[string(MarkMandatory)])
	assert.False(t, flags[string(ManageUsers)])
}
