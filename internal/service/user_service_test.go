package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	created *models.User
	deleted []string
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.created = user
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, _, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) List(_ context.Context, _ string, _ models.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, _, id string) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestCreateAdminRestrictedToSuperAdmin(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	svc := NewUserService(repo, zap.NewNop())

	req := CreateAdminRequest{
		Name:       "New Admin",
		Email:      "admin@example.com",
		Password:   "supersecret",
		AdminLevel: models.AcademicAdmin,
	}

	_, err := svc.CreateAdmin(context.Background(), deptActor("dept-1"), "org-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	admin, err := svc.CreateAdmin(context.Background(), superActor(), "org-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NotNil(t, admin.AdminLevel)
	assert.Equal(t, models.AcademicAdmin, *admin.AdminLevel)
	assert.Nil(t, admin.DepartmentID)
}

func TestCreateDeptAdminRequiresDepartment(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	svc := NewUserService(repo, zap.NewNop())

	req := CreateAdminRequest{
		Name:       "Dept Admin",
		Email:      "dept@example.com",
		Password:   "supersecret",
		AdminLevel: models.DeptAdmin,
	}

	_, err := svc.CreateAdmin(context.Background(), superActor(), "org-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	dept := "dept-1"
	req.DepartmentID = &dept
	admin, err := svc.CreateAdmin(context.Background(), superActor(), "org-1", req)
	require.NoError(t, err)
	require.NotNil(t, admin.DepartmentID)
	assert.Equal(t, dept, *admin.DepartmentID)
}

func TestDeleteUserSelfGuard(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Role: models.RoleStudent},
	}}
	svc := NewUserService(repo, zap.NewNop())

	err := svc.Delete(context.Background(), superActor(), "org-1", "u-1", "u-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), superActor(), "org-1", "admin-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, repo.deleted)
}

func TestDeleteUserRequiresPermission(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Role: models.RoleStudent},
	}}
	svc := NewUserService(repo, zap.NewNop())

	level := models.AcademicAdmin
	actor := authz.Actor{Role: models.RoleAdmin, AdminLevel: &level}
	err := svc.Delete(context.Background(), actor, "org-1", "admin-1", "u-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateClassAssignmentOnlyForStudents(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u-1": {ID: "u-1", Role: models.RoleTeacher},
		"u-2": {ID: "u-2", Role: models.RoleStudent},
	}}
	svc := NewUserService(repo, zap.NewNop())

	classID := "51f9c0de-8d20-4a49-9be0-1f0a2e7c4001"
	_, err := svc.Update(context.Background(), superActor(), "org-1", "u-1", UpdateUserRequest{ClassID: &classID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(context.Background(), superActor(), "org-1", "u-2", UpdateUserRequest{ClassID: &classID})
	require.NoError(t, err)
	require.NotNil(t, updated.ClassID)
	assert.Equal(t, classID, *updated.ClassID)
}
