package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, orgID, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, orgID string, filter models.UserFilter) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, orgID, id string) error
}

// UserService manages organization members, including admin provisioning.
type UserService struct {
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates a service instance.
func NewUserService(users userRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, validator: validator.New(), logger: logger}
}

// List returns organization members matching the filter. Requires the user
// management permission.
func (s *UserService) List(ctx context.Context, actor authz.Actor, orgID string, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if !authz.Evaluate(actor, authz.ManageUsers) {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage users")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	users, total, err := s.users.List(ctx, orgID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListTeachers returns all teachers in the organization. Any admin may call
// it; it backs the teaching assignment form.
func (s *UserService) ListTeachers(ctx context.Context, orgID string) ([]models.User, error) {
	role := models.RoleTeacher
	teachers, _, err := s.users.List(ctx, orgID, models.UserFilter{Role: &role, Page: 1, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns a single organization member.
func (s *UserService) Get(ctx context.Context, orgID, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// CreateAdminRequest is the payload for provisioning an admin account.
type CreateAdminRequest struct {
	Name         string            `json:"name" validate:"required"`
	Email        string            `json:"email" validate:"required,email"`
	Password     string            `json:"password" validate:"required,min=8"`
	AdminLevel   models.AdminLevel `json:"admin_level" validate:"required,oneof=SUPER_ADMIN DEPT_ADMIN ACADEMIC_ADMIN"`
	DepartmentID *string           `json:"department_id"`
}

// CreateAdmin provisions an admin account. Restricted to super admins. A
// department admin must name a department; the other levels must not.
func (s *UserService) CreateAdmin(ctx context.Context, actor authz.Actor, orgID string, req CreateAdminRequest) (*models.User, error) {
	if !authz.Evaluate(actor, authz.CreateAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to create admin accounts")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	if req.AdminLevel == models.DeptAdmin && req.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department admins require a department")
	}
	if req.AdminLevel != models.DeptAdmin {
		req.DepartmentID = nil
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email availability")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	level := req.AdminLevel
	now := time.Now().UTC()
	admin := &models.User{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		AdminLevel:   &level,
		DepartmentID: req.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin created",
		zap.String("org_id", orgID),
		zap.String("user_id", admin.ID),
		zap.String("admin_level", string(level)))
	return admin, nil
}

// UpdateUserRequest carries the mutable member fields. Nil fields are left
// unchanged.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	ClassID *string `json:"class_id" validate:"omitempty,uuid"`
}

// Update modifies an organization member. Requires the user management
// permission. A class assignment is only meaningful for students.
func (s *UserService) Update(ctx context.Context, actor authz.Actor, orgID, id string, req UpdateUserRequest) (*models.User, error) {
	if !authz.Evaluate(actor, authz.ManageUsers) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage users")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.users.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.ClassID != nil {
		if user.Role != models.RoleStudent {
			return nil, appErrors.Clone(appErrors.ErrValidation, "only students can be assigned to a class")
		}
		user.ClassID = req.ClassID
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Delete removes an organization member. Requires the user management
// permission; admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor authz.Actor, orgID, actorID, id string) error {
	if !authz.Evaluate(actor, authz.ManageUsers) {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage users")
	}
	if actorID == id {
		return appErrors.Clone(appErrors.ErrValidation, "cannot delete your own account")
	}

	if err := s.users.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.logger.Info("user deleted", zap.String("org_id", orgID), zap.String("user_id", id))
	return nil
}

// PermissionFlags evaluates the full permission table for the actor. Backs
// the admin capability endpoint so clients never hard-code the matrix.
func (s *UserService) PermissionFlags(actor authz.Actor) map[string]bool {
	return authz.Flags(actor)
}
