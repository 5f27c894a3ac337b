package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type classRepository interface {
	Create(ctx context.Context, class *models.Class) error
	ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.ClassDetail, error)
	FindByID(ctx context.Context, orgID, id string) (*models.Class, error)
}

type classDepartmentReader interface {
	FindByID(ctx context.Context, orgID, id string) (*models.Department, error)
}

// ClassService manages class cohorts inside departments.
type ClassService struct {
	classes     classRepository
	departments classDepartmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassService creates a service instance.
func NewClassService(classes classRepository, departments classDepartmentReader, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, departments: departments, validator: validator.New(), logger: logger}
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Year         int    `json:"year" validate:"required,min=1,max=8"`
	Section      string `json:"section" validate:"required,min=1,max=5"`
}

// Create adds a class to a department the actor administers. The display
// name is derived from the department code, year and section.
func (s *ClassService) Create(ctx context.Context, actor authz.Actor, orgID string, req CreateClassRequest) (*models.Class, error) {
	if !authz.Evaluate(actor, authz.ManageDeptClasses) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage classes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if !authz.CanAccessDepartment(actor, req.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage classes for this department")
	}

	dept, err := s.departments.FindByID(ctx, orgID, req.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}

	section := strings.ToUpper(strings.TrimSpace(req.Section))
	now := time.Now().UTC()
	class := &models.Class{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		DepartmentID: dept.ID,
		Year:         req.Year,
		Section:      section,
		Name:         fmt.Sprintf("%s-%d Year-%s", dept.Code, req.Year, section),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.classes.Create(ctx, class); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class already exists for this department, year and section")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	s.logger.Info("class created", zap.String("org_id", orgID), zap.String("class_id", class.ID))
	return class, nil
}

// List returns the classes visible to the actor, optionally narrowed to one
// department. A dept admin's own scope always wins over the requested one.
func (s *ClassService) List(ctx context.Context, actor authz.Actor, orgID string, departmentID *string) ([]models.ClassDetail, error) {
	effective := departmentID
	if scope := authz.DepartmentFilter(actor); scope != nil {
		effective = scope
	}
	classes, err := s.classes.ListByOrg(ctx, orgID, effective)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns a single class within the organization.
func (s *ClassService) Get(ctx context.Context, orgID, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}
	return class, nil
}
