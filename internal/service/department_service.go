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

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type departmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.Department, error)
	FindByID(ctx context.Context, orgID, id string) (*models.Department, error)
}

// DepartmentService manages the department layer of the academic structure.
type DepartmentService struct {
	departments departmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDepartmentService creates a service instance.
func NewDepartmentService(departments departmentRepository, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{departments: departments, validator: validator.New(), logger: logger}
}

// CreateDepartmentRequest is the payload for creating a department.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required,min=2,max=10"`
	Description *string `json:"description"`
}

// Create adds a department. Restricted to super admins.
func (s *DepartmentService) Create(ctx context.Context, actor authz.Actor, orgID string, req CreateDepartmentRequest) (*models.Department, error) {
	if !authz.Evaluate(actor, authz.ManageDepartments) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage departments")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	now := time.Now().UTC()
	dept := &models.Department{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.departments.Create(ctx, dept); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "department code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}

	s.logger.Info("department created", zap.String("org_id", orgID), zap.String("department_id", dept.ID))
	return dept, nil
}

// List returns the departments the actor may see. Dept admins are narrowed
// to their own department; everyone else sees the whole organization.
func (s *DepartmentService) List(ctx context.Context, actor authz.Actor, orgID string) ([]models.Department, error) {
	departments, err := s.departments.ListByOrg(ctx, orgID, authz.DepartmentFilter(actor))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Get returns a single department within the organization.
func (s *DepartmentService) Get(ctx context.Context, orgID, id string) (*models.Department, error) {
	dept, err := s.departments.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}
	return dept, nil
}
