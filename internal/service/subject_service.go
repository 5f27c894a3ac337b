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

type subjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	ListByOrg(ctx context.Context, orgID string, departmentID *string) ([]models.SubjectDetail, error)
	FindByID(ctx context.Context, orgID, id string) (*models.Subject, error)
}

// SubjectService manages academic subjects.
type SubjectService struct {
	subjects    subjectRepository
	departments classDepartmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService creates a service instance.
func NewSubjectService(subjects subjectRepository, departments classDepartmentReader, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{subjects: subjects, departments: departments, validator: validator.New(), logger: logger}
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	DepartmentID string  `json:"department_id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required"`
	Code         string  `json:"code" validate:"required,min=2,max=12"`
	Year         int     `json:"year" validate:"required,min=1,max=8"`
	Description  *string `json:"description"`
}

// Create adds a subject to a department the actor administers.
func (s *SubjectService) Create(ctx context.Context, actor authz.Actor, orgID string, req CreateSubjectRequest) (*models.Subject, error) {
	if !authz.Evaluate(actor, authz.ManageDeptSubjects) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage subjects")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if !authz.CanAccessDepartment(actor, req.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage subjects for this department")
	}

	if _, err := s.departments.FindByID(ctx, orgID, req.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch department")
	}

	now := time.Now().UTC()
	subject := &models.Subject{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Year:         req.Year,
		Description:  req.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists in this department")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.logger.Info("subject created", zap.String("org_id", orgID), zap.String("subject_id", subject.ID))
	return subject, nil
}

// List returns the subjects visible to the actor, optionally narrowed to one
// department.
func (s *SubjectService) List(ctx context.Context, actor authz.Actor, orgID string, departmentID *string) ([]models.SubjectDetail, error) {
	effective := departmentID
	if scope := authz.DepartmentFilter(actor); scope != nil {
		effective = scope
	}
	subjects, err := s.subjects.ListByOrg(ctx, orgID, effective)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}
