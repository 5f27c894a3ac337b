package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type teachingAssignmentRepository interface {
	Create(ctx context.Context, assignment *models.TeachingAssignment) error
	ListByTeacher(ctx context.Context, orgID, teacherID string) ([]models.TeachingAssignmentDetail, error)
	ListByTeacherAndSubject(ctx context.Context, orgID, teacherID, subjectID string) ([]models.TeachingAssignment, error)
	ListByOrg(ctx context.Context, orgID string) ([]models.TeachingAssignmentDetail, error)
}

type assignmentUserReader interface {
	FindByID(ctx context.Context, orgID, id string) (*models.User, error)
}

type assignmentSubjectReader interface {
	FindByID(ctx context.Context, orgID, id string) (*models.Subject, error)
}

type assignmentClassReader interface {
	CountByIDs(ctx context.Context, orgID string, ids []string) (int, error)
}

// TeachingAssignmentService manages which teacher may publish for which
// subject and classes.
type TeachingAssignmentService struct {
	assignments teachingAssignmentRepository
	users       assignmentUserReader
	subjects    assignmentSubjectReader
	classes     assignmentClassReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeachingAssignmentService creates a service instance.
func NewTeachingAssignmentService(
	assignments teachingAssignmentRepository,
	users assignmentUserReader,
	subjects assignmentSubjectReader,
	classes assignmentClassReader,
	logger *zap.Logger,
) *TeachingAssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingAssignmentService{
		assignments: assignments,
		users:       users,
		subjects:    subjects,
		classes:     classes,
		validator:   validator.New(),
		logger:      logger,
	}
}

// AssignTeacherRequest is the payload for creating a teaching assignment.
type AssignTeacherRequest struct {
	TeacherID string   `json:"teacher_id" validate:"required,uuid"`
	SubjectID string   `json:"subject_id" validate:"required,uuid"`
	ClassIDs  []string `json:"class_ids" validate:"required,min=1,dive,uuid"`
}

// Assign records that a teacher covers a subject for a set of classes.
// Teacher, subject and classes must all exist in the acting organization,
// and the actor must administer the subject's department.
func (s *TeachingAssignmentService) Assign(ctx context.Context, actor authz.Actor, orgID string, req AssignTeacherRequest) (*models.TeachingAssignment, error) {
	if !authz.Evaluate(actor, authz.AssignDeptTeachers) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to assign teachers")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	teacher, err := s.users.FindByID(ctx, orgID, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not a teacher")
	}

	subject, err := s.subjects.FindByID(ctx, orgID, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}
	if !authz.CanAccessDepartment(actor, subject.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to assign teachers for this department")
	}

	count, err := s.classes.CountByIDs(ctx, orgID, req.ClassIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify classes")
	}
	if count != len(req.ClassIDs) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "one or more classes not found")
	}

	assignment := &models.TeachingAssignment{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		ClassIDs:  req.ClassIDs,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.logger.Info("teaching assignment created",
		zap.String("org_id", orgID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("subject_id", req.SubjectID))
	return assignment, nil
}

// ListMine returns the calling teacher's own assignments.
func (s *TeachingAssignmentService) ListMine(ctx context.Context, orgID, teacherID string) ([]models.TeachingAssignmentDetail, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, orgID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// ListAll returns every assignment in the organization.
func (s *TeachingAssignmentService) ListAll(ctx context.Context, orgID string) ([]models.TeachingAssignmentDetail, error) {
	assignments, err := s.assignments.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Authorize reports whether the teacher holds an assignment for the subject
// covering every target class. An empty target set never authorizes; any
// single assignment must cover the whole set.
func (s *TeachingAssignmentService) Authorize(ctx context.Context, orgID, teacherID, subjectID string, targetClassIDs []string) (bool, error) {
	if len(targetClassIDs) == 0 {
		return false, nil
	}

	assignments, err := s.assignments.ListByTeacherAndSubject(ctx, orgID, teacherID, subjectID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignments")
	}

	for _, assignment := range assignments {
		covered := make(map[string]struct{}, len(assignment.ClassIDs))
		for _, id := range assignment.ClassIDs {
			covered[id] = struct{}{}
		}
		all := true
		for _, target := range targetClassIDs {
			if _, ok := covered[target]; !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}
