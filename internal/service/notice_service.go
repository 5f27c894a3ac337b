package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
)

type noticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	FindByID(ctx context.Context, orgID, id string) (*models.Notice, error)
	List(ctx context.Context, orgID string, filter models.NoticeFilter) ([]models.Notice, int, error)
	StudentFeed(ctx context.Context, orgID, classID string) ([]models.NoticeDetail, error)
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, orgID, id string) error
}

type noticeSubjectReader interface {
	FindByID(ctx context.Context, orgID, id string) (*models.Subject, error)
}

type noticeClassCounter interface {
	CountByIDs(ctx context.Context, orgID string, ids []string) (int, error)
}

type teachingAuthorizer interface {
	Authorize(ctx context.Context, orgID, teacherID, subjectID string, targetClassIDs []string) (bool, error)
}

// NoticeService publishes notices and resolves who may write what and who
// sees what.
type NoticeService struct {
	notices    noticeRepository
	subjects   noticeSubjectReader
	classes    noticeClassCounter
	authorizer teachingAuthorizer
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewNoticeService creates a service instance.
func NewNoticeService(
	notices noticeRepository,
	subjects noticeSubjectReader,
	classes noticeClassCounter,
	authorizer teachingAuthorizer,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		notices:    notices,
		subjects:   subjects,
		classes:    classes,
		authorizer: authorizer,
		cache:      cache,
		metrics:    metrics,
		validator:  validator.New(),
		logger:     logger,
	}
}

// CreateNoticeRequest is the payload for publishing a notice. SubjectID and
// TargetClassIDs must both be present for subject notices and both absent
// for organization-wide ones.
type CreateNoticeRequest struct {
	Title          string                `json:"title" validate:"required,min=3"`
	Description    string                `json:"description" validate:"required"`
	Category       models.NoticeCategory `json:"category" validate:"omitempty,oneof=general academic events"`
	Date           string                `json:"date" validate:"required,datetime=2006-01-02"`
	Urgent         bool                  `json:"urgent"`
	SubjectID      *string               `json:"subject_id" validate:"omitempty,uuid"`
	TargetClassIDs []string              `json:"target_class_ids" validate:"omitempty,dive,uuid"`
	FileURL        *string               `json:"file_url" validate:"omitempty,url"`
}

// ResolveWriteScope decides whether the caller may publish the requested
// notice and returns its resolved type. Subject targeting and the subject
// reference go together; a request carrying one without the other is
// malformed regardless of who sends it. Teachers must hold a covering
// teaching assignment; admins need the organization notice permission, and
// department admins may only target subjects of their own department.
func (s *NoticeService) ResolveWriteScope(ctx context.Context, claims *models.JWTClaims, orgID string, req CreateNoticeRequest) (models.NoticeType, error) {
	hasSubject := req.SubjectID != nil && *req.SubjectID != ""
	hasTargets := len(req.TargetClassIDs) > 0
	if hasSubject != hasTargets {
		return "", appErrors.ErrInvalidNoticeShape
	}

	actor := authz.ActorFromClaims(claims)

	if !hasSubject {
		if !authz.Evaluate(actor, authz.CreateOrgNotice) {
			return "", appErrors.Clone(appErrors.ErrForbidden, "not allowed to publish organization notices")
		}
		if req.Urgent && !authz.Evaluate(actor, authz.MarkMandatory) {
			return "", appErrors.Clone(appErrors.ErrForbidden, "not allowed to mark notices urgent")
		}
		return models.NoticeTypeAdmin, nil
	}

	subject, err := s.subjects.FindByID(ctx, orgID, *req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}

	count, err := s.classes.CountByIDs(ctx, orgID, req.TargetClassIDs)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify target classes")
	}
	if count != len(req.TargetClassIDs) {
		return "", appErrors.Clone(appErrors.ErrNotFound, "one or more target classes not found")
	}

	switch claims.Role {
	case models.RoleTeacher:
		allowed, err := s.authorizer.Authorize(ctx, orgID, claims.UserID, *req.SubjectID, req.TargetClassIDs)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", appErrors.ErrNotAuthorizedForTarget
		}
	case models.RoleAdmin:
		if !authz.Evaluate(actor, authz.CreateOrgNotice) {
			return "", appErrors.Clone(appErrors.ErrForbidden, "not allowed to publish notices")
		}
		if !authz.CanAccessDepartment(actor, subject.DepartmentID) {
			return "", appErrors.Clone(appErrors.ErrForbidden, "not allowed to publish for this department")
		}
	default:
		return "", appErrors.Clone(appErrors.ErrForbidden, "this role cannot publish notices")
	}

	return models.NoticeTypeSubject, nil
}

// Create publishes a notice after resolving the caller's write scope.
func (s *NoticeService) Create(ctx context.Context, claims *models.JWTClaims, orgID string, req CreateNoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	noticeType, err := s.ResolveWriteScope(ctx, claims, orgID, req)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = models.NoticeCategoryGeneral
	}

	now := time.Now().UTC()
	notice := &models.Notice{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		CreatedBy:   claims.UserID,
		NoticeType:  noticeType,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Date:        req.Date,
		Urgent:      req.Urgent,
		FileURL:     req.FileURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if noticeType == models.NoticeTypeSubject {
		notice.SubjectID = req.SubjectID
		notice.TargetClassIDs = req.TargetClassIDs
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}

	s.metrics.RecordNoticePublished(string(noticeType))
	s.invalidateFeed(ctx, orgID)
	s.logger.Info("notice published",
		zap.String("org_id", orgID),
		zap.String("notice_id", notice.ID),
		zap.String("type", string(noticeType)))
	return notice, nil
}

// List returns notices for the organization board, optionally filtered by
// category.
func (s *NoticeService) List(ctx context.Context, orgID string, filter models.NoticeFilter) ([]models.Notice, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	notices, total, err := s.notices.List(ctx, orgID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	return notices, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single notice within the organization.
func (s *NoticeService) Get(ctx context.Context, orgID, id string) (*models.Notice, error) {
	notice, err := s.notices.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notice")
	}
	return notice, nil
}

// StudentFeed resolves the caller's class and returns the union of
// organization-wide notices and subject notices targeting that class, newest
// first. Students without a class assignment cannot have a feed.
func (s *NoticeService) StudentFeed(ctx context.Context, claims *models.JWTClaims, orgID string) ([]models.NoticeDetail, error) {
	if claims == nil || claims.ClassID == nil || *claims.ClassID == "" {
		return nil, appErrors.ErrStudentClassUnassigned
	}
	classID := *claims.ClassID

	cacheKey := feedCacheKey(orgID, classID)
	var cached []models.NoticeDetail
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	feed, err := s.notices.StudentFeed(ctx, orgID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feed")
	}

	if err := s.cache.Set(ctx, cacheKey, feed, 0); err != nil {
		s.logger.Warn("feed cache set failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return feed, nil
}

// UpdateNoticeRequest carries the mutable notice fields. The type, subject
// and target classes are fixed at publication.
type UpdateNoticeRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=3"`
	Description *string                `json:"description"`
	Category    *models.NoticeCategory `json:"category" validate:"omitempty,oneof=general academic events"`
	Date        *string                `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Urgent      *bool                  `json:"urgent"`
	FileURL     *string                `json:"file_url" validate:"omitempty,url"`
}

// Update edits a notice's content. Restricted to admins holding the
// organization notice permission.
func (s *NoticeService) Update(ctx context.Context, claims *models.JWTClaims, orgID, id string, req UpdateNoticeRequest) (*models.Notice, error) {
	actor := authz.ActorFromClaims(claims)
	if !authz.Evaluate(actor, authz.CreateOrgNotice) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to edit notices")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice, err := s.notices.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notice")
	}

	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Description != nil {
		notice.Description = *req.Description
	}
	if req.Category != nil {
		notice.Category = *req.Category
	}
	if req.Date != nil {
		notice.Date = *req.Date
	}
	if req.Urgent != nil {
		if *req.Urgent && !authz.Evaluate(actor, authz.MarkMandatory) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to mark notices urgent")
		}
		notice.Urgent = *req.Urgent
	}
	if req.FileURL != nil {
		notice.FileURL = req.FileURL
	}
	notice.UpdatedAt = time.Now().UTC()

	if err := s.notices.Update(ctx, notice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}

	s.invalidateFeed(ctx, orgID)
	return notice, nil
}

// Delete removes a notice. Restricted to admins holding the organization
// notice permission.
func (s *NoticeService) Delete(ctx context.Context, claims *models.JWTClaims, orgID, id string) error {
	if !authz.Evaluate(authz.ActorFromClaims(claims), authz.CreateOrgNotice) {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete notices")
	}

	if err := s.notices.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}

	s.invalidateFeed(ctx, orgID)
	s.logger.Info("notice deleted", zap.String("org_id", orgID), zap.String("notice_id", id))
	return nil
}

func (s *NoticeService) invalidateFeed(ctx context.Context, orgID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("feed:%s:*", orgID)); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.String("org_id", orgID), zap.Error(err))
	}
}

func feedCacheKey(orgID, classID string) string {
	return fmt.Sprintf("feed:%s:%s", orgID, classID)
}
