package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/models"
	"github.com/campusboard/notice-api/internal/service"
)

type stubNoticeRepo struct {
	feed    []models.NoticeDetail
	notices map[string]*models.Notice
}

func (s *stubNoticeRepo) Create(_ context.Context, _ *models.Notice) error { return nil }

func (s *stubNoticeRepo) FindByID(_ context.Context, _, id string) (*models.Notice, error) {
	if n, ok := s.notices[id]; ok {
		return n, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubNoticeRepo) List(_ context.Context, _ string, _ models.NoticeFilter) ([]models.Notice, int, error) {
	return nil, 0, nil
}

func (s *stubNoticeRepo) StudentFeed(_ context.Context, _, _ string) ([]models.NoticeDetail, error) {
	return s.feed, nil
}

func (s *stubNoticeRepo) Update(_ context.Context, _ *models.Notice) error { return nil }
func (s *stubNoticeRepo) Delete(_ context.Context, _, _ string) error      { return nil }

type stubSubjects struct{}

func (stubSubjects) FindByID(_ context.Context, _, _ string) (*models.Subject, error) {
	return nil, sql.ErrNoRows
}

type stubClasses struct{}

func (stubClasses) CountByIDs(_ context.Context, _ string, ids []string) (int, error) {
	return len(ids), nil
}

type stubAuthorizer struct{}

func (stubAuthorizer) Authorize(_ context.Context, _, _, _ string, _ []string) (bool, error) {
	return true, nil
}

type stubReads struct {
	readAt time.Time
}

func (s *stubReads) MarkRead(_ context.Context, _, _, _ string) (time.Time, error) {
	return s.readAt, nil
}

func (s *stubReads) ListReaders(_ context.Context, _, _ string) ([]models.ReadStatsEntry, error) {
	return nil, nil
}

type stubRoster struct{}

func (stubRoster) ListByOrg(_ context.Context, _ string) ([]models.User, error) {
	return nil, nil
}

func noticeTestRouter(repo *stubNoticeRepo, reads *stubReads, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)

	noticeSvc := service.NewNoticeService(repo, stubSubjects{}, stubClasses{}, stubAuthorizer{}, nil, nil, zap.NewNop())
	readSvc := service.NewNoticeReadService(reads, repo, stubRoster{}, nil, zap.NewNop())
	h := NewNoticeHandler(noticeSvc, readSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Set(middleware.ContextOrgKey, "org-1")
		c.Next()
	})
	r.GET("/notices/feed", h.Feed)
	r.POST("/notices/:id/read", h.MarkRead)
	return r
}

func TestFeedReturnsNotices(t *testing.T) {
	classID := "c-1"
	repo := &stubNoticeRepo{feed: []models.NoticeDetail{
		{Notice: models.Notice{ID: "n-1", Title: "Campus closed"}},
	}}
	claims := &models.JWTClaims{UserID: "s-1", OrgID: "org-1", Role: models.RoleStudent, ClassID: &classID}
	r := noticeTestRouter(repo, &stubReads{}, claims)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notices/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.NoticeDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Campus closed", body.Data[0].Title)
}

func TestFeedWithoutClassAssignment(t *testing.T) {
	claims := &models.JWTClaims{UserID: "s-1", OrgID: "org-1", Role: models.RoleStudent}
	r := noticeTestRouter(&stubNoticeRepo{}, &stubReads{}, claims)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notices/feed", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "STUDENT_CLASS_UNASSIGNED")
}

func TestMarkReadReturnsTimestamp(t *testing.T) {
	readAt := time.Date(2026, 8, 22, 8, 0, 0, 0, time.UTC)
	repo := &stubNoticeRepo{notices: map[string]*models.Notice{
		"n-1": {ID: "n-1", OrgID: "org-1"},
	}}
	claims := &models.JWTClaims{UserID: "s-1", OrgID: "org-1", Role: models.RoleStudent}
	r := noticeTestRouter(repo, &stubReads{readAt: readAt}, claims)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notices/n-1/read", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-08-22T08:00:00Z")
}

func TestMarkReadUnknownNotice(t *testing.T) {
	claims := &models.JWTClaims{UserID: "s-1", OrgID: "org-1", Role: models.RoleStudent}
	r := noticeTestRouter(&stubNoticeRepo{notices: map[string]*models.Notice{}}, &stubReads{}, claims)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notices/missing/read", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
