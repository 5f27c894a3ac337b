package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/models"
	"github.com/campusboard/notice-api/internal/service"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/response"
)

// NoticeHandler wires HTTP endpoints to the notice services.
type NoticeHandler struct {
	notices *service.NoticeService
	reads   *service.NoticeReadService
}

// NewNoticeHandler creates a new handler.
func NewNoticeHandler(notices *service.NoticeService, reads *service.NoticeReadService) *NoticeHandler {
	return &NoticeHandler{notices: notices, reads: reads}
}

// Create godoc
// @Summary Publish a notice
// @Description Publish an organization-wide or subject notice within the caller's write scope
// @Tags Notices
// @Accept json
// @Produce json
// @Param payload body service.CreateNoticeRequest true "Notice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var req service.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	notice, err := h.notices.Create(c.Request.Context(), claimsFromContext(c), middleware.OrgID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, notice)
}

// List godoc
// @Summary List notices for the organization board
// @Tags Notices
// @Produce json
// @Param category query string false "Filter by category"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	filter := models.NoticeFilter{Category: c.Query("category")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	notices, pagination, err := h.notices.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, pagination)
}

// Get godoc
// @Summary Fetch a single notice
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	notice, err := h.notices.Get(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Feed godoc
// @Summary Student notice feed
// @Description Organization-wide notices plus subject notices targeting the student's class, newest first
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notices/feed [get]
func (h *NoticeHandler) Feed(c *gin.Context) {
	feed, err := h.notices.StudentFeed(c.Request.Context(), claimsFromContext(c), middleware.OrgID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed, nil)
}

// Update godoc
// @Summary Edit a notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param id path string true "Notice ID"
// @Param payload body service.UpdateNoticeRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	var req service.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}

	notice, err := h.notices.Update(c.Request.Context(), claimsFromContext(c), middleware.OrgID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Delete godoc
// @Summary Remove a notice
// @Tags Notices
// @Param id path string true "Notice ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	if err := h.notices.Delete(c.Request.Context(), claimsFromContext(c), middleware.OrgID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkRead godoc
// @Summary Record a read receipt
// @Description Record that the caller viewed the notice; repeated calls return the first timestamp
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id}/read [post]
func (h *NoticeHandler) MarkRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	readAt, err := h.reads.MarkRead(c.Request.Context(), middleware.OrgID(c), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"notice_id": c.Param("id"), "read_at": readAt}, nil)
}

// ReadStats godoc
// @Summary Read statistics for a notice
// @Description Partition the organization roster into readers and non-readers
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id}/read-stats [get]
func (h *NoticeHandler) ReadStats(c *gin.Context) {
	stats, err := h.reads.ReadStats(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportReadStats godoc
// @Summary Export read statistics
// @Tags Notices
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Notice ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id}/read-stats/export [get]
func (h *NoticeHandler) ExportReadStats(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.reads.ExportReadStats(c.Request.Context(), middleware.OrgID(c), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("read-stats-%s.%s", c.Param("id"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
