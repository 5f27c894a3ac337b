package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/service"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/response"
)

// TeachingAssignmentHandler wires HTTP endpoints to the assignment service.
type TeachingAssignmentHandler struct {
	service *service.TeachingAssignmentService
}

// NewTeachingAssignmentHandler creates a new handler.
func NewTeachingAssignmentHandler(svc *service.TeachingAssignmentService) *TeachingAssignmentHandler {
	return &TeachingAssignmentHandler{service: svc}
}

// Assign godoc
// @Summary Assign a teacher to a subject and classes
// @Tags Teaching Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignTeacherRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teaching-assignments [post]
func (h *TeachingAssignmentHandler) Assign(c *gin.Context) {
	var req service.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), actorFromContext(c), middleware.OrgID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListMine godoc
// @Summary List the calling teacher's assignments
// @Tags Teaching Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments/mine [get]
func (h *TeachingAssignmentHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	assignments, err := h.service.ListMine(c.Request.Context(), middleware.OrgID(c), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// ListAll godoc
// @Summary List every assignment in the organization
// @Tags Teaching Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teaching-assignments [get]
func (h *TeachingAssignmentHandler) ListAll(c *gin.Context) {
	assignments, err := h.service.ListAll(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
