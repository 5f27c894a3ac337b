package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/service"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/response"
)

// ClassHandler wires HTTP endpoints to the class service.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler creates a new handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Create godoc
// @Summary Create a class
// @Tags Academic Structure
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.Create(c.Request.Context(), actorFromContext(c), middleware.OrgID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, class)
}

// List godoc
// @Summary List classes
// @Tags Academic Structure
// @Produce json
// @Param departmentId query string false "Restrict to one department"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	var departmentID *string
	if v := c.Query("departmentId"); v != "" {
		departmentID = &v
	}

	classes, err := h.service.List(c.Request.Context(), actorFromContext(c), middleware.OrgID(c), departmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}
