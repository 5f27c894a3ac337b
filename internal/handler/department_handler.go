package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/service"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/response"
)

// DepartmentHandler wires HTTP endpoints to the department service.
type DepartmentHandler struct {
	service *service.DepartmentService
}

// NewDepartmentHandler creates a new handler.
func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: svc}
}

// Create godoc
// @Summary Create a department
// @Tags Academic Structure
// @Accept json
// @Produce json
// @Param payload body service.CreateDepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department payload"))
		return
	}

	dept, err := h.service.Create(c.Request.Context(), actorFromContext(c), middleware.OrgID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dept)
}

// List godoc
// @Summary List departments
// @Tags Academic Structure
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context(), actorFromContext(c), middleware.OrgID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}
