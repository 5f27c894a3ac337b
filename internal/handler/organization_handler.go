package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/service"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/response"
)

// OrganizationHandler wires HTTP endpoints to the organization service.
type OrganizationHandler struct {
	service *service.OrganizationService
}

// NewOrganizationHandler creates a new handler.
func NewOrganizationHandler(svc *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: svc}
}

// Create godoc
// @Summary Provision an organization
// @Description Create a tenant with a generated join code
// @Tags Organizations
// @Accept json
// @Produce json
// @Param payload body service.CreateOrganizationRequest true "Organization payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid organization payload"))
		return
	}

	org, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, org)
}

// GetByCode godoc
// @Summary Look up an organization by join code
// @Tags Organizations
// @Produce json
// @Param code path string true "Organization code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /organizations/code/{code} [get]
func (h *OrganizationHandler) GetByCode(c *gin.Context) {
	org, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, org, nil)
}
