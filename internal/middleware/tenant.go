package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/models"
	"github.com/campusboard/notice-api/internal/service"
	"github.com/campusboard/notice-api/pkg/response"
)

// ContextOrgKey is the gin context key storing the resolved organization ID.
const ContextOrgKey = "currentOrg"

// Tenant resolves the acting organization for the request and aborts when no
// tenant context can be established. Claims win; anonymous callers must send
// the X-Org-Code header or the orgCode query parameter.
func Tenant(tenantService *service.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *models.JWTClaims
		if claimsValue, exists := c.Get(ContextUserKey); exists {
			claims = claimsValue.(*models.JWTClaims)
		}

		code := c.GetHeader("X-Org-Code")
		if code == "" {
			code = c.Query("orgCode")
		}

		orgID, err := tenantService.Resolve(c.Request.Context(), claims, code)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextOrgKey, orgID)
		c.Next()
	}
}

// OrgID returns the resolved organization ID for the request.
func OrgID(c *gin.Context) string {
	if v, exists := c.Get(ContextOrgKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
