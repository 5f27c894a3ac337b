package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/authz"
	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) authz.Actor {
	return authz.ActorFromClaims(claimsFromContext(c))
}
