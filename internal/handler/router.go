package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/models"
	"github.com/campusboard/notice-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth               *AuthHandler
	Organization       *OrganizationHandler
	Department         *DepartmentHandler
	Class              *ClassHandler
	Subject            *SubjectHandler
	TeachingAssignment *TeachingAssignmentHandler
	User               *UserHandler
	Notice             *NoticeHandler
	Metrics            *MetricsHandler
	AuthService        *service.AuthService
	TenantService      *service.TenantService
}

// RegisterRoutes mounts the API surface under /api/v1. Board reads work for
// anonymous callers carrying an organization code; everything else requires
// a token, whose claims resolve the tenant.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", middleware.JWT(h.AuthService), h.Auth.Me)

	orgs := v1.Group("/organizations")
	orgs.POST("", h.Organization.Create)
	orgs.GET("/code/:code", h.Organization.GetByCode)

	authed := v1.Group("")
	authed.Use(middleware.JWT(h.AuthService), middleware.Tenant(h.TenantService))

	departments := authed.Group("/departments")
	departments.GET("", h.Department.List)
	departments.POST("", middleware.RequireRoles(models.RoleAdmin), h.Department.Create)

	classes := authed.Group("/classes")
	classes.GET("", h.Class.List)
	classes.POST("", middleware.RequireRoles(models.RoleAdmin), h.Class.Create)

	subjects := authed.Group("/subjects")
	subjects.GET("", h.Subject.List)
	subjects.POST("", middleware.RequireRoles(models.RoleAdmin), h.Subject.Create)

	assignments := authed.Group("/teaching-assignments")
	assignments.POST("", middleware.RequireRoles(models.RoleAdmin), h.TeachingAssignment.Assign)
	assignments.GET("", middleware.RequireRoles(models.RoleAdmin), h.TeachingAssignment.ListAll)
	assignments.GET("/mine", middleware.RequireRoles(models.RoleTeacher), h.TeachingAssignment.ListMine)

	users := authed.Group("/users")
	users.GET("", middleware.RequireRoles(models.RoleAdmin), h.User.List)
	users.GET("/teachers", middleware.RequireRoles(models.RoleAdmin), h.User.ListTeachers)
	users.GET("/me/permissions", h.User.Permissions)
	users.POST("/admins", middleware.RequireRoles(models.RoleAdmin), h.User.CreateAdmin)
	users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.User.Update)
	users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.User.Delete)

	// The board listing stays reachable without a token as long as the
	// caller names its organization.
	board := v1.Group("/notices")
	board.Use(middleware.OptionalJWT(h.AuthService), middleware.Tenant(h.TenantService))
	board.GET("", h.Notice.List)

	notices := authed.Group("/notices")
	notices.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Notice.Create)
	notices.GET("/feed", middleware.RequireRoles(models.RoleStudent), h.Notice.Feed)
	notices.GET("/:id", h.Notice.Get)
	notices.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.Notice.Update)
	notices.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.Notice.Delete)
	notices.POST("/:id/read", h.Notice.MarkRead)
	notices.GET("/:id/read-stats", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Notice.ReadStats)
	notices.GET("/:id/read-stats/export", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Notice.ExportReadStats)
}
