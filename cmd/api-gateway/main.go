package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusboard/notice-api/api/swagger"
	"github.com/campusboard/notice-api/internal/handler"
	"github.com/campusboard/notice-api/internal/middleware"
	"github.com/campusboard/notice-api/internal/repository"
	"github.com/campusboard/notice-api/internal/service"
	"github.com/campusboard/notice-api/pkg/cache"
	"github.com/campusboard/notice-api/pkg/config"
	"github.com/campusboard/notice-api/pkg/database"
	"github.com/campusboard/notice-api/pkg/logger"
	corsmiddleware "github.com/campusboard/notice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusboard/notice-api/pkg/middleware/requestid"
)

// @title Campus Notice Board API
// @version 1.0.0
// @description Multi-tenant notice distribution for schools and colleges
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Feed.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, feed cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Feed.CacheTTL, logr, true)
		}
	}

	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewTeachingAssignmentRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	readRepo := repository.NewNoticeReadRepository(db)

	tenantSvc := service.NewTenantService(orgRepo, logr)
	authSvc := service.NewAuthService(userRepo, orgRepo, cfg.JWT, logr)
	orgSvc := service.NewOrganizationService(orgRepo, logr)
	deptSvc := service.NewDepartmentService(deptRepo, logr)
	classSvc := service.NewClassService(classRepo, deptRepo, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, deptRepo, logr)
	userSvc := service.NewUserService(userRepo, logr)
	assignmentSvc := service.NewTeachingAssignmentService(assignmentRepo, userRepo, subjectRepo, classRepo, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, subjectRepo, classRepo, assignmentSvc, cacheSvc, metricsSvc, logr)
	readSvc := service.NewNoticeReadService(readRepo, noticeRepo, userRepo, metricsSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:               handler.NewAuthHandler(authSvc),
		Organization:       handler.NewOrganizationHandler(orgSvc),
		Department:         handler.NewDepartmentHandler(deptSvc),
		Class:              handler.NewClassHandler(classSvc),
		Subject:            handler.NewSubjectHandler(subjectSvc),
		TeachingAssignment: handler.NewTeachingAssignmentHandler(assignmentSvc),
		User:               handler.NewUserHandler(userSvc),
		Notice:             handler.NewNoticeHandler(noticeSvc, readSvc),
		Metrics:            handler.NewMetricsHandler(metricsSvc),
		AuthService:        authSvc,
		TenantService:      tenantSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
