// Package main runs the Lecturely HTTP API with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lecturely/backend/config"
	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/attendees"
	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/internal/courses"
	"github.com/lecturely/backend/internal/lectures"
	"github.com/lecturely/backend/internal/media"
	"github.com/lecturely/backend/internal/meetings"
	"github.com/lecturely/backend/internal/middleware"
	"github.com/lecturely/backend/internal/presenters"
	"github.com/lecturely/backend/internal/teachers"
	"github.com/lecturely/backend/internal/vimeo"
	"github.com/lecturely/backend/internal/worker"
	"github.com/lecturely/backend/pkg/database"
	"github.com/lecturely/backend/pkg/queue"
	"github.com/lecturely/backend/pkg/redis"
	"github.com/lecturely/backend/pkg/response"
	"github.com/lecturely/backend/pkg/sanitize"
	"github.com/lecturely/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()
	jobQueue := queue.NewQueue(rdb.Client, logger)

	s3Client, err := storage.NewS3(ctx, storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		ImagesBucket:    cfg.AWS.ImagesBucket,
	}, logger)
	if err != nil {
		logger.Warn("s3 disabled, image uploads unavailable", zap.Error(err))
		s3Client = nil
	}

	tokens := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireMinutes)*time.Minute)
	sanitizer := sanitize.New()
	zoom := meetings.NewZoomClient(cfg.Zoom.BaseURL, time.Duration(cfg.Zoom.TimeoutSec)*time.Second, logger)

	// Persistence
	credentialRepo := auth.NewRepository(pool)
	presenterRepo := presenters.NewRepository(pool)
	teacherRepo := teachers.NewRepository(pool)
	courseRepo := courses.NewRepository(pool)
	lectureRepo := lectures.NewRepository(pool)
	attendeeRepo := attendees.NewRepository(pool)

	resolver := access.NewResolver(credentialRepo, presenterRepo, teacherRepo, logger)

	// Services
	authSvc := auth.NewService(credentialRepo, presenterRepo, tokens, logger)
	presenterSvc := presenters.NewService(presenterRepo, resolver, sanitizer, logger)
	teacherSvc := teachers.NewService(teacherRepo, presenterSvc, resolver, sanitizer, logger)
	courseSvc := courses.NewService(courseRepo, presenterSvc, teacherSvc, resolver, sanitizer, logger)
	attendeeSvc := attendees.NewService(attendeeRepo, resolver, logger)
	lectureSvc := lectures.NewService(lectures.Deps{
		Store:     lectureRepo,
		Courses:   courseRepo,
		Teachers:  teacherRepo,
		Access:    resolver,
		Meetings:  zoom,
		Cleanup:   jobQueue,
		History:   attendeeSvc,
		Sanitizer: sanitizer,
		Logger:    logger,
		Active: lectures.ActiveCheckers{
			Courses:    courseSvc,
			Teachers:   teacherSvc,
			Presenters: presenterSvc,
		},
	})
	vimeoClient := vimeo.NewClient(cfg.Vimeo.BaseURL, time.Duration(cfg.Vimeo.TimeoutSec)*time.Second, logger)
	vimeoSvc := vimeo.NewService(resolver, vimeoClient, logger)

	// Handlers
	authHandler := auth.NewHandler(authSvc, logger)
	presenterHandler := presenters.NewHandler(presenterSvc, logger)
	teacherHandler := teachers.NewHandler(teacherSvc)
	courseHandler := courses.NewHandler(courseSvc, logger)
	lectureHandler := lectures.NewHandler(lectureSvc)
	attendeeHandler := attendees.NewHandler(attendeeSvc)
	vimeoHandler := vimeo.NewHandler(vimeoSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("database health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := rdb.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group(cfg.Server.APIPrefix)
	requireLogin := middleware.JWT(tokens, logger)
	authHandler.Routes(api, requireLogin)

	// Public and optional-auth reads; a valid token is still refreshed.
	public := api.Group("", middleware.OptionalJWT(tokens, logger))
	{
		public.GET("/search", courseHandler.Search)

		public.GET("/course/:courseId", courseHandler.Get)
		public.GET("/course/:courseId/lectures", lectureHandler.ListByCourse)

		public.GET("/lecture/:lectureId", lectureHandler.Get)

		public.GET("/presenter/:presenterId", presenterHandler.Get)
		public.GET("/presenter/:presenterId/teachers", teacherHandler.ListByPresenter)
		public.GET("/presenter/:presenterId/courses", courseHandler.ListByPresenter)
		public.GET("/presenter/:presenterId/lectures", lectureHandler.ListByPresenter)

		public.GET("/teacher/:teacherId", teacherHandler.Get)
		public.GET("/teacher/:teacherId/courses", courseHandler.ListByTeacher)
		public.GET("/teacher/:teacherId/lectures", lectureHandler.ListByTeacher)
	}

	// Protected API (JWT required)
	protected := api.Group("", requireLogin)
	{
		protected.POST("/course", courseHandler.Create)
		protected.PUT("/course", courseHandler.Update)
		protected.DELETE("/course", courseHandler.Delete)

		protected.POST("/lecture", lectureHandler.Create)
		protected.PUT("/lecture", lectureHandler.Update)
		protected.DELETE("/lecture", lectureHandler.Delete)

		protected.PUT("/teacher", teacherHandler.Update)
		protected.DELETE("/teacher", teacherHandler.Delete)

		protected.PUT("/presenter", presenterHandler.Update)

		protected.GET("/attendee/:attendeeId/history", attendeeHandler.History)

		protected.GET("/vimeo/user", vimeoHandler.User)

		if s3Client != nil {
			mediaHandler := media.NewHandler(media.NewUploader(s3Client, logger), int64(cfg.Server.MaxUploadMB)<<20)
			protected.POST("/lecture/:id/image", mediaHandler.Upload("lecture", lectureSvc))
			protected.POST("/course/:id/image", mediaHandler.Upload("course", courseSvc))
			protected.POST("/presenter/:id/image", mediaHandler.Upload("presenter", presenterSvc))
			protected.POST("/teacher/:id/image", mediaHandler.Upload("teacher", teacherSvc))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Meeting cleanup worker; run it here when no separate worker process is deployed.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Worker.InProcess {
		processor := worker.NewMeetingCleanupProcessor(jobQueue, resolver, zoom,
			time.Duration(cfg.Worker.RetryBackoffSec)*time.Second, logger)
		go processor.Run(workerCtx)
		logger.Info("meeting cleanup worker started in-process")
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("api_prefix", cfg.Server.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
