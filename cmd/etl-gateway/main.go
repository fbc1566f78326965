package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/uni-reporting-etl/internal/etl"
	"github.com/noah-isme/uni-reporting-etl/internal/handler"
	"github.com/noah-isme/uni-reporting-etl/internal/repository"
	"github.com/noah-isme/uni-reporting-etl/internal/service"
	"github.com/noah-isme/uni-reporting-etl/pkg/cache"
	"github.com/noah-isme/uni-reporting-etl/pkg/config"
	"github.com/noah-isme/uni-reporting-etl/pkg/database"
	"github.com/noah-isme/uni-reporting-etl/pkg/jobs"
	"github.com/noah-isme/uni-reporting-etl/pkg/logger"
	"github.com/noah-isme/uni-reporting-etl/pkg/maintenance"
	corsmiddleware "github.com/noah-isme/uni-reporting-etl/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-reporting-etl/pkg/middleware/requestid"
	"github.com/noah-isme/uni-reporting-etl/pkg/notify"
)

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	gate := maintenance.NewRedisGate(redisClient, cfg.Maintenance.RedisKey, cfg.Maintenance.TTL)

	var notifier notify.Notifier = notify.NewLogNotifier(logr)
	if cfg.Notify.Enabled && cfg.Notify.SendgridKey != "" {
		notifier = notify.NewSendgridNotifier(cfg.Notify.SendgridKey, cfg.Notify.FromName, cfg.Notify.FromAddress)
	}

	dates := etl.NewDateParser(logr)
	gradesRepo := repository.NewGradeResultsRepository(db, etl.GradeResultsMapping(dates))
	coursesRepo := repository.NewCourseDefsRepository(db, etl.CourseDefsMapping(dates))
	supervisorsRepo := repository.NewSupervisorsRepository(db)
	scholarshipsRepo := repository.NewScholarshipsRepository(db)
	rolesRepo := repository.NewAssociatedRolesRepository(db)
	datesRepo := repository.NewStudentDatesRepository(db)
	statusRepo := repository.NewTableStatusRepository(db)

	datesService := service.NewStudentDatesService(
		supervisorsRepo, gradesRepo, datesRepo, statusRepo, gate, metrics, logr, cfg.Derivation)

	// The import queue is intentionally single-worker: imports are
	// long-running table rewrites and the derivation reads across
	// several of those tables, so serializing them avoids cross-table
	// interleaving without any locking.
	var importService *service.ImportService
	queue := jobs.NewQueue("imports", func(ctx context.Context, job jobs.Job) error {
		return importService.HandleJob(ctx, job)
	}, jobs.QueueConfig{Workers: 1, BufferSize: 16, Logger: logr})

	importService = service.NewImportService(
		gradesRepo, coursesRepo, supervisorsRepo, scholarshipsRepo, rolesRepo,
		statusRepo, datesService, gate, queue, notifier, metrics, logr, cfg.Import)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)
	defer queue.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	importHandler := handler.NewImportHandler(importService)
	datesHandler := handler.NewStudentDatesHandler(importService, datesService)

	api := r.Group(cfg.APIPrefix)
	{
		imports := api.Group("/imports")
		imports.POST("/grade-results", importHandler.GradeResults)
		imports.POST("/course-defs", importHandler.CourseDefs)
		imports.POST("/supervisors", importHandler.Supervisors)
		imports.POST("/scholarships", importHandler.Scholarships)
		imports.POST("/associated-roles", importHandler.AssociatedRoles)
		imports.POST("/bulk", importHandler.Bulk)
		imports.GET("/status", importHandler.Statuses)
		imports.GET("/status/:table", importHandler.Status)

		api.POST("/student-dates/recalculate", datesHandler.Recalculate)
		api.GET("/student-dates", datesHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
