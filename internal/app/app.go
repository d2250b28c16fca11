package app

import (
	"context"
	"language_gems_backend/internal/config"
	"language_gems_backend/internal/controller"
	"language_gems_backend/internal/repository"
	"language_gems_backend/internal/service"
	"language_gems_backend/pkg/database"
	"language_gems_backend/pkg/logger"
	"language_gems_backend/pkg/monitoring"
	"language_gems_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run 组装并启动整个服务
func Run(cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return err
	}
	if cfg.MigrateOnly {
		logger.Log.Info("Migration completed, exiting as requested")
		return nil
	}

	// Redis 只服务词汇解析缓存，连不上就降级为直查数据库
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, vocabulary cache disabled", zap.Error(err))
		rdb = nil
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("language-gems-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("Tracing init failed, continuing without it", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				tp.Shutdown(ctx)
			}()
		}
	}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return err
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	vocabRepo := repository.NewVocabularyRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)
	completionStore := repository.NewCompletionStore(db, rdb)

	// services
	authService := service.NewAuthService(userRepo, cfg)
	vocabService := service.NewVocabularyService(vocabRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, vocabRepo)
	completionService := service.NewCompletionService(completionStore, cfg.Completion)
	sessionService := service.NewGameSessionService(sessionRepo, performanceRepo, completionService)
	analyticsService := service.NewAnalyticsService(
		assignmentRepo, sessionRepo, performanceRepo, vocabRepo, userRepo, completionStore, storage)

	ctrls := &Controllers{
		Auth:       controller.NewAuthController(authService),
		Vocabulary: controller.NewVocabularyController(vocabService),
		Assignment: controller.NewAssignmentController(assignmentService),
		Activity:   controller.NewActivityController(sessionService, completionService),
		Analytics:  controller.NewAnalyticsController(analyticsService),
		Health:     controller.NewHealthController(db, rdb),
	}

	router := NewRouter(cfg, ctrls)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Log.Info("Server exited")
	return nil
}
