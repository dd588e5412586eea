package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-kit/user-service/internal/api/http"
	"github.com/campus-kit/user-service/internal/api/http/handlers"
	"github.com/campus-kit/user-service/internal/auth"
	"github.com/campus-kit/user-service/internal/cache"
	"github.com/campus-kit/user-service/internal/config"
	"github.com/campus-kit/user-service/internal/events"
	"github.com/campus-kit/user-service/internal/observability"
	"github.com/campus-kit/user-service/internal/persistence"
	"github.com/campus-kit/user-service/internal/repository"
	"github.com/campus-kit/user-service/internal/service"
	"github.com/campus-kit/user-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)

	dispatcher := events.NewAsyncDispatcher(logger)
	defer dispatcher.Close()

	profileCache := cache.NewProfileCache(redis.Client, time.Minute, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		StudentRepo: studentRepo,
		TeacherRepo: teacherRepo,
		Dispatcher:  dispatcher,
	})
	studentService := service.NewStudentService(userRepo, studentRepo, profileCache)
	teacherService := service.NewTeacherService(userRepo, teacherRepo, profileCache)
	emailService := service.NewEmailService(dispatcher, logger, cfg.Notification)
	worker.StartEmailWorker(emailService)

	gate := auth.NewGate(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService),
		Students: handlers.NewStudentsHandler(studentService),
		Teachers: handlers.NewTeachersHandler(teacherService),
		Gate:     gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
