package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/case-portal/internal/api/http"
	"github.com/spec-kit/case-portal/internal/api/http/handlers"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/config"
	"github.com/spec-kit/case-portal/internal/events"
	"github.com/spec-kit/case-portal/internal/observability"
	"github.com/spec-kit/case-portal/internal/persistence"
	"github.com/spec-kit/case-portal/internal/ratelimit"
	"github.com/spec-kit/case-portal/internal/repository"
	"github.com/spec-kit/case-portal/internal/service"
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
	sessionRepo := repository.NewSessionRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	requestRepo := repository.NewAccessRequestRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(auditRepo)
	auditService.RegisterHandlers(dispatcher)

	var limiterStore ratelimit.Store
	if cfg.RateLimit.UseRedis {
		limiterStore = ratelimit.NewRedisStore(redis.Client)
	} else {
		memStore := ratelimit.NewMemoryStore(cfg.RateLimit.SweepInterval())
		defer memStore.Stop()
		limiterStore = memStore
	}
	loginLimiter := ratelimit.NewLimiter(limiterStore, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow())
	lookupLimiter := ratelimit.NewLimiter(limiterStore, cfg.RateLimit.LookupLimit, cfg.RateLimit.LookupWindow())

	sessionManager := auth.NewSessionManager(sessionRepo, cfg.Auth.SessionTTL())
	authService := service.NewAuthService(userRepo, sessionManager, dispatcher, cfg.Auth.BcryptCost)
	caseService := service.NewCaseService(caseRepo, dispatcher)
	accessService := service.NewAccessService(requestRepo, participantRepo, caseRepo, dispatcher)
	messageService := service.NewMessageService(messageRepo, participantRepo, caseRepo, dispatcher)
	reportService := service.NewReportService(reportRepo, caseRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(sessionManager, cfg.Auth.SessionCookieName)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	cookie := handlers.CookieSettings{
		Name:   cfg.Auth.SessionCookieName,
		TTL:    cfg.Auth.SessionTTL(),
		Secure: cfg.Auth.SecureCookies,
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, loginLimiter, cookie),
		Lookup:         handlers.NewLookupHandler(caseService, lookupLimiter),
		Cases:          handlers.NewCasesHandler(caseService, accessService),
		Messages:       handlers.NewMessagesHandler(messageService),
		AccessRequests: handlers.NewAccessRequestsHandler(accessService),
		Reports:        handlers.NewReportsHandler(reportService),
		Admin:          handlers.NewAdminHandler(accessService, reportService, auditService, authService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
