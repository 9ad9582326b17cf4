package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "idportal/api/swagger" // swagger docs
	"idportal/internal/auth"
	"idportal/internal/config"
	"idportal/internal/database"
	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/handler"
	"idportal/internal/metrics"
	"idportal/internal/middleware"
	"idportal/internal/repository"
	"idportal/internal/service"
	"idportal/internal/storage"
	"idportal/internal/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// app holds the long-lived connections shared by the commands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   docstore.Store
	redis   *redis.Client
	nats    *nats.Conn
	metrics *metrics.Metrics
}

func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevelValue()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := database.NewDocumentStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return &app{cfg: cfg, logger: logger, store: store}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.nats != nil {
		if err := a.nats.Drain(); err != nil {
			a.logger.Warn("failed to drain nats connection", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("failed to close document store", "error", err)
	}
}

func (a *app) fileStorage(ctx context.Context) (storage.FileStorage, error) {
	if a.cfg.StorageDriver == config.StorageNATS {
		nc, err := a.natsConn()
		if err != nil {
			return nil, err
		}
		return storage.NewNATSStorage(ctx, nc, a.cfg.StorageBucket, a.cfg.PublicBaseURL)
	}
	return storage.NewLocalStorage(a.cfg.StorageDir, a.cfg.PublicBaseURL)
}

func (a *app) natsConn() (*nats.Conn, error) {
	if a.nats != nil {
		return a.nats, nil
	}
	nc, err := database.NewNATSConnection(a.cfg.NATSURL, a.logger)
	if err != nil {
		return nil, err
	}
	a.nats = nc
	return nc, nil
}

// limiter prefers the shared Redis counter so that limits hold across
// replicas, and falls back to a process-local one without Redis.
func (a *app) limiter(ctx context.Context) middleware.Limiter {
	client, err := database.NewRedisClient(ctx, a.cfg.RedisURL)
	if err != nil {
		a.logger.Warn("redis unavailable, using in-memory rate limiter", "error", err)
		return middleware.NewMemoryLimiter()
	}
	if client == nil {
		return middleware.NewMemoryLimiter()
	}
	a.redis = client
	a.logger.Info("connected to Redis for rate limiting")
	return middleware.NewRedisLimiter(client, a.logger)
}

type services struct {
	applications service.ApplicationService
	status       service.StatusService
	employees    service.EmployeeService
	statistics   service.StatisticsService
	audit        service.AuditService
	auth         service.AuthService
}

func (a *app) services(files storage.FileStorage) services {
	loc := a.cfg.Location()
	norm := datenorm.NewNormalizer(loc, a.logger, datenorm.WithFailureHook(a.metrics.IncNormalizationFailure))
	validator := validation.New(loc)

	// Set up dependencies (Repository -> Service)
	applicationRepo := repository.NewApplicationRepository(a.store, norm, a.logger, a.metrics)
	employeeRepo := repository.NewEmployeeRepository(a.store, norm, a.logger, a.metrics)
	statisticsRepo := repository.NewStatisticsRepository(a.store, loc)
	auditRepo := repository.NewAuditRepository(a.store)
	txManager := repository.NewTransactionManager(a.store)

	return services{
		applications: service.NewApplicationService(applicationRepo, auditRepo, txManager, files, validator, a.logger, a.metrics),
		status:       service.NewStatusService(applicationRepo, loc, a.logger, a.metrics),
		employees:    service.NewEmployeeService(employeeRepo, statisticsRepo, auditRepo, txManager, files, a.cfg.PublicBaseURL, validator, a.logger),
		statistics:   service.NewStatisticsService(statisticsRepo),
		audit:        service.NewAuditService(auditRepo),
		auth:         a.authService(validator),
	}
}

func (a *app) authService(validator *validation.Validator) service.AuthService {
	adminUserRepo := repository.NewAdminUserRepository(a.store)
	return service.NewAuthService(
		auth.NewPasswordProvider(adminUserRepo),
		auth.NewTokenIssuer(a.cfg.JWTSecret, a.cfg.SessionTTL),
		adminUserRepo,
		repository.NewAuditRepository(a.store),
		repository.NewTransactionManager(a.store),
		validator,
		a.logger,
	)
}

func serve(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	registry := prometheus.NewRegistry()
	a.metrics = metrics.New(registry)

	files, err := a.fileStorage(ctx)
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}
	svc := a.services(files)
	limiter := a.limiter(ctx)

	if a.cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(a.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After", "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	window := a.cfg.RateLimitWindow
	statusLimit := middleware.RateLimit(limiter, "status", a.cfg.StatusRateLimit, window)
	loginLimit := middleware.RateLimit(limiter, "login", a.cfg.StatusRateLimit, window)

	applicationHandler := handler.NewApplicationHandler(svc.applications, svc.status, statusLimit)
	employeeHandler := handler.NewEmployeeHandler(svc.employees)
	statisticsHandler := handler.NewStatisticsHandler(svc.statistics)
	auditHandler := handler.NewAuditHandler(svc.audit)
	authHandler := handler.NewAuthHandler(svc.auth, a.cfg.Release(), loginLimit)
	fileHandler := handler.NewFileHandler(files)

	api := router.Group("/api")
	applicationHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api)

	admin := api.Group("/admin", middleware.RequireAdmin(svc.auth, a.cfg.AdminLoginURL, a.logger))
	applicationHandler.RegisterAdminRoutes(admin)
	employeeHandler.RegisterAdminRoutes(admin)
	statisticsHandler.RegisterAdminRoutes(admin)
	auditHandler.RegisterAdminRoutes(admin)
	authHandler.RegisterAdminRoutes(admin)

	fileHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", "addr", srv.Addr, "db_driver", a.cfg.DBDriver, "storage_driver", a.cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func migrate(ctx context.Context, configPath string) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("document store ready", "db_driver", a.cfg.DBDriver)
	return nil
}

func createAdmin(ctx context.Context, configPath, email, name, role, password string) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	authService := a.authService(validation.New(a.cfg.Location()))
	user, err := authService.CreateAdminUser(ctx, validation.AdminUserInput{
		Email:    email,
		Name:     name,
		Role:     role,
		Password: password,
	}, service.Actor{})
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid admin user: %v", verrs)
		}
		return err
	}

	a.logger.Info("admin user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return nil
}
