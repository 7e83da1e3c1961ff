package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/schoolms/sms-backend-go/internal/config"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	appHTTP "github.com/schoolms/sms-backend-go/internal/handler/http"
	"github.com/schoolms/sms-backend-go/internal/handler/http/middleware"
	"github.com/schoolms/sms-backend-go/internal/pkg/cron"
	"github.com/schoolms/sms-backend-go/internal/pkg/database"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
	"github.com/schoolms/sms-backend-go/internal/pkg/metrics"
	"github.com/schoolms/sms-backend-go/internal/pkg/storage"
	"github.com/schoolms/sms-backend-go/internal/repository/postgresql"
	biometricService "github.com/schoolms/sms-backend-go/internal/service/biometric"
	"github.com/schoolms/sms-backend-go/internal/service/file"
	invoiceService "github.com/schoolms/sms-backend-go/internal/service/invoice"
	salaryService "github.com/schoolms/sms-backend-go/internal/service/salary"
)

const (
	appName    = "sms-attendance-salary"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.Database.MigrationsDir != "" {
		if err := db.ApplyMigrations(ctx, cfg.Database.MigrationsDir); err != nil {
			log.Fatal("Failed to apply migrations: ", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Repositories
	teacherRepo := postgresql.NewTeacherRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	timingRepo := postgresql.NewTimingRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	uploadRepo := postgresql.NewUploadRepository(db)
	ruleRepo := postgresql.NewRuleRepository(db)
	configRepo := postgresql.NewConfigRepository(db)
	calculationRepo := postgresql.NewCalculationRepository(db)
	invoiceRepo := postgresql.NewInvoiceRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileService := file.NewFileService(fileStorage)

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := salaryService.NewResolver(recordRepo, attendanceRepo, teacherRepo)
	calculator := salaryService.NewCalculator(resolver, ruleRepo, configRepo)
	salarySvc := salaryService.NewSalaryService(
		postgresql.NewTransactor(db),
		calculator,
		ruleRepo,
		configRepo,
		calculationRepo,
		teacherRepo,
		appMetrics,
	)

	biometricSvc := biometricService.NewBiometricService(
		timingRepo,
		recordRepo,
		uploadRepo,
		ruleRepo,
		configRepo,
		teacherRepo,
		biometricService.NewTeacherMatcher(teacherRepo),
		fileService,
		appMetrics,
	)

	template, err := invoice.ParseTemplate(cfg.Invoice.Template)
	if err != nil {
		log.Fatal("Invalid INVOICE_TEMPLATE: ", err)
	}
	invoiceSvc := invoiceService.NewInvoiceService(
		invoiceRepo,
		calculationRepo,
		teacherRepo,
		appMetrics,
		invoiceService.Options{
			DueDays:         cfg.Invoice.DueDays,
			DefaultTemplate: template,
			SchoolName:      cfg.Invoice.SchoolName,
			SchoolAddress:   cfg.Invoice.SchoolAddress,
		},
	)

	// Rate limiting
	var redisClient *redis.Client
	if cfg.RateLimit.Store == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer redisClient.Close()
	}
	limiterStore, err := middleware.NewLimiterStore(redisClient, appName)
	if err != nil {
		log.Fatal("Failed to initialize rate limiter: ", err)
	}
	rateLimit, err := middleware.RateLimit(limiterStore, cfg.RateLimit.Default)
	if err != nil {
		log.Fatal("Invalid RATE_LIMIT: ", err)
	}
	uploadRateLimit, err := middleware.RateLimit(limiterStore, cfg.RateLimit.Upload)
	if err != nil {
		log.Fatal("Invalid RATE_LIMIT_UPLOAD: ", err)
	}

	// Handlers
	salaryHandler := appHTTP.NewSalaryHandler(salarySvc)
	biometricHandler := appHTTP.NewBiometricHandler(biometricSvc)
	invoiceHandler := appHTTP.NewInvoiceHandler(invoiceSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:         appName,
			Version:         appVersion,
			Env:             cfg.App.Env,
			LogLevel:        cfg.SlogLevel(),
			AllowedOrigins:  cfg.AllowedOrigins(),
			RateLimit:       rateLimit,
			UploadRateLimit: uploadRateLimit,
			Metrics:         registry,
		},
		JWTService,
		salaryHandler,
		biometricHandler,
		invoiceHandler,
	)

	// Cron jobs
	scheduler := cron.NewScheduler()
	cron.NewInvoiceJobs(invoiceSvc, cfg.Invoice.SweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
