package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
	"github.com/schoolms/sms-backend-go/internal/handler/http/middleware"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the edge settings of the API.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string

	// RateLimit applies to every /api/v1 route, UploadRateLimit additionally
	// to CSV uploads. Nil disables the limit.
	RateLimit       func(http.Handler) http.Handler
	UploadRateLimit func(http.Handler) http.Handler

	// Metrics is served at /metrics when set.
	Metrics prometheus.Gatherer
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	salaryHandler SalaryHandler,
	biometricHandler BiometricHandler,
	invoiceHandler InvoiceHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit)
		}

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance-salary", func(r chi.Router) {
				// Visible to every authenticated role; services scope teachers to their own rows.
				r.Get("/biometric", biometricHandler.ListRecords)
				r.Get("/salary-calculations", salaryHandler.ListCalculations)

				// Admin or principal only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)

					r.Get("/timings", biometricHandler.ListTimings)
					r.Get("/rules", salaryHandler.ListRules)
					r.Get("/upload-history", biometricHandler.UploadHistory)
					r.Get("/teacher-salary-config", salaryHandler.ListConfigs)

					r.Post("/calculate-salary", salaryHandler.CalculateSalary)
					r.Post("/preview-salary", salaryHandler.PreviewSalary)
					r.Post("/recalculate-salary/{id}", salaryHandler.RecalculateSalary)
					r.Post("/salary-calculations/bulk-approve", salaryHandler.BulkApprove)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionSalaryApprove))
						r.Post("/salary-calculations/{id}/approve", salaryHandler.ApproveCalculation)
					})

					// Configuration is admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionRulesManage))
						r.Post("/timings", biometricHandler.CreateTiming)
						r.Put("/timings/{id}", biometricHandler.UpdateTiming)
						r.Post("/rules", salaryHandler.CreateRule)
						r.Put("/rules/{id}", salaryHandler.UpdateRule)
					})
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionSalaryConfigure))
						r.Post("/teacher-salary-config", salaryHandler.CreateConfig)
						r.Put("/teacher-salary-config/{id}", salaryHandler.UpdateConfig)
					})

					r.Group(func(r chi.Router) {
						if cfg.UploadRateLimit != nil {
							r.Use(cfg.UploadRateLimit)
						}
						r.Use(middleware.RequirePermission(user.PermissionAttendanceUpload))
						r.Post("/upload-csv", biometricHandler.UploadCSV)
					})
				})
			})

			r.Route("/finance/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.List)
				r.Get("/{id}", invoiceHandler.Get)
				r.Get("/{id}/download", invoiceHandler.Download)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionInvoiceManage))
					r.Post("/", invoiceHandler.Generate)
					r.Put("/{id}", invoiceHandler.Update)
				})
			})
		})
	})
	return r
}
