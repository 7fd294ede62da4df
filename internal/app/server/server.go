package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"kaiaworks/internal/domain/attendance"
	"kaiaworks/internal/domain/audit"
	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/domain/notifications"
	"kaiaworks/internal/domain/payroll"
	"kaiaworks/internal/platform/config"
	"kaiaworks/internal/platform/email"
	"kaiaworks/internal/platform/jobs"
	"kaiaworks/internal/platform/metrics"
	"kaiaworks/internal/transport/http/api"
	attendancehandler "kaiaworks/internal/transport/http/handlers/attendance"
	audithandler "kaiaworks/internal/transport/http/handlers/audit"
	authhandler "kaiaworks/internal/transport/http/handlers/auth"
	notificationshandler "kaiaworks/internal/transport/http/handlers/notifications"
	payrollhandler "kaiaworks/internal/transport/http/handlers/payroll"
	workershandler "kaiaworks/internal/transport/http/handlers/workers"
	"kaiaworks/internal/transport/http/middleware"
)

// New assembles the router with every domain service wired in. Callers own
// the pool and job queue lifecycle.
func New(cfg config.Config, pool *pgxpool.Pool, queue *jobs.Service) http.Handler {
	collector := metrics.New()
	auditor := audit.New(pool)

	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	attendanceService := attendance.NewService(attendance.NewStore(pool), notifier)
	payrollService := payroll.NewService(payroll.NewStore(pool), notifier, queue, cfg.PayslipDir)
	authStore := auth.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, auditor, cfg.JWTSecret).RegisterRoutes(r)
		workershandler.NewHandler(pool, auditor).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, auditor).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, auditor).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier).RegisterRoutes(r)
		audithandler.NewHandler(auditor).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.With(middleware.RequirePermission(auth.PermMetricsRead)).Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return router
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes resolve.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	slog.Warn("static file stat failed", "path", path, "err", err)
	http.NotFound(w, r)
}
