package workershandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kaiaworks/internal/domain/audit"
	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/domain/payroll"
	"kaiaworks/internal/transport/http/api"
	"kaiaworks/internal/transport/http/middleware"
	"kaiaworks/internal/transport/http/shared"
)

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Handler struct {
	DB    Querier
	Audit *audit.Service
}

func NewHandler(db Querier, auditor *audit.Service) *Handler {
	return &Handler{DB: db, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermWorkersRead)).Get("/{workerID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermWorkersWrite)).Patch("/{workerID}", h.handleUpdatePayProfile)
	})
}

type Worker struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Phone          string    `json:"phone,omitempty"`
	Position       string    `json:"position,omitempty"`
	Department     string    `json:"department,omitempty"`
	Role           string    `json:"role"`
	EmploymentType string    `json:"employmentType"`
	HourlyRate     float64   `json:"hourlyRate"`
	Resident       *bool     `json:"resident"`
	Allowance      float64   `json:"fortnightlyAllowance"`
	OtherDeduction float64   `json:"fortnightlyDeduction"`
	SupervisorID   string    `json:"supervisorId,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

const workerColumns = `
    id, email, COALESCE(full_name, ''),
    COALESCE(phone, ''), COALESCE(position, ''), COALESCE(department, ''), role,
    COALESCE(employment_type, 'permanent'), COALESCE(hourly_rate, 0), is_resident,
    COALESCE(fortnightly_allowance, 0), COALESCE(fortnightly_deduction, 0),
    COALESCE(supervisor_id::text, ''), is_active, created_at`

func scanWorker(row pgx.Row) (Worker, error) {
	var worker Worker
	err := row.Scan(
		&worker.ID, &worker.Email, &worker.FullName,
		&worker.Phone, &worker.Position, &worker.Department, &worker.Role,
		&worker.EmploymentType, &worker.HourlyRate, &worker.Resident,
		&worker.Allowance, &worker.OtherDeduction,
		&worker.SupervisorID, &worker.Active, &worker.CreatedAt,
	)
	return worker, err
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)

	var total int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM profiles WHERE role = 'worker'").Scan(&total); err != nil {
		api.Fail(w, http.StatusInternalServerError, "workers_list_failed", "failed to list workers", middleware.GetRequestID(r.Context()))
		return
	}

	rows, err := h.DB.Query(r.Context(), `
    SELECT`+workerColumns+`
    FROM profiles
    WHERE role = 'worker'
    ORDER BY full_name
    LIMIT $1 OFFSET $2
  `, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "workers_list_failed", "failed to list workers", middleware.GetRequestID(r.Context()))
		return
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "workers_list_failed", "failed to list workers", middleware.GetRequestID(r.Context()))
			return
		}
		workers = append(workers, worker)
	}

	api.Success(w, map[string]any{
		"workers": workers,
		"total":   total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "workerID")
	worker, err := scanWorker(h.DB.QueryRow(r.Context(), `
    SELECT`+workerColumns+`
    FROM profiles
    WHERE id = $1
  `, workerID))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "worker not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_get_failed", "failed to load worker", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, worker, middleware.GetRequestID(r.Context()))
}

type payProfileRequest struct {
	EmploymentType *string  `json:"employmentType"`
	HourlyRate     *float64 `json:"hourlyRate"`
	Resident       *bool    `json:"resident"`
	Allowance      *float64 `json:"fortnightlyAllowance"`
	OtherDeduction *float64 `json:"fortnightlyDeduction"`
	SupervisorID   *string  `json:"supervisorId"`
	Active         *bool    `json:"active"`
}

// handleUpdatePayProfile applies a partial update: absent fields keep their
// value, present fields are validated and written.
func (h *Handler) handleUpdatePayProfile(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "workerID")

	var payload payProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	if payload.EmploymentType != nil {
		v.Enum("employmentType", *payload.EmploymentType, []string{payroll.EmploymentPermanent, payroll.EmploymentTemporary}, "must be permanent or temporary")
	}
	if payload.HourlyRate != nil {
		v.NonNegative("hourlyRate", *payload.HourlyRate, "must not be negative")
	}
	if payload.Allowance != nil {
		v.NonNegative("fortnightlyAllowance", *payload.Allowance, "must not be negative")
	}
	if payload.OtherDeduction != nil {
		v.NonNegative("fortnightlyDeduction", *payload.OtherDeduction, "must not be negative")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	before, err := scanWorker(h.DB.QueryRow(r.Context(), `
    SELECT`+workerColumns+`
    FROM profiles
    WHERE id = $1
  `, workerID))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "worker not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_update_failed", "failed to load worker", middleware.GetRequestID(r.Context()))
		return
	}

	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if payload.EmploymentType != nil {
		add("employment_type", strings.ToLower(strings.TrimSpace(*payload.EmploymentType)))
	}
	if payload.HourlyRate != nil {
		add("hourly_rate", *payload.HourlyRate)
	}
	if payload.Resident != nil {
		add("is_resident", *payload.Resident)
	}
	if payload.Allowance != nil {
		add("fortnightly_allowance", *payload.Allowance)
	}
	if payload.OtherDeduction != nil {
		add("fortnightly_deduction", *payload.OtherDeduction)
	}
	if payload.SupervisorID != nil {
		if *payload.SupervisorID == "" {
			sets = append(sets, "supervisor_id = NULL")
		} else {
			add("supervisor_id", *payload.SupervisorID)
		}
	}
	if payload.Active != nil {
		add("is_active", *payload.Active)
	}
	if len(sets) == 0 {
		api.Fail(w, http.StatusBadRequest, "empty_update", "no fields to update", middleware.GetRequestID(r.Context()))
		return
	}

	args = append(args, workerID)
	query := "UPDATE profiles SET " + strings.Join(sets, ", ") + ", updated_at = now() WHERE id = $" + strconv.Itoa(len(args))
	if _, err := h.DB.Exec(r.Context(), query, args...); err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_update_failed", "failed to update worker", middleware.GetRequestID(r.Context()))
		return
	}

	after, err := scanWorker(h.DB.QueryRow(r.Context(), `
    SELECT`+workerColumns+`
    FROM profiles
    WHERE id = $1
  `, workerID))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "worker_update_failed", "failed to load worker", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Audit != nil {
		actor, _ := middleware.GetUser(r.Context())
		if err := h.Audit.Record(r.Context(), actor.UserID, "worker.pay_profile_updated", "profile", workerID, middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
			slog.Warn("audit record failed", "workerId", workerID, "err", err)
		}
	}

	api.Success(w, after, middleware.GetRequestID(r.Context()))
}
