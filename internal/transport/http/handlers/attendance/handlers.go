package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kaiaworks/internal/domain/attendance"
	"kaiaworks/internal/domain/audit"
	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/transport/http/api"
	"kaiaworks/internal/transport/http/middleware"
	"kaiaworks/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead)).Get("/", h.handleListOwn)
		r.With(middleware.RequirePermission(auth.PermAttendanceApprove)).Get("/team", h.handleListTeam)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/clock-in", h.handleClockIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/{timesheetID}/clock-out", h.handleClockOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceApprove)).Post("/{timesheetID}/review", h.handleReview)
	})
}

type clockInRequest struct {
	SupervisorID    string `json:"supervisorId"`
	TaskDescription string `json:"taskDescription"`
}

type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 20, 100)

	sheets, total, err := h.Service.ListForWorker(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_failed", "failed to list timesheets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"timesheets": sheets,
		"total":      total,
		"limit":      page.Limit,
		"offset":     page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 20, 100)

	sheets, err := h.Service.ListForSupervisor(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheets_failed", "failed to list team timesheets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"timesheets": sheets}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload clockInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sheet, err := h.Service.ClockIn(r.Context(), user.UserID, strings.TrimSpace(payload.SupervisorID), strings.TrimSpace(payload.TaskDescription))
	if errors.Is(err, attendance.ErrAlreadyClockedIn) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, sheet, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	timesheetID := chi.URLParam(r, "timesheetID")
	sheet, err := h.Service.ClockOut(r.Context(), timesheetID, user.UserID)
	switch {
	case errors.Is(err, attendance.ErrTimesheetNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, attendance.ErrNotOpen):
		api.Fail(w, http.StatusConflict, "not_open", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status, attendance.ReviewStatuses, "must be approved or rejected")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	timesheetID := chi.URLParam(r, "timesheetID")
	status := strings.ToLower(strings.TrimSpace(payload.Status))
	sheet, err := h.Service.Review(r.Context(), timesheetID, status, strings.TrimSpace(payload.Notes), user.UserID)
	switch {
	case errors.Is(err, attendance.ErrTimesheetNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, attendance.ErrAlreadyReviewed):
		api.Fail(w, http.StatusConflict, "already_reviewed", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "review_failed", "failed to review timesheet", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.UserID, "attendance.review_"+status, "timesheet", timesheetID, middleware.GetRequestID(r.Context()), r.RemoteAddr, nil, sheet); err != nil {
			slog.Warn("audit record failed", "timesheetId", timesheetID, "err", err)
		}
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}
