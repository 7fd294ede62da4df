package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"kaiaworks/internal/domain/audit"
	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/domain/payroll"
	"kaiaworks/internal/transport/http/api"
	"kaiaworks/internal/transport/http/middleware"
	"kaiaworks/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/cycles", h.handleListCycles)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/cycles/{cycleID}", h.handleGetCycle)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/cycles/{cycleID}/run", h.handleRunCycle)
		r.Post("/cycles/{cycleID}/status", h.handleTransition)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/cycles/{cycleID}/payslips", h.handleCyclePayslips)
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Get("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/payslips", h.handleOwnPayslips)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/payslips/{payslipID}/download", h.handleDownloadPayslip)
	})
}

// transitionPermissions maps each target cycle status to the permission
// allowed to move a cycle there.
var transitionPermissions = map[string]string{
	payroll.CycleStatusVerification:    auth.PermPayrollRun,
	payroll.CycleStatusPendingApproval: auth.PermPayrollVerify,
	payroll.CycleStatusApproved:        auth.PermPayrollApprove,
	payroll.CycleStatusPaid:            auth.PermPayrollPay,
}

type createCycleRequest struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Notes       string `json:"notes"`
}

type transitionRequest struct {
	Status string `json:"status"`
}


func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	cycles, total, err := h.Service.ListCycles(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycles_list_failed", "failed to list payroll cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"cycles": cycles,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("periodStart", payload.PeriodStart, "periodStart is required")
	v.Required("periodEnd", payload.PeriodEnd, "periodEnd is required")
	start, startOK := v.Date("periodStart", payload.PeriodStart)
	end, endOK := v.Date("periodEnd", payload.PeriodEnd)
	if startOK && endOK {
		v.DateOrder("periodStart", start, "periodEnd", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cycle, err := h.Service.CreateCycle(r.Context(), start, end, strings.TrimSpace(payload.Notes), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_create_failed", "failed to create payroll cycle", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "payroll.cycle_created", cycle.ID, nil, cycle)
	api.Created(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, payroll.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_get_failed", "failed to load payroll cycle", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	cycle, err := h.Service.RunCycle(r.Context(), cycleID, user.UserID)
	switch {
	case errors.Is(err, payroll.ErrCycleNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrCycleNotRunnable):
		api.Fail(w, http.StatusConflict, "cycle_not_runnable", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "cycle_run_failed", "failed to run payroll cycle", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "payroll.cycle_run", cycleID, nil, cycle)
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

// handleTransition checks the permission for the requested target status
// itself: each step of the chain belongs to a different role.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	status := strings.ToLower(strings.TrimSpace(payload.Status))
	permission, known := transitionPermissions[status]
	if !known {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown target status", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.HasPermission(user.Role, permission) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	cycle, err := h.Service.Transition(r.Context(), cycleID, status, user.UserID)
	switch {
	case errors.Is(err, payroll.ErrCycleNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "transition_failed", "failed to update cycle status", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "payroll.cycle_"+status, cycleID, nil, cycle)
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCyclePayslips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Service.ListCyclePayslips(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, payroll.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payroll cycle not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"payslips": slips}, middleware.GetRequestID(r.Context()))
}

// handlePreview computes one worker's breakdown for a date range without
// writing anything, so the payroll officer can sanity-check before a run.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	workerID := strings.TrimSpace(query.Get("workerId"))

	v := shared.NewValidator()
	v.Required("workerId", workerID, "workerId is required")
	v.Required("periodStart", query.Get("periodStart"), "periodStart is required")
	v.Required("periodEnd", query.Get("periodEnd"), "periodEnd is required")
	start, startOK := v.Date("periodStart", query.Get("periodStart"))
	end, endOK := v.Date("periodEnd", query.Get("periodEnd"))
	if startOK && endOK {
		v.DateOrder("periodStart", start, "periodEnd", end)
	}
	allowances := parseAmount(v, "allowances", query.Get("allowances"))
	otherDeductions := parseAmount(v, "otherDeductions", query.Get("otherDeductions"))
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Preview(r.Context(), workerID, start, end, allowances, otherDeductions)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "worker not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOwnPayslips(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 20, 100)

	slips, total, err := h.Service.ListWorkerPayslips(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"payslips": slips,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

// handleDownloadPayslip serves the rendered PDF, generating it on demand if
// the background job has not produced one yet. Workers can only pull their
// own payslips; payroll staff can pull any.
func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payslipID := chi.URLParam(r, "payslipID")
	slip, err := h.Service.GetPayslip(r.Context(), payslipID)
	if errors.Is(err, payroll.ErrPayslipNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", middleware.GetRequestID(r.Context()))
		return
	}

	if slip.WorkerID != user.UserID && !auth.HasPermission(user.Role, auth.PermPayrollRun) && !auth.HasPermission(user.Role, auth.PermPayrollVerify) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	filePath := slip.FilePath
	if filePath == "" {
		filePath, err = h.Service.GeneratePayslipPDF(r.Context(), payslipID)
		if err != nil {
			slog.Warn("payslip pdf generation failed", "payslipId", payslipID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "payslip_missing", "payslip document not available", middleware.GetRequestID(r.Context()))
			return
		}
	}

	http.ServeFile(w, r, filePath)
}

func parseAmount(v *shared.Validator, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v.Add(field, "must be a number")
		return 0
	}
	v.NonNegative(field, value, "must not be negative")
	return value
}

func (h *Handler) record(r *http.Request, actorID, action, cycleID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "payroll_cycle", cycleID, middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
