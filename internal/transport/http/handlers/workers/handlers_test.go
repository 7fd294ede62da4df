package workershandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"kaiaworks/internal/domain/auth"
	"kaiaworks/internal/transport/http/api"
	"kaiaworks/internal/transport/http/middleware"
)

func newMockRouter(t *testing.T) (chi.Router, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	router := chi.NewRouter()
	NewHandler(mock, nil).RegisterRoutes(router)
	return router, mock
}

func doJSON(t *testing.T, router http.Handler, method, target, body string, user auth.UserContext) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func workerRowColumns() []string {
	return []string{
		"id", "email", "full_name",
		"phone", "position", "department", "role",
		"employment_type", "hourly_rate", "is_resident",
		"fortnightly_allowance", "fortnightly_deduction",
		"supervisor_id", "is_active", "created_at",
	}
}

func workerRow(rate float64) *pgxmock.Rows {
	resident := true
	return pgxmock.NewRows(workerRowColumns()).AddRow(
		"w-1", "alice@kaiaworks.example", "Alice",
		"", "Site Crew", "Operations", "worker",
		"permanent", rate, &resident,
		0.0, 0.0,
		"", true, time.Now(),
	)
}

func TestPatchWorkerRejectsNegativeRate(t *testing.T) {
	router, mock := newMockRouter(t)
	officer := auth.UserContext{UserID: "u-1", Role: auth.RolePayrollOfficer}

	rec := doJSON(t, router, http.MethodPatch, "/workers/w-1", `{"hourlyRate":-10}`, officer)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env api.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NotNil(t, env.Error)
	require.Equal(t, "validation_error", env.Error.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchWorkerUpdatesRate(t *testing.T) {
	router, mock := newMockRouter(t)
	officer := auth.UserContext{UserID: "u-1", Role: auth.RolePayrollOfficer}

	mock.ExpectQuery("FROM profiles").
		WithArgs("w-1").
		WillReturnRows(workerRow(20.0))
	mock.ExpectExec("UPDATE profiles SET hourly_rate").
		WithArgs(25.0, "w-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM profiles").
		WithArgs("w-1").
		WillReturnRows(workerRow(25.0))

	rec := doJSON(t, router, http.MethodPatch, "/workers/w-1", `{"hourlyRate":25}`, officer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchWorkerRequiresWritePermission(t *testing.T) {
	router, mock := newMockRouter(t)
	supervisor := auth.UserContext{UserID: "u-1", Role: auth.RoleSupervisor}

	rec := doJSON(t, router, http.MethodPatch, "/workers/w-1", `{"hourlyRate":25}`, supervisor)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkerNotFound(t *testing.T) {
	router, mock := newMockRouter(t)
	officer := auth.UserContext{UserID: "u-1", Role: auth.RolePayrollOfficer}

	mock.ExpectQuery("FROM profiles").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(workerRowColumns()))

	rec := doJSON(t, router, http.MethodGet, "/workers/missing", "", officer)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
