package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStoreTimesheetLines(t *testing.T) {
	store, mock := newMockStore(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	mock.ExpectQuery("FROM timesheets").
		WithArgs("worker-1", start, end).
		WillReturnRows(pgxmock.NewRows([]string{"status", "total_hours"}).
			AddRow("approved", 8.0).
			AddRow("pending", 8.0).
			AddRow("approved", 7.5))

	lines, err := store.TimesheetLines(context.Background(), "worker-1", start, end)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, 15.5, ApprovedHours(lines))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreTransitionCycleStampsVerifier(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE payroll_cycles").
		WithArgs(CycleStatusVerification, "actor-1", "cycle-1", CycleStatusDraft).
		WillReturnRows(cycleRows(now, CycleStatusVerification))

	cycle, err := store.TransitionCycle(context.Background(), "cycle-1", CycleStatusDraft, CycleStatusVerification, "actor-1")
	require.NoError(t, err)
	require.Equal(t, CycleStatusVerification, cycle.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreTransitionCycleStaleStatus(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	// The guarded UPDATE matches nothing because the cycle already moved on;
	// the follow-up read shows it exists, so the caller gets a transition error.
	mock.ExpectQuery("UPDATE payroll_cycles").
		WithArgs(CycleStatusVerification, "actor-1", "cycle-1", CycleStatusDraft).
		WillReturnRows(pgxmock.NewRows(cycleColumnNames()))
	mock.ExpectQuery("FROM payroll_cycles").
		WithArgs("cycle-1").
		WillReturnRows(cycleRows(now, CycleStatusPaid))

	_, err := store.TransitionCycle(context.Background(), "cycle-1", CycleStatusDraft, CycleStatusVerification, "actor-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsertPayslipPersistsCalculatedFields(t *testing.T) {
	store, mock := newMockStore(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)

	worker := WorkerPayData{WorkerID: "worker-1", HourlyRate: 25}
	result := Result{
		ApprovedHours:   90,
		GrossEarnings:   2375,
		FortnightlyPaye: 537.02,
		EmployeeSuper:   142.50,
		NetPay:          1695.48,
	}

	mock.ExpectQuery("INSERT INTO payslips").
		WithArgs("cycle-1", "worker-1", start, end,
			90.0, 25.0, 2375.0, 679.52, 1695.48, "officer-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("payslip-1"))

	id, err := store.InsertPayslip(context.Background(), "cycle-1", worker, start, end, result, "officer-1")
	require.NoError(t, err)
	require.Equal(t, "payslip-1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func cycleColumnNames() []string {
	return []string{
		"id", "period_start", "period_end", "status",
		"total_workers", "total_gross", "total_deductions", "total_net",
		"notes", "created_by",
		"verified_by", "verified_at",
		"approved_by", "approved_at",
		"paid_by", "paid_at",
		"created_at", "updated_at",
	}
}

func cycleRows(now time.Time, status string) *pgxmock.Rows {
	return pgxmock.NewRows(cycleColumnNames()).AddRow(
		"cycle-1", now, now.AddDate(0, 0, 13), status,
		0, 0.0, 0.0, 0.0,
		"", "",
		"", (*time.Time)(nil),
		"", (*time.Time)(nil),
		"", (*time.Time)(nil),
		now, now,
	)
}
