package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	StoreAPI

	cycle        Cycle
	workers      []WorkerPayData
	lines        map[string][]TimesheetLine
	lineErr      map[string]error
	payslips     []Payslip
	totals       CycleSummary
	transitioned []string
	markedPaid   bool
}

func (f *fakeStore) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	if f.cycle.ID == "" {
		return Cycle{}, ErrCycleNotFound
	}
	return f.cycle, nil
}

func (f *fakeStore) ListActiveWorkers(ctx context.Context) ([]WorkerPayData, error) {
	return f.workers, nil
}

func (f *fakeStore) TimesheetLines(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]TimesheetLine, error) {
	if err := f.lineErr[workerID]; err != nil {
		return nil, err
	}
	return f.lines[workerID], nil
}

func (f *fakeStore) DeletePayslipsForCycle(ctx context.Context, cycleID string) error {
	f.payslips = nil
	return nil
}

func (f *fakeStore) InsertPayslip(ctx context.Context, cycleID string, worker WorkerPayData, periodStart, periodEnd time.Time, result Result, generatedBy string) (string, error) {
	f.payslips = append(f.payslips, Payslip{
		CycleID:    cycleID,
		WorkerID:   worker.WorkerID,
		TotalHours: result.ApprovedHours,
		HourlyRate: worker.HourlyRate,
		GrossPay:   result.GrossEarnings,
		Deductions: result.Deductions(),
		NetPay:     result.NetPay,
	})
	return worker.WorkerID + "-slip", nil
}

func (f *fakeStore) UpdateCycleTotals(ctx context.Context, cycleID string, summary CycleSummary) error {
	f.totals = summary
	return nil
}

func (f *fakeStore) TransitionCycle(ctx context.Context, cycleID, fromStatus, toStatus, actorID string) (Cycle, error) {
	f.transitioned = append(f.transitioned, fromStatus+"->"+toStatus)
	f.cycle.Status = toStatus
	return f.cycle, nil
}

func (f *fakeStore) ListPayslipsForCycle(ctx context.Context, cycleID string) ([]Payslip, error) {
	return f.payslips, nil
}

func (f *fakeStore) MarkPayslipsPaid(ctx context.Context, cycleID string) error {
	f.markedPaid = true
	return nil
}

func boolPtr(v bool) *bool { return &v }

func testCycle(status string) Cycle {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Cycle{ID: "cycle-1", PeriodStart: start, PeriodEnd: start.AddDate(0, 0, 13), Status: status}
}

func TestRunCycleComputesAndPersists(t *testing.T) {
	store := &fakeStore{
		cycle: testCycle(CycleStatusDraft),
		workers: []WorkerPayData{
			{WorkerID: "w1", EmploymentType: EmploymentPermanent, HourlyRate: 25, Resident: boolPtr(true)},
			{WorkerID: "w2", EmploymentType: EmploymentTemporary, HourlyRate: 10, Resident: boolPtr(true)},
		},
		lines: map[string][]TimesheetLine{
			"w1": {{Status: "approved", TotalHours: 90}},
			"w2": {{Status: "approved", TotalHours: 40}},
		},
	}
	service := NewService(store, nil, nil, t.TempDir())

	_, err := service.RunCycle(context.Background(), "cycle-1", "officer-1")
	require.NoError(t, err)
	require.Len(t, store.payslips, 2)
	require.Equal(t, 2, store.totals.TotalWorkers)
	require.Equal(t, 2775.0, store.totals.TotalGross) // 2375 + 400
	require.Equal(t, store.totals.TotalGross-store.totals.TotalDeductions, store.totals.TotalNet)
}

func TestRunCycleSkipsFailedWorker(t *testing.T) {
	store := &fakeStore{
		cycle: testCycle(CycleStatusDraft),
		workers: []WorkerPayData{
			{WorkerID: "w1", EmploymentType: EmploymentTemporary, HourlyRate: 10},
			{WorkerID: "w2", EmploymentType: EmploymentTemporary, HourlyRate: 10},
		},
		lines:   map[string][]TimesheetLine{"w2": {{Status: "approved", TotalHours: 40}}},
		lineErr: map[string]error{"w1": errors.New("boom")},
	}
	service := NewService(store, nil, nil, t.TempDir())

	_, err := service.RunCycle(context.Background(), "cycle-1", "officer-1")
	require.NoError(t, err)
	require.Len(t, store.payslips, 1)
	require.Equal(t, 1, store.totals.Skipped)
	require.Equal(t, 1, store.totals.TotalWorkers)
}

func TestRunCycleDefaultsUnknownResidencyToResident(t *testing.T) {
	store := &fakeStore{
		cycle: testCycle(CycleStatusDraft),
		workers: []WorkerPayData{
			{WorkerID: "w1", EmploymentType: EmploymentTemporary, HourlyRate: 10, Resident: nil},
		},
		lines: map[string][]TimesheetLine{"w1": {{Status: "approved", TotalHours: 10}}},
	}
	service := NewService(store, nil, nil, t.TempDir())

	_, err := service.RunCycle(context.Background(), "cycle-1", "officer-1")
	require.NoError(t, err)
	require.Len(t, store.payslips, 1)
	// Gross 100 annualizes inside the resident tax-free band, so nothing is
	// withheld beyond super.
	require.Equal(t, 100.0, store.payslips[0].GrossPay)
	require.Equal(t, 6.0, store.payslips[0].Deductions)
}

func TestRunCycleRejectsFinalizedCycle(t *testing.T) {
	store := &fakeStore{cycle: testCycle(CycleStatusApproved)}
	service := NewService(store, nil, nil, t.TempDir())

	_, err := service.RunCycle(context.Background(), "cycle-1", "officer-1")
	require.ErrorIs(t, err, ErrCycleNotRunnable)
}

func TestTransitionFollowsChain(t *testing.T) {
	store := &fakeStore{cycle: testCycle(CycleStatusDraft)}
	service := NewService(store, nil, nil, t.TempDir())

	for _, next := range []string{
		CycleStatusVerification, CycleStatusPendingApproval, CycleStatusApproved, CycleStatusPaid,
	} {
		cycle, err := service.Transition(context.Background(), "cycle-1", next, "actor-1")
		require.NoError(t, err)
		require.Equal(t, next, cycle.Status)
	}
	require.True(t, store.markedPaid)
}

func TestTransitionRejectsSkippingStages(t *testing.T) {
	store := &fakeStore{cycle: testCycle(CycleStatusDraft)}
	service := NewService(store, nil, nil, t.TempDir())

	_, err := service.Transition(context.Background(), "cycle-1", CycleStatusPaid, "actor-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, store.transitioned)
}
