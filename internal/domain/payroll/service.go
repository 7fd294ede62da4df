package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kaiaworks/internal/domain/notifications"
)

// Notifier delivers a user-facing notification; failures are the
// implementation's problem, payroll never blocks on them.
type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, body string) error
}

// Enqueuer hands slow work (payslip documents) to a background worker.
type Enqueuer interface {
	Enqueue(jobType string, run func(context.Context) error)
}

const JobPayslipPDF = "payslip_pdf"

// cycleTransitions is the only legal status chain.
var cycleTransitions = map[string]string{
	CycleStatusDraft:           CycleStatusVerification,
	CycleStatusVerification:    CycleStatusPendingApproval,
	CycleStatusPendingApproval: CycleStatusApproved,
	CycleStatusApproved:        CycleStatusPaid,
}

type Service struct {
	store      StoreAPI
	notifier   Notifier
	jobs       Enqueuer
	payslipDir string
}

func NewService(store StoreAPI, notifier Notifier, jobs Enqueuer, payslipDir string) *Service {
	return &Service{store: store, notifier: notifier, jobs: jobs, payslipDir: payslipDir}
}

func (s *Service) CreateCycle(ctx context.Context, periodStart, periodEnd time.Time, notes, actorID string) (Cycle, error) {
	return s.store.CreateCycle(ctx, periodStart, periodEnd, notes, actorID)
}

func (s *Service) ListCycles(ctx context.Context, limit, offset int) ([]Cycle, int, error) {
	total, err := s.store.CountCycles(ctx)
	if err != nil {
		return nil, 0, err
	}
	cycles, err := s.store.ListCycles(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return cycles, total, nil
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, cycleID)
}

// RunCycle computes a payslip for every active worker over the cycle's
// period. One worker failing is logged and skipped; the run carries on so
// the rest of the workforce still gets paid. Re-running replaces the
// cycle's payslips.
func (s *Service) RunCycle(ctx context.Context, cycleID, actorID string) (Cycle, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}
	if cycle.Status != CycleStatusDraft && cycle.Status != CycleStatusVerification {
		return Cycle{}, ErrCycleNotRunnable
	}

	workers, err := s.store.ListActiveWorkers(ctx)
	if err != nil {
		return Cycle{}, err
	}

	if err := s.store.DeletePayslipsForCycle(ctx, cycleID); err != nil {
		return Cycle{}, err
	}

	var summary CycleSummary
	for _, worker := range workers {
		lines, err := s.store.TimesheetLines(ctx, worker.WorkerID, cycle.PeriodStart, cycle.PeriodEnd)
		if err != nil {
			slog.Warn("payroll run: timesheet load failed", "workerId", worker.WorkerID, "err", err)
			summary.Skipped++
			continue
		}

		result := CalculateWorkerPayroll(WorkerProfile{
			ID:             worker.WorkerID,
			FullName:       worker.FullName,
			EmploymentType: worker.EmploymentType,
			HourlyRate:     worker.HourlyRate,
		}, lines, residentOrDefault(worker.Resident), worker.Allowance, worker.OtherDeduction)

		if _, err := s.store.InsertPayslip(ctx, cycleID, worker, cycle.PeriodStart, cycle.PeriodEnd, result, actorID); err != nil {
			slog.Warn("payroll run: payslip insert failed", "workerId", worker.WorkerID, "err", err)
			summary.Skipped++
			continue
		}

		summary.TotalWorkers++
		summary.TotalGross += result.GrossEarnings
		summary.TotalDeductions += result.Deductions()
		summary.TotalNet += result.NetPay
	}

	summary.TotalGross = round2(summary.TotalGross)
	summary.TotalDeductions = round2(summary.TotalDeductions)
	summary.TotalNet = round2(summary.TotalNet)

	if err := s.store.UpdateCycleTotals(ctx, cycleID, summary); err != nil {
		return Cycle{}, err
	}
	return s.store.GetCycle(ctx, cycleID)
}

// residentOrDefault applies the bulk-run policy for workers whose residency
// was never recorded: treat them as resident. The calculator itself always
// receives an explicit value.
func residentOrDefault(resident *bool) bool {
	if resident == nil {
		return true
	}
	return *resident
}

// Transition advances a cycle one step along
// draft -> verification -> pending_approval -> approved -> paid.
func (s *Service) Transition(ctx context.Context, cycleID, toStatus, actorID string) (Cycle, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}
	if cycleTransitions[cycle.Status] != toStatus {
		return Cycle{}, ErrInvalidTransition
	}

	updated, err := s.store.TransitionCycle(ctx, cycleID, cycle.Status, toStatus, actorID)
	if err != nil {
		return Cycle{}, err
	}

	switch toStatus {
	case CycleStatusApproved:
		s.enqueuePayslipDocuments(ctx, cycleID)
	case CycleStatusPaid:
		if err := s.store.MarkPayslipsPaid(ctx, cycleID); err != nil {
			return Cycle{}, err
		}
		s.notifyPayslipsPublished(ctx, cycleID)
	}

	if s.notifier != nil && updated.CreatedBy != "" && updated.CreatedBy != actorID {
		title := "Payroll cycle " + toStatus
		body := fmt.Sprintf("Cycle %s to %s is now %s",
			updated.PeriodStart.Format("2006-01-02"), updated.PeriodEnd.Format("2006-01-02"), toStatus)
		if err := s.notifier.Notify(ctx, updated.CreatedBy, notifications.TypeCycleStatusChanged, title, body); err != nil {
			slog.Warn("cycle status notification failed", "cycleId", cycleID, "err", err)
		}
	}
	return updated, nil
}

// Preview computes one worker's breakdown for a date range without
// persisting anything.
func (s *Service) Preview(ctx context.Context, workerID string, periodStart, periodEnd time.Time, allowances, otherDeductions float64) (Result, error) {
	worker, err := s.store.WorkerPayData(ctx, workerID)
	if err != nil {
		return Result{}, err
	}
	lines, err := s.store.TimesheetLines(ctx, workerID, periodStart, periodEnd)
	if err != nil {
		return Result{}, err
	}
	return CalculateWorkerPayroll(WorkerProfile{
		ID:             worker.WorkerID,
		FullName:       worker.FullName,
		EmploymentType: worker.EmploymentType,
		HourlyRate:     worker.HourlyRate,
	}, lines, residentOrDefault(worker.Resident), allowances, otherDeductions), nil
}

func (s *Service) ListCyclePayslips(ctx context.Context, cycleID string) ([]Payslip, error) {
	if _, err := s.store.GetCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.store.ListPayslipsForCycle(ctx, cycleID)
}

func (s *Service) ListWorkerPayslips(ctx context.Context, workerID string, limit, offset int) ([]Payslip, int, error) {
	total, err := s.store.CountPayslipsForWorker(ctx, workerID)
	if err != nil {
		return nil, 0, err
	}
	slips, err := s.store.ListPayslipsForWorker(ctx, workerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return slips, total, nil
}

func (s *Service) GetPayslip(ctx context.Context, payslipID string) (Payslip, error) {
	return s.store.GetPayslip(ctx, payslipID)
}

// enqueuePayslipDocuments schedules PDF rendering for every payslip in the
// cycle. Document generation is best effort: a failed render is logged and
// the payroll result stands.
func (s *Service) enqueuePayslipDocuments(ctx context.Context, cycleID string) {
	slips, err := s.store.ListPayslipsForCycle(ctx, cycleID)
	if err != nil {
		slog.Warn("payslip document scheduling failed", "cycleId", cycleID, "err", err)
		return
	}
	for _, slip := range slips {
		slip := slip
		run := func(jobCtx context.Context) error {
			_, err := s.GeneratePayslipPDF(jobCtx, slip.ID)
			return err
		}
		if s.jobs != nil {
			s.jobs.Enqueue(JobPayslipPDF, run)
			continue
		}
		if err := run(ctx); err != nil {
			slog.Warn("payslip document generation failed", "payslipId", slip.ID, "err", err)
		}
	}
}

func (s *Service) notifyPayslipsPublished(ctx context.Context, cycleID string) {
	if s.notifier == nil {
		return
	}
	slips, err := s.store.ListPayslipsForCycle(ctx, cycleID)
	if err != nil {
		slog.Warn("payslip notification lookup failed", "cycleId", cycleID, "err", err)
		return
	}
	for _, slip := range slips {
		title := "Payslip available"
		body := fmt.Sprintf("Your payslip for %s to %s has been paid. Net pay: K %.2f",
			slip.PeriodStart.Format("2006-01-02"), slip.PeriodEnd.Format("2006-01-02"), slip.NetPay)
		if err := s.notifier.Notify(ctx, slip.WorkerID, notifications.TypePayslipPublished, title, body); err != nil {
			slog.Warn("payslip notification failed", "workerId", slip.WorkerID, "err", err)
		}
	}
}
