package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateCycle(ctx context.Context, periodStart, periodEnd time.Time, notes, createdBy string) (Cycle, error)
	CountCycles(ctx context.Context) (int, error)
	ListCycles(ctx context.Context, limit, offset int) ([]Cycle, error)
	GetCycle(ctx context.Context, cycleID string) (Cycle, error)
	TransitionCycle(ctx context.Context, cycleID, fromStatus, toStatus, actorID string) (Cycle, error)
	UpdateCycleTotals(ctx context.Context, cycleID string, summary CycleSummary) error

	ListActiveWorkers(ctx context.Context) ([]WorkerPayData, error)
	WorkerPayData(ctx context.Context, workerID string) (WorkerPayData, error)
	TimesheetLines(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]TimesheetLine, error)

	DeletePayslipsForCycle(ctx context.Context, cycleID string) error
	InsertPayslip(ctx context.Context, cycleID string, worker WorkerPayData, periodStart, periodEnd time.Time, result Result, generatedBy string) (string, error)
	ListPayslipsForCycle(ctx context.Context, cycleID string) ([]Payslip, error)
	CountPayslipsForWorker(ctx context.Context, workerID string) (int, error)
	ListPayslipsForWorker(ctx context.Context, workerID string, limit, offset int) ([]Payslip, error)
	GetPayslip(ctx context.Context, payslipID string) (Payslip, error)
	MarkPayslipsPaid(ctx context.Context, cycleID string) error
	UpdatePayslipFile(ctx context.Context, payslipID, filePath string) error
}
