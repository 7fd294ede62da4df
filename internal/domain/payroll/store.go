package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the slice of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB Querier
}

func NewStore(db Querier) *Store {
	return &Store{DB: db}
}

const cycleColumns = `
    id, period_start, period_end, status,
    total_workers, total_gross, total_deductions, total_net,
    COALESCE(notes, ''),
    COALESCE(created_by::text, ''),
    COALESCE(verified_by::text, ''), verified_at,
    COALESCE(approved_by::text, ''), approved_at,
    COALESCE(paid_by::text, ''), paid_at,
    created_at, updated_at`

func scanCycle(row pgx.Row) (Cycle, error) {
	var cycle Cycle
	err := row.Scan(
		&cycle.ID, &cycle.PeriodStart, &cycle.PeriodEnd, &cycle.Status,
		&cycle.TotalWorkers, &cycle.TotalGross, &cycle.TotalDeductions, &cycle.TotalNet,
		&cycle.Notes,
		&cycle.CreatedBy,
		&cycle.VerifiedBy, &cycle.VerifiedAt,
		&cycle.ApprovedBy, &cycle.ApprovedAt,
		&cycle.PaidBy, &cycle.PaidAt,
		&cycle.CreatedAt, &cycle.UpdatedAt,
	)
	return cycle, err
}

func (s *Store) CreateCycle(ctx context.Context, periodStart, periodEnd time.Time, notes, createdBy string) (Cycle, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_cycles (period_start, period_end, status, notes, created_by)
    VALUES ($1, $2, 'draft', NULLIF($3, ''), NULLIF($4, '')::uuid)
    RETURNING`+cycleColumns, periodStart, periodEnd, notes, createdBy)
	return scanCycle(row)
}

func (s *Store) CountCycles(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_cycles").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListCycles(ctx context.Context, limit, offset int) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+cycleColumns+`
    FROM payroll_cycles
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+cycleColumns+`
    FROM payroll_cycles
    WHERE id = $1
  `, cycleID)
	cycle, err := scanCycle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, ErrCycleNotFound
	}
	return cycle, err
}

// TransitionCycle moves a cycle from one status to the next, stamping the
// acting user on the stage that needs it. The WHERE clause on the expected
// status makes concurrent or replayed transitions fail cleanly.
func (s *Store) TransitionCycle(ctx context.Context, cycleID, fromStatus, toStatus, actorID string) (Cycle, error) {
	set := "status = $1, updated_at = now()"
	args := []any{toStatus}
	switch toStatus {
	case CycleStatusVerification:
		set += fmt.Sprintf(", verified_by = $%d::uuid, verified_at = now()", len(args)+1)
		args = append(args, actorID)
	case CycleStatusApproved:
		set += fmt.Sprintf(", approved_by = $%d::uuid, approved_at = now()", len(args)+1)
		args = append(args, actorID)
	case CycleStatusPaid:
		set += fmt.Sprintf(", paid_by = $%d::uuid, paid_at = now()", len(args)+1)
		args = append(args, actorID)
	}
	query := fmt.Sprintf(`
    UPDATE payroll_cycles
    SET %s
    WHERE id = $%d AND status = $%d
    RETURNING%s`, set, len(args)+1, len(args)+2, cycleColumns)
	args = append(args, cycleID, fromStatus)

	cycle, err := scanCycle(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetCycle(ctx, cycleID); getErr != nil {
			return Cycle{}, getErr
		}
		return Cycle{}, ErrInvalidTransition
	}
	return cycle, err
}

func (s *Store) UpdateCycleTotals(ctx context.Context, cycleID string, summary CycleSummary) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_cycles
    SET total_workers = $1, total_gross = $2, total_deductions = $3, total_net = $4, updated_at = now()
    WHERE id = $5
  `, summary.TotalWorkers, summary.TotalGross, summary.TotalDeductions, summary.TotalNet, cycleID)
	return err
}

const workerPayColumns = `
    id, COALESCE(full_name, ''), COALESCE(employment_type, 'permanent'),
    COALESCE(hourly_rate, 0), is_resident,
    COALESCE(fortnightly_allowance, 0), COALESCE(fortnightly_deduction, 0)`

func scanWorkerPayData(row pgx.Row) (WorkerPayData, error) {
	var worker WorkerPayData
	err := row.Scan(
		&worker.WorkerID, &worker.FullName, &worker.EmploymentType,
		&worker.HourlyRate, &worker.Resident,
		&worker.Allowance, &worker.OtherDeduction,
	)
	return worker, err
}

func (s *Store) ListActiveWorkers(ctx context.Context) ([]WorkerPayData, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+workerPayColumns+`
    FROM profiles
    WHERE is_active AND role = 'worker'
    ORDER BY full_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []WorkerPayData
	for rows.Next() {
		worker, err := scanWorkerPayData(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}
	return workers, rows.Err()
}

func (s *Store) WorkerPayData(ctx context.Context, workerID string) (WorkerPayData, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+workerPayColumns+`
    FROM profiles
    WHERE id = $1
  `, workerID)
	return scanWorkerPayData(row)
}

func (s *Store) TimesheetLines(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]TimesheetLine, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COALESCE(total_hours, 0)
    FROM timesheets
    WHERE worker_id = $1 AND date >= $2 AND date <= $3
  `, workerID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []TimesheetLine
	for rows.Next() {
		var line TimesheetLine
		if err := rows.Scan(&line.Status, &line.TotalHours); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) DeletePayslipsForCycle(ctx context.Context, cycleID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM payslips WHERE cycle_id = $1", cycleID)
	return err
}

func (s *Store) InsertPayslip(ctx context.Context, cycleID string, worker WorkerPayData, periodStart, periodEnd time.Time, result Result, generatedBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (cycle_id, worker_id, period_start, period_end,
                          total_hours, hourly_rate, gross_pay, deductions, net_pay,
                          status, generated_by)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'draft', NULLIF($10, '')::uuid)
    RETURNING id
  `, cycleID, worker.WorkerID, periodStart, periodEnd,
		result.ApprovedHours, worker.HourlyRate, result.GrossEarnings, result.Deductions(), result.NetPay,
		generatedBy).Scan(&id)
	return id, err
}

const payslipColumns = `
    p.id, p.cycle_id, p.worker_id, COALESCE(w.full_name, ''),
    p.period_start, p.period_end,
    p.total_hours, p.hourly_rate, p.gross_pay, p.deductions, p.net_pay,
    p.status, COALESCE(p.generated_by::text, ''), COALESCE(p.file_path, ''),
    p.created_at`

func scanPayslip(row pgx.Row) (Payslip, error) {
	var slip Payslip
	err := row.Scan(
		&slip.ID, &slip.CycleID, &slip.WorkerID, &slip.WorkerName,
		&slip.PeriodStart, &slip.PeriodEnd,
		&slip.TotalHours, &slip.HourlyRate, &slip.GrossPay, &slip.Deductions, &slip.NetPay,
		&slip.Status, &slip.GeneratedBy, &slip.FilePath,
		&slip.CreatedAt,
	)
	return slip, err
}

func (s *Store) ListPayslipsForCycle(ctx context.Context, cycleID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips p
    JOIN profiles w ON w.id = p.worker_id
    WHERE p.cycle_id = $1
    ORDER BY w.full_name
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}

func (s *Store) CountPayslipsForWorker(ctx context.Context, workerID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payslips WHERE worker_id = $1", workerID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListPayslipsForWorker(ctx context.Context, workerID string, limit, offset int) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips p
    JOIN profiles w ON w.id = p.worker_id
    WHERE p.worker_id = $1
    ORDER BY p.period_start DESC
    LIMIT $2 OFFSET $3
  `, workerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}

func (s *Store) GetPayslip(ctx context.Context, payslipID string) (Payslip, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips p
    JOIN profiles w ON w.id = p.worker_id
    WHERE p.id = $1
  `, payslipID)
	slip, err := scanPayslip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	return slip, err
}

func (s *Store) MarkPayslipsPaid(ctx context.Context, cycleID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payslips SET status = 'paid' WHERE cycle_id = $1", cycleID)
	return err
}

func (s *Store) UpdatePayslipFile(ctx context.Context, payslipID, filePath string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payslips
    SET file_path = $1,
        status = CASE WHEN status = 'draft' THEN 'generated' ELSE status END
    WHERE id = $2
  `, filePath, payslipID)
	return err
}
