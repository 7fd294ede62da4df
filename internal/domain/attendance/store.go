package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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

const timesheetColumns = `
    t.id, t.worker_id, COALESCE(w.full_name, ''), COALESCE(t.supervisor_id::text, ''),
    t.date, t.clock_in, COALESCE(t.clock_out, ''), t.total_hours,
    COALESCE(t.task_description, ''), t.status, COALESCE(t.notes, ''),
    COALESCE(t.approved_by::text, ''), t.approved_at, t.created_at`

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var sheet Timesheet
	err := row.Scan(
		&sheet.ID, &sheet.WorkerID, &sheet.WorkerName, &sheet.SupervisorID,
		&sheet.Date, &sheet.ClockIn, &sheet.ClockOut, &sheet.TotalHours,
		&sheet.TaskDescription, &sheet.Status, &sheet.Notes,
		&sheet.ApprovedBy, &sheet.ApprovedAt, &sheet.CreatedAt,
	)
	return sheet, err
}

func (s *Store) HasOpen(ctx context.Context, workerID string, date time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM timesheets
    WHERE worker_id = $1 AND date = $2 AND clock_out IS NULL
  `, workerID, date).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Insert(ctx context.Context, workerID, supervisorID string, date time.Time, clockIn, taskDescription string) (Timesheet, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (worker_id, supervisor_id, date, clock_in, task_description, status)
    VALUES ($1, NULLIF($2, '')::uuid, $3, $4, NULLIF($5, ''), 'pending')
    RETURNING id
  `, workerID, supervisorID, date, clockIn, taskDescription).Scan(&id)
	if err != nil {
		return Timesheet{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, timesheetID string) (Timesheet, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+timesheetColumns+`
    FROM timesheets t
    JOIN profiles w ON w.id = t.worker_id
    WHERE t.id = $1
  `, timesheetID)
	sheet, err := scanTimesheet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrTimesheetNotFound
	}
	return sheet, err
}

func (s *Store) SetClockOut(ctx context.Context, timesheetID, clockOut string, totalHours float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET clock_out = $1, total_hours = $2
    WHERE id = $3
  `, clockOut, totalHours, timesheetID)
	return err
}

func (s *Store) SetReview(ctx context.Context, timesheetID, status, notes, reviewerID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $1, notes = NULLIF($2, ''), approved_by = $3::uuid, approved_at = now()
    WHERE id = $4
  `, status, notes, reviewerID, timesheetID)
	return err
}

func (s *Store) CountForWorker(ctx context.Context, workerID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM timesheets WHERE worker_id = $1", workerID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListForWorker(ctx context.Context, workerID string, limit, offset int) ([]Timesheet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+timesheetColumns+`
    FROM timesheets t
    JOIN profiles w ON w.id = t.worker_id
    WHERE t.worker_id = $1
    ORDER BY t.date DESC, t.created_at DESC
    LIMIT $2 OFFSET $3
  `, workerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTimesheets(rows)
}

// ListForSupervisor returns the pending-first review queue for a
// supervisor's team.
func (s *Store) ListForSupervisor(ctx context.Context, supervisorID string, limit, offset int) ([]Timesheet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+timesheetColumns+`
    FROM timesheets t
    JOIN profiles w ON w.id = t.worker_id
    WHERE w.supervisor_id = $1::uuid OR t.supervisor_id = $1::uuid
    ORDER BY (t.status = 'pending') DESC, t.date DESC
    LIMIT $2 OFFSET $3
  `, supervisorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTimesheets(rows)
}

func collectTimesheets(rows pgx.Rows) ([]Timesheet, error) {
	var sheets []Timesheet
	for rows.Next() {
		sheet, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, rows.Err()
}
