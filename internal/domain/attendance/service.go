package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kaiaworks/internal/domain/notifications"
)

// Notifier mirrors the payroll-side interface so both domains can share one
// notifications service.
type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, body string) error
}

type Service struct {
	store    *Store
	notifier Notifier
	now      func() time.Time
}

func NewService(store *Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// ClockIn opens a pending timesheet for today. A second clock-in while one
// is still open is rejected; a closed entry earlier the same day does not
// block a new shift.
func (s *Service) ClockIn(ctx context.Context, workerID, supervisorID, taskDescription string) (Timesheet, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	open, err := s.store.HasOpen(ctx, workerID, today)
	if err != nil {
		return Timesheet{}, err
	}
	if open {
		return Timesheet{}, ErrAlreadyClockedIn
	}

	sheet, err := s.store.Insert(ctx, workerID, supervisorID, today, now.Format("15:04:05"), taskDescription)
	if err != nil {
		return Timesheet{}, err
	}

	if s.notifier != nil && supervisorID != "" {
		title := "Timesheet submitted"
		body := fmt.Sprintf("%s clocked in on %s", sheet.WorkerName, today.Format("2006-01-02"))
		if err := s.notifier.Notify(ctx, supervisorID, notifications.TypeTimesheetSubmitted, title, body); err != nil {
			slog.Warn("clock-in notification failed", "supervisorId", supervisorID, "err", err)
		}
	}
	return sheet, nil
}

func (s *Service) ClockOut(ctx context.Context, timesheetID, workerID string) (Timesheet, error) {
	sheet, err := s.store.Get(ctx, timesheetID)
	if err != nil {
		return Timesheet{}, err
	}
	if sheet.WorkerID != workerID {
		return Timesheet{}, ErrTimesheetNotFound
	}
	if sheet.ClockOut != "" {
		return Timesheet{}, ErrNotOpen
	}

	clockOut := s.now().Format("15:04:05")
	hours, err := ShiftHours(sheet.ClockIn, clockOut)
	if err != nil {
		return Timesheet{}, err
	}
	if err := s.store.SetClockOut(ctx, timesheetID, clockOut, hours); err != nil {
		return Timesheet{}, err
	}
	return s.store.Get(ctx, timesheetID)
}

// Review records a supervisor's approve/reject decision. Reviewed
// timesheets are immutable.
func (s *Service) Review(ctx context.Context, timesheetID, status, notes, reviewerID string) (Timesheet, error) {
	sheet, err := s.store.Get(ctx, timesheetID)
	if err != nil {
		return Timesheet{}, err
	}
	if !CanReview(sheet.Status) {
		return Timesheet{}, ErrAlreadyReviewed
	}
	if err := s.store.SetReview(ctx, timesheetID, status, notes, reviewerID); err != nil {
		return Timesheet{}, err
	}

	if s.notifier != nil {
		ntype := notifications.TypeTimesheetApproved
		if status == StatusRejected {
			ntype = notifications.TypeTimesheetRejected
		}
		title := "Timesheet " + status
		body := fmt.Sprintf("Your timesheet for %s was %s", sheet.Date.Format("2006-01-02"), status)
		if err := s.notifier.Notify(ctx, sheet.WorkerID, ntype, title, body); err != nil {
			slog.Warn("review notification failed", "workerId", sheet.WorkerID, "err", err)
		}
	}
	return s.store.Get(ctx, timesheetID)
}

func (s *Service) ListForWorker(ctx context.Context, workerID string, limit, offset int) ([]Timesheet, int, error) {
	total, err := s.store.CountForWorker(ctx, workerID)
	if err != nil {
		return nil, 0, err
	}
	sheets, err := s.store.ListForWorker(ctx, workerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return sheets, total, nil
}

func (s *Service) ListForSupervisor(ctx context.Context, supervisorID string, limit, offset int) ([]Timesheet, error) {
	return s.store.ListForSupervisor(ctx, supervisorID, limit, offset)
}
