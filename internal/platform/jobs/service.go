package jobs

import (
	"context"
	"log/slog"
	"time"
)

type job struct {
	Type string
	Run  func(context.Context) error
}

// Service is a small in-process queue for work that should not hold up a
// request, payslip document rendering in particular.
type Service struct {
	queue chan job
}

func New() *Service {
	return &Service{queue: make(chan job, 128)}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue never blocks; when the queue is full the job is dropped with a
// warning, since everything queued here can be regenerated on demand.
func (s *Service) Enqueue(jobType string, run func(context.Context) error) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full, dropping job", "jobType", jobType)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			started := time.Now()
			if err := j.Run(ctx); err != nil {
				slog.Warn("job failed", "jobType", j.Type, "durationMs", time.Since(started).Milliseconds(), "err", err)
				continue
			}
			slog.Info("job done", "jobType", j.Type, "durationMs", time.Since(started).Milliseconds())
		}
	}
}
