// Package scheduler runs the periodic maintenance sweep: it surfaces
// preventive work orders whose scheduled date has passed without being
// picked up, and re-checks the inventory for pieces below threshold.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"gmao-backend/config"
	"gmao-backend/internal/notification"
	"gmao-backend/internal/store"
)

// Service owns the cron runner.
type Service struct {
	cfg   *config.Config
	store store.Store
	pool  *notification.WorkerPool
	cron  *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.Config, s store.Store, pool *notification.WorkerPool) *Service {
	return &Service{
		cfg:   cfg,
		store: s,
		pool:  pool,
		cron:  cron.New(),
	}
}

// Start registers the sweep and launches the cron runner. No-op when the
// scheduler is disabled.
func (s *Service) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		log.Println("Scheduler is disabled. Not starting.")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	log.Printf("Starting scheduler (%s)", s.cfg.Scheduler.CronSpec)
	s.cron.Start()
	return nil
}

// Stop halts the cron runner and waits for any running sweep.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep runs one pass. Exported so an operator endpoint or test can trigger
// it outside the cron schedule.
func (s *Service) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	overdue, err := s.store.ListOverdueScheduled(ctx, now)
	if err != nil {
		log.Printf("Sweep: listing overdue work orders: %v", err)
	} else {
		for _, wo := range overdue {
			log.Printf("Sweep: work order %d on machine %d is overdue (scheduled %s)",
				wo.ID, wo.MachineID, wo.ScheduledDate.Format(time.RFC3339))
		}
	}

	low, err := s.store.LowStockPieces(ctx)
	if err != nil {
		log.Printf("Sweep: listing low-stock pieces: %v", err)
		return
	}
	for _, p := range low {
		if s.pool != nil {
			s.pool.Dispatch(p.ID)
		}
	}
	if len(low) > 0 {
		log.Printf("Sweep: %d piece(s) at or below threshold", len(low))
	}
}
