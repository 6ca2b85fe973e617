package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

// Scheduler periodically reloads the measurement sources so refreshed data
// files (or remote exports) are picked up without a restart.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *solar.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *solar.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic reload job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		log.Println("scheduler: running measurement reload job")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.service.LoadAll(ctx); err != nil {
			log.Printf("scheduler: reload failed: %v", err)
			return
		}
		log.Println("scheduler: completed measurement reload job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
