package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
	"github.com/moonlight-energy/solar-dashboard/internal/store"
)

type signalSource struct {
	loaded chan struct{}
}

func (s *signalSource) Name() string    { return "signal:Benin" }
func (s *signalSource) Country() string { return "Benin" }

func (s *signalSource) Load(ctx context.Context) ([]solar.Measurement, error) {
	select {
	case s.loaded <- struct{}{}:
	default:
	}
	return []solar.Measurement{{
		Country:   "Benin",
		Timestamp: time.Date(2021, 8, 9, 10, 0, 0, 0, time.UTC),
		GHI:       240,
	}}, nil
}

func TestSchedulerRunsSubMinuteIntervals(t *testing.T) {
	src := &signalSource{loaded: make(chan struct{}, 1)}
	svc := solar.NewService(store.NewMemoryStore(), []solar.Source{src}, nil, nil)

	s := New(50*time.Millisecond, svc)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-src.loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload job never ran with a sub-minute interval")
	}
}

func TestSchedulerDefaultsZeroInterval(t *testing.T) {
	svc := solar.NewService(store.NewMemoryStore(), []solar.Source{
		&signalSource{loaded: make(chan struct{}, 1)},
	}, nil, nil)

	s := New(0, svc)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if got := s.scheduler.Len(); got != 1 {
		t.Fatalf("scheduled jobs = %d, want 1", got)
	}
}
