package solar

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moonlight-energy/solar-dashboard/internal/metrics"
)

// SummaryCache shares computed summaries between replicas. Implementations
// must treat misses and backend errors as non-fatal; the service always falls
// back to a local recompute.
type SummaryCache interface {
	Put(ctx context.Context, summaries map[string]CountrySummary) error
	Get(ctx context.Context) (map[string]CountrySummary, bool, error)
	Invalidate(ctx context.Context) error
}

// Service orchestrates loading measurement sources into the store and serves
// the derived views (summaries, rankings, observations, insights).
type Service struct {
	store   Store
	sources []Source
	cache   SummaryCache     // optional shared cache, may be nil
	metrics *metrics.Metrics // optional instrumentation, may be nil

	mu        sync.RWMutex
	summaries map[string]CountrySummary // nil when stale
}

// NewService creates a new Service. cache and m may be nil.
func NewService(store Store, sources []Source, cache SummaryCache, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		sources: sources,
		cache:   cache,
		metrics: m,
	}
}

// LoadAll loads every configured source concurrently and installs the
// resulting datasets. A failed source is logged and skipped so one bad file
// never clobbers the last good dataset for its country. The error is non-nil
// only when every source failed.
func (s *Service) LoadAll(ctx context.Context) error {
	if len(s.sources) == 0 {
		return fmt.Errorf("no measurement sources configured")
	}

	runID := uuid.NewString()
	log.Printf("load run %s: loading %d sources", runID, len(s.sources))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		loaded int
	)

	for _, src := range s.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			measurements, err := src.Load(ctx)
			if s.metrics != nil {
				s.metrics.SourceLoadSeconds.Observe(time.Since(start).Seconds())
			}
			if err != nil {
				// Log and continue; we want partial success when possible.
				log.Printf("load run %s: source %s failed: %v", runID, src.Name(), err)
				if s.metrics != nil {
					s.metrics.LoadErrorsTotal.WithLabelValues(src.Name()).Inc()
				}
				return
			}

			s.store.ReplaceDataset(src.Country(), measurements)
			if s.metrics != nil {
				s.metrics.RowsLoadedTotal.WithLabelValues(src.Country()).Add(float64(len(measurements)))
				s.metrics.DatasetRows.WithLabelValues(src.Country()).Set(float64(len(measurements)))
			}
			log.Printf("load run %s: source %s loaded %d rows", runID, src.Name(), len(measurements))

			mu.Lock()
			loaded++
			mu.Unlock()
		}()
	}

	wg.Wait()

	if loaded == 0 {
		return fmt.Errorf("all %d sources failed to load", len(s.sources))
	}

	// Summaries are derived state; drop them so the next read recomputes
	// from the new datasets in full.
	s.mu.Lock()
	s.summaries = nil
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("load run %s: summary cache invalidation failed: %v", runID, err)
		}
	}

	return nil
}

// Summaries returns the per-country summaries, recomputing them from the
// current measurement set when stale. The shared cache, when configured, is
// consulted first and refreshed after a recompute.
func (s *Service) Summaries(ctx context.Context) (map[string]CountrySummary, error) {
	s.mu.RLock()
	cached := s.summaries
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if s.cache != nil {
		if summaries, found, err := s.cache.Get(ctx); err != nil {
			log.Printf("summary cache read failed, recomputing: %v", err)
		} else if found {
			s.mu.Lock()
			s.summaries = summaries
			s.mu.Unlock()
			return summaries, nil
		}
	}

	all := s.store.All()
	if len(all) == 0 {
		return nil, fmt.Errorf("no measurements loaded")
	}

	start := time.Now()
	summaries := Summarize(all)
	if s.metrics != nil {
		s.metrics.SummaryComputeSeconds.Observe(time.Since(start).Seconds())
	}

	s.mu.Lock()
	s.summaries = summaries
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Put(ctx, summaries); err != nil {
			log.Printf("summary cache write failed: %v", err)
		}
	}

	return summaries, nil
}

// Rankings orders countries descending by mean of the given metric.
func (s *Service) Rankings(ctx context.Context, metric Metric) ([]RankedCountry, error) {
	summaries, err := s.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(summaries, metric), nil
}

// Observations derives the cross-country observations.
func (s *Service) Observations(ctx context.Context) (Observations, error) {
	summaries, err := s.Summaries(ctx)
	if err != nil {
		return Observations{}, err
	}
	return BuildObservations(summaries), nil
}

// CountryInsights computes the digest for one country.
func (s *Service) CountryInsights(country string) (Insights, error) {
	measurements, err := s.store.Dataset(country)
	if err != nil {
		return Insights{}, err
	}
	return BuildInsights(country, measurements), nil
}

// Overview summarizes the whole loaded dataset.
func (s *Service) Overview() Overview {
	return BuildOverview(s.store.All())
}

// Countries lists the countries with loaded data.
func (s *Service) Countries() []string {
	return s.store.Countries()
}

// Dataset returns a country's full measurement set.
func (s *Service) Dataset(country string) ([]Measurement, error) {
	return s.store.Dataset(country)
}

// MeasurementRange returns a country's measurements between from and to.
func (s *Service) MeasurementRange(country string, from, to time.Time) ([]Measurement, error) {
	return s.store.Range(country, from, to)
}

// All returns every loaded measurement.
func (s *Service) All() []Measurement {
	return s.store.All()
}
