package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

var (
	// ErrNotFound is returned when no measurements are loaded for a country.
	ErrNotFound = errors.New("no measurements for country")
)

// MemoryStore is a concurrency-safe in-memory measurement store. Each country
// holds one dataset slice; ReplaceDataset swaps it wholesale, so readers that
// already hold a slice keep a consistent view and stored measurements are
// never mutated.
type MemoryStore struct {
	mu sync.RWMutex

	// key: country, value: time-ordered measurements
	data map[string][]solar.Measurement
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]solar.Measurement),
	}
}

// ReplaceDataset installs a new dataset for a country, replacing any previous
// one. The measurements are sorted by timestamp; the caller must not modify
// the slice afterwards.
func (s *MemoryStore) ReplaceDataset(country string, measurements []solar.Measurement) {
	sorted := make([]solar.Measurement, len(measurements))
	copy(sorted, measurements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[country] = sorted
}

// Dataset returns the current measurements for a country.
func (s *MemoryStore) Dataset(country string) ([]solar.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	measurements, ok := s.data[country]
	if !ok || len(measurements) == 0 {
		return nil, ErrNotFound
	}
	return measurements, nil
}

// All returns every loaded measurement across countries, ordered by country
// name then timestamp.
func (s *MemoryStore) All() []solar.Measurement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	countries := make([]string, 0, len(s.data))
	for country := range s.data {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	var all []solar.Measurement
	for _, country := range countries {
		all = append(all, s.data[country]...)
	}
	return all
}

// Countries returns the countries with a loaded dataset, sorted by name.
func (s *MemoryStore) Countries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	countries := make([]string, 0, len(s.data))
	for country, measurements := range s.data {
		if len(measurements) > 0 {
			countries = append(countries, country)
		}
	}
	sort.Strings(countries)
	return countries
}

// Range returns a country's measurements between from and to (inclusive).
func (s *MemoryStore) Range(country string, from, to time.Time) ([]solar.Measurement, error) {
	measurements, err := s.Dataset(country)
	if err != nil {
		return nil, err
	}

	var result []solar.Measurement
	for _, m := range measurements {
		if (m.Timestamp.Equal(from) || m.Timestamp.After(from)) &&
			(m.Timestamp.Equal(to) || m.Timestamp.Before(to)) {
			result = append(result, m)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
