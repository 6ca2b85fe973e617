package solar

import (
	"context"
	"time"
)

// Source abstracts one country's measurement feed (e.g. a local CSV file or
// a CSV published over HTTP).
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Country is the country this source feeds.
	Country() string
	// Load reads the full measurement set. A malformed or out-of-range row
	// aborts the load for this source; partially loaded data is discarded.
	Load(ctx context.Context) ([]Measurement, error)
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy. Datasets are replaced wholesale; stored measurements are
// never mutated.
type Store interface {
	ReplaceDataset(country string, measurements []Measurement)
	Dataset(country string) ([]Measurement, error)
	All() []Measurement
	Countries() []string
	Range(country string, from, to time.Time) ([]Measurement, error)
}
