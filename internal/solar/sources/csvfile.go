package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

// FileSource loads one country's measurements from a CSV file on disk.
type FileSource struct {
	country string
	path    string
}

// NewFileSource creates a source reading the given CSV path for a country.
func NewFileSource(country, path string) *FileSource {
	return &FileSource{country: country, path: path}
}

func (s *FileSource) Name() string {
	return "file:" + filepath.Base(s.path)
}

func (s *FileSource) Country() string {
	return s.country
}

// Load reads and parses the whole file. Context cancellation is honoured
// between open and parse; the parse itself is one in-memory pass.
func (s *FileSource) Load(ctx context.Context) ([]solar.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	measurements, err := parseCSV(f, s.country)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return measurements, nil
}
