package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/moonlight-energy/solar-dashboard/internal/common"
	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

var (
	// ErrMalformedRow marks a row that could not be parsed (wrong column
	// count, bad number, bad timestamp). The whole load aborts.
	ErrMalformedRow = errors.New("malformed row")
	// ErrOutOfRange marks a parsed value outside its physically plausible
	// range (e.g. negative irradiance). The whole load aborts; values are
	// never auto-corrected.
	ErrOutOfRange = errors.New("value out of range")
	// ErrMissingColumn marks a header without one of the required columns.
	ErrMissingColumn = errors.New("missing column")
)

var validate = validator.New()

// rowValues carries one parsed row through range validation. Irradiance may
// not be negative and is capped at 1600 W/m² (above any terrestrial reading);
// ambient temperature must fall in [-50, 60] °C.
type rowValues struct {
	GHI  float64 `validate:"gte=0,lte=1600"`
	DNI  float64 `validate:"gte=0,lte=1600"`
	DHI  float64 `validate:"gte=0,lte=1600"`
	Tamb float64 `validate:"gte=-50,lte=60"`
}

// requiredColumns are the header names the station CSVs must carry; extra
// columns (module temperatures, humidity, wind) are ignored.
var requiredColumns = []string{"Timestamp", "GHI", "DNI", "DHI", "Tamb"}

// timestampLayouts are tried in order when parsing the Timestamp column.
var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseCSV reads station measurements for one country from r. The first row
// must be a header naming at least the required columns; column order and
// extra columns do not matter.
func parseCSV(r io.Reader, country string) ([]solar.Measurement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // station exports vary in column count
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedRow, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[common.NormalizeHeader(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var measurements []solar.Measurement
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}

		m, err := parseRecord(record, cols, country)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		measurements = append(measurements, m)
	}

	return measurements, nil
}

func parseRecord(record []string, cols map[string]int, country string) (solar.Measurement, error) {
	field := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(record) {
			return "", fmt.Errorf("%w: too few fields", ErrMalformedRow)
		}
		return record[idx], nil
	}

	tsRaw, err := field("Timestamp")
	if err != nil {
		return solar.Measurement{}, err
	}
	ts, err := parseTimestamp(tsRaw)
	if err != nil {
		return solar.Measurement{}, err
	}

	var row rowValues
	for _, col := range []struct {
		name string
		dst  *float64
	}{
		{"GHI", &row.GHI},
		{"DNI", &row.DNI},
		{"DHI", &row.DHI},
		{"Tamb", &row.Tamb},
	} {
		raw, err := field(col.name)
		if err != nil {
			return solar.Measurement{}, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return solar.Measurement{}, fmt.Errorf("%w: %s=%q", ErrMalformedRow, col.name, raw)
		}
		*col.dst = v
	}

	if err := validate.Struct(row); err != nil {
		return solar.Measurement{}, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}

	return solar.Measurement{
		Country:   country,
		Timestamp: ts,
		GHI:       row.GHI,
		DNI:       row.DNI,
		DHI:       row.DHI,
		Tamb:      row.Tamb,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrMalformedRow, s)
}
