package common

import "strings"

// canonicalHeaders maps lowercased station CSV column names to the spelling
// the rest of the code keys on. Exports from different station loggers vary
// in casing and sometimes carry a BOM on the first column.
var canonicalHeaders = map[string]string{
	"timestamp": "Timestamp",
	"ghi":       "GHI",
	"dni":       "DNI",
	"dhi":       "DHI",
	"tamb":      "Tamb",
}

// NormalizeHeader cleans a CSV header cell and maps known columns to their
// canonical spelling; unknown columns are returned trimmed as-is.
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	if canonical, ok := canonicalHeaders[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}
