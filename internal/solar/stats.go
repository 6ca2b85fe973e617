package solar

import (
	"math"
	"sort"
	"time"
)

// summarizeValues computes the descriptive statistics for one slice of
// readings. An empty slice yields a zero Summary.
func summarizeValues(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	min := values[0]
	max := values[0]
	var sum float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(n)

	// Sample standard deviation; a single reading has no spread.
	var stddev float64
	if n > 1 {
		var sq float64
		for _, v := range values {
			d := v - mean
			sq += d * d
		}
		stddev = math.Sqrt(sq / float64(n-1))
	}

	return Summary{
		Mean:   mean,
		Median: median(values),
		StdDev: stddev,
		Min:    min,
		Max:    max,
		Count:  n,
	}
}

// median returns the middle value of the slice (mean of the two middle
// values for even lengths). The input slice is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. The input slice is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if q <= 0 {
		return minOf(values)
	}
	if q >= 1 {
		return maxOf(values)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// hourlyMeans buckets measurements by hour of day (UTC) and returns the mean
// of the given metric per hour. Hours with no readings stay at zero.
func hourlyMeans(measurements []Measurement, metric Metric) [24]float64 {
	var sums [24]float64
	var counts [24]int
	for _, m := range measurements {
		h := m.Timestamp.UTC().Hour()
		sums[h] += m.Value(metric)
		counts[h]++
	}

	var means [24]float64
	for h := 0; h < 24; h++ {
		if counts[h] > 0 {
			means[h] = sums[h] / float64(counts[h])
		}
	}
	return means
}

// peakHour returns the hour of day with the highest mean value of the metric.
// Earlier hours win ties.
func peakHour(measurements []Measurement, metric Metric) int {
	means := hourlyMeans(measurements, metric)
	best := 0
	for h := 1; h < 24; h++ {
		if means[h] > means[best] {
			best = h
		}
	}
	return best
}

// peakSunHours estimates equivalent hours of full-intensity (1 kW/m²)
// sunlight per day from the GHI series, assuming near-uniform sampling.
// Series spanning less than a day are treated as one day.
func peakSunHours(measurements []Measurement) float64 {
	if len(measurements) < 2 {
		return 0
	}

	first := measurements[0].Timestamp
	last := measurements[0].Timestamp
	var sum float64
	for _, m := range measurements {
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
		sum += m.GHI
	}

	span := last.Sub(first)
	if span <= 0 {
		return 0
	}
	interval := span / time.Duration(len(measurements)-1)

	// kWh/m² over the whole series, then per day.
	energy := sum * interval.Hours() / 1000
	days := span.Hours() / 24
	if days < 1 {
		days = 1
	}
	return energy / days
}

// Downsample returns at most maxPoints measurements picked at a fixed stride,
// preserving order. It returns the input slice unchanged when it already fits.
// Chart payloads use this so a full year of one-minute readings does not end
// up in the browser.
func Downsample(measurements []Measurement, maxPoints int) []Measurement {
	if maxPoints <= 0 || len(measurements) <= maxPoints {
		return measurements
	}

	stride := (len(measurements) + maxPoints - 1) / maxPoints
	out := make([]Measurement, 0, maxPoints)
	for i := 0; i < len(measurements); i += stride {
		out = append(out, measurements[i])
	}
	return out
}
