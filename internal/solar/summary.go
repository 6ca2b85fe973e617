package solar

import (
	"fmt"
	"math"
	"sort"
)

// Summarize groups measurements by country and computes the descriptive
// statistics for every metric. It is deterministic and has no side effects;
// the result holds exactly one CountrySummary per distinct country present
// in the input.
func Summarize(measurements []Measurement) map[string]CountrySummary {
	byCountry := make(map[string][]Measurement)
	for _, m := range measurements {
		byCountry[m.Country] = append(byCountry[m.Country], m)
	}

	summaries := make(map[string]CountrySummary, len(byCountry))
	for country, rows := range byCountry {
		cs := CountrySummary{
			Country: country,
			Records: len(rows),
			Metrics: make(map[Metric]Summary, len(Metrics)),
		}
		values := make([]float64, len(rows))
		for _, metric := range Metrics {
			for i, r := range rows {
				values[i] = r.Value(metric)
			}
			cs.Metrics[metric] = summarizeValues(values)
		}
		summaries[country] = cs
	}
	return summaries
}

// Rank orders countries descending by the mean of the given metric.
// Ties break by country name ascending so the order is total and stable.
func Rank(summaries map[string]CountrySummary, metric Metric) []RankedCountry {
	ranked := make([]RankedCountry, 0, len(summaries))
	for country, cs := range summaries {
		ranked = append(ranked, RankedCountry{
			Country: country,
			Value:   cs.Metrics[metric].Mean,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Country < ranked[j].Country
	})
	return ranked
}

// moduleRatingTempC is the cell temperature PV modules are rated at; the
// country whose ambient mean sits closest to it is called out in the
// observations.
const moduleRatingTempC = 25.0

// BuildObservations derives the cross-country observations from the computed
// summaries: the solar-potential ranking by mean GHI, the best-DNI country,
// and the country with the most favourable ambient temperature.
func BuildObservations(summaries map[string]CountrySummary) Observations {
	obs := Observations{
		Ranking: Rank(summaries, MetricGHI),
	}
	if len(obs.Ranking) == 0 {
		return obs
	}

	dni := Rank(summaries, MetricDNI)
	obs.BestDNI = dni[0]

	// Closest mean ambient temperature to the module rating point.
	first := true
	for _, rc := range Rank(summaries, MetricTamb) {
		dist := math.Abs(rc.Value - moduleRatingTempC)
		if first || dist < math.Abs(obs.OptimalTemp.Value-moduleRatingTempC) {
			obs.OptimalTemp = rc
			first = false
		}
	}

	for i, rc := range obs.Ranking {
		obs.Notes = append(obs.Notes,
			fmt.Sprintf("%d. %s: avg GHI %.2f W/m²", i+1, rc.Country, rc.Value))
	}
	obs.Notes = append(obs.Notes,
		fmt.Sprintf("Highest solar potential: %s (%.2f W/m² GHI)", obs.Ranking[0].Country, obs.Ranking[0].Value),
		fmt.Sprintf("Best DNI: %s (%.2f W/m²)", obs.BestDNI.Country, obs.BestDNI.Value),
		fmt.Sprintf("Optimal temperature: %s (%.2f °C)", obs.OptimalTemp.Country, obs.OptimalTemp.Value),
	)
	return obs
}

// BuildInsights computes the per-country digest from that country's
// measurements.
func BuildInsights(country string, measurements []Measurement) Insights {
	ins := Insights{
		Country: country,
		Records: len(measurements),
	}
	if len(measurements) == 0 {
		return ins
	}

	var ghi, dni, dhi, tamb float64
	for _, m := range measurements {
		ghi += m.GHI
		dni += m.DNI
		dhi += m.DHI
		tamb += m.Tamb
	}
	n := float64(len(measurements))
	ins.MeanGHI = ghi / n
	ins.MeanDNI = dni / n
	ins.MeanDHI = dhi / n
	ins.MeanTamb = tamb / n
	ins.PeakHour = peakHour(measurements, MetricGHI)
	ins.PeakSunHours = peakSunHours(measurements)
	return ins
}

// BuildOverview summarizes the whole dataset across countries.
func BuildOverview(measurements []Measurement) Overview {
	ov := Overview{TotalRecords: len(measurements)}

	seen := make(map[string]bool)
	var ghi float64
	for _, m := range measurements {
		if !seen[m.Country] {
			seen[m.Country] = true
			ov.Countries = append(ov.Countries, m.Country)
		}
		ghi += m.GHI
	}
	sort.Strings(ov.Countries)

	if len(measurements) > 0 {
		ov.MeanGHI = ghi / float64(len(measurements))
	}
	return ov
}

// BuildHourlyProfile computes the intra-day mean irradiance curves for one
// country.
func BuildHourlyProfile(country string, measurements []Measurement) HourlyProfile {
	return HourlyProfile{
		Country: country,
		MeanGHI: hourlyMeans(measurements, MetricGHI),
		MeanDNI: hourlyMeans(measurements, MetricDNI),
	}
}
