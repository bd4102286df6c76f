package forecast

import (
	"strings"

	"retailforecast/models"
)

// Sentinel filter values that disable filtering on a dimension.
const (
	AllCategories = "All Categories"
	AllRegions    = "All Regions"
)

// IsAll reports whether a filter value means "no filter".
func IsAll(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "all categories", "all regions":
		return true
	}
	return false
}

// Filter returns the records matching category and region.
// The returned slice shares no backing array with records.
func Filter(records []models.RawRecord, category, region string) []models.RawRecord {
	allCategories, allRegions := IsAll(category), IsAll(region)

	filtered := make([]models.RawRecord, 0, len(records))
	for _, r := range records {
		if !allCategories && r.Category != category {
			continue
		}
		if !allRegions && r.Region != region {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Aggregate filters records and sums sales per period at the given frequency.
// It returns false when no record matches the filters. The series runs from the
// first to the last observed period with empty periods filled with zero.
func Aggregate(records []models.RawRecord, category, region string, freq Frequency) (models.TimeSeries, bool) {
	filtered := Filter(records, category, region)
	if len(filtered) == 0 {
		return models.TimeSeries{}, false
	}

	first := freq.PeriodStart(filtered[0].OrderDate)
	last := first
	for _, r := range filtered[1:] {
		p := freq.PeriodStart(r.OrderDate)
		if p.Before(first) {
			first = p
		}
		if p.After(last) {
			last = p
		}
	}

	series := models.TimeSeries{}
	index := make(map[int64]int)
	for p := first; !p.After(last); p = freq.Next(p, 1) {
		index[p.Unix()] = len(series)
		series = append(series, models.SeriesPoint{Period: p})
	}

	for _, r := range filtered {
		series[index[freq.PeriodStart(r.OrderDate).Unix()]].Sales += r.Sales
	}

	return series, true
}
