package forecast

import (
	"fmt"
	"math"
	"time"

	"retailforecast/models"
)

// FeatureMatrix is a row-major matrix of regression features.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float64
}

// Len returns the number of rows.
func (fm FeatureMatrix) Len() int {
	return len(fm.Rows)
}

// Slice returns rows [from, to) sharing the underlying rows.
func (fm FeatureMatrix) Slice(from, to int) FeatureMatrix {
	return FeatureMatrix{Columns: fm.Columns, Rows: fm.Rows[from:to]}
}

func featureColumns(lag int) []string {
	return []string{"month", "year", "quarter", fmt.Sprintf("lag_%d", lag)}
}

func calendarRow(period time.Time, lagValue float64) []float64 {
	return []float64{
		float64(period.Month()),
		float64(period.Year()),
		float64((int(period.Month())-1)/3 + 1),
		lagValue,
	}
}

// BuildFeatures derives calendar features and a single seasonal lag from series.
// Lag values missing at the start of the series are back-filled from the first
// available lag value, so every period keeps a row.
func BuildFeatures(series models.TimeSeries, freq Frequency) (FeatureMatrix, []float64) {
	lag := LookupPolicy(freq).LagPeriod()
	target := series.Values()

	lags := make([]float64, len(target))
	for i := range lags {
		if i >= lag {
			lags[i] = target[i-lag]
		} else {
			lags[i] = math.NaN()
		}
	}
	backfill(lags)

	fm := FeatureMatrix{Columns: featureColumns(lag), Rows: make([][]float64, len(series))}
	for i, p := range series {
		fm.Rows[i] = calendarRow(p.Period, lags[i])
	}
	return fm, target
}

// FutureFeatures builds the feature row for a future period given the observed
// values followed by the predictions made so far.
func FutureFeatures(period time.Time, known []float64, freq Frequency) []float64 {
	lag := LookupPolicy(freq).LagPeriod()
	idx := len(known) - lag
	if idx < 0 {
		idx = 0
	}
	lagValue := 0.0
	if len(known) > 0 {
		lagValue = known[idx]
	}
	return calendarRow(period, lagValue)
}

// backfill replaces NaN entries with the next non-NaN value. Trailing NaNs,
// which only occur when no value is available at all, fall back to zero.
func backfill(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
		} else {
			next = values[i]
		}
	}
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = 0
		}
	}
}
