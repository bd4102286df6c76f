package forecast

import (
	"math"

	"retailforecast/models"
)

// SplitHoldout splits series chronologically into train and the last window periods.
func SplitHoldout(series models.TimeSeries, window int) (train, test models.TimeSeries) {
	if window < 0 {
		window = 0
	}
	if window > len(series) {
		window = len(series)
	}
	cut := len(series) - window
	return series[:cut:cut], series[cut:]
}

// ComputeMetrics returns RMSE over all points and MAPE over the points whose
// actual value is nonzero. MAPE is nil when no such point exists.
func ComputeMetrics(actual, predicted []float64) models.BacktestMetrics {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}

	metrics := models.BacktestMetrics{Status: "success", TestPeriods: n}
	if n == 0 {
		return metrics
	}

	sq, ape := 0.0, 0.0
	for i := 0; i < n; i++ {
		diff := actual[i] - predicted[i]
		sq += diff * diff
		if actual[i] == 0 {
			metrics.ZeroActualsExcluded++
			continue
		}
		ape += math.Abs(diff / actual[i])
		metrics.MAPEPoints++
	}

	metrics.RMSE = math.Sqrt(sq / float64(n))
	if metrics.MAPEPoints > 0 {
		mape := ape / float64(metrics.MAPEPoints) * 100
		metrics.MAPE = &mape
	}
	return metrics
}
