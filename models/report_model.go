package models

import "time"

// SeriesPoint holds aggregated sales for a single reporting period.
type SeriesPoint struct {
	Period time.Time `json:"period"`
	Sales  float64   `json:"sales"`
}

// TimeSeries is a gap-free, strictly increasing sequence of period totals.
type TimeSeries []SeriesPoint

// Values returns the sales totals in period order.
func (ts TimeSeries) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Sales
	}
	return values
}

// Periods returns the period-start timestamps in order.
func (ts TimeSeries) Periods() []time.Time {
	periods := make([]time.Time, len(ts))
	for i, p := range ts {
		periods[i] = p.Period
	}
	return periods
}

// ForecastPoint represents the predicted sales for a single future period.
// Lower and Upper are nil for models that do not produce intervals.
type ForecastPoint struct {
	Period   time.Time `json:"period"`
	Forecast float64   `json:"forecast"`
	Lower    *float64  `json:"lower,omitempty"`
	Upper    *float64  `json:"upper,omitempty"`
}

// ForecastResult is the ordered list of future periods.
type ForecastResult []ForecastPoint

// HasBounds reports whether every point carries a confidence interval.
func (fr ForecastResult) HasBounds() bool {
	if len(fr) == 0 {
		return false
	}
	for _, p := range fr {
		if p.Lower == nil || p.Upper == nil {
			return false
		}
	}
	return true
}

// BacktestMetrics holds the error metrics of a holdout evaluation.
// MAPE is nil when every actual value in the test window is zero.
type BacktestMetrics struct {
	Status              string   `json:"status"`
	MAPE                *float64 `json:"mape"`
	RMSE                float64  `json:"rmse"`
	TestPeriods         int      `json:"test_periods"`
	MAPEPoints          int      `json:"mape_points"`
	ZeroActualsExcluded int      `json:"zero_actuals_excluded"`
}

// AiAnalysis contains the qualitative insights from the Gemini model.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// ForecastInsight is the complete structure for the forecast insight API response.
type ForecastInsight struct {
	ReportName  string     `json:"reportName"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Model       string     `json:"model"`
	Category    string     `json:"category"`
	Region      string     `json:"region"`
	Frequency   string     `json:"frequency"`
	AiAnalysis  AiAnalysis `json:"aiAnalysis"`
}
