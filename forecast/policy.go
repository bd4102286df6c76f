package forecast

import (
	"strings"
	"time"
)

// Frequency is a reporting frequency for aggregated sales.
type Frequency int

const (
	Monthly Frequency = iota + 1
	Quarterly
	Annual
)

// Frequencies lists the supported frequencies in display order.
var Frequencies = []Frequency{Monthly, Quarterly, Annual}

var frequencyAliases = map[string]Frequency{
	"monthly": Monthly, "m": Monthly, "me": Monthly, "ms": Monthly,
	"quarterly": Quarterly, "q": Quarterly, "qe": Quarterly, "qs": Quarterly,
	"annual": Annual, "yearly": Annual, "a": Annual, "ae": Annual, "y": Annual, "ye": Annual, "ys": Annual,
}

// ParseFrequency resolves a frequency code such as "ME", "Q" or "annual".
func ParseFrequency(code string) (Frequency, bool) {
	f, ok := frequencyAliases[strings.ToLower(strings.TrimSpace(code))]
	return f, ok
}

// Code returns the canonical period-end code used by the API.
func (f Frequency) Code() string {
	switch f {
	case Monthly:
		return "ME"
	case Quarterly:
		return "QE"
	case Annual:
		return "AE"
	}
	return ""
}

func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Annual:
		return "annual"
	}
	return "unknown"
}

// Label is the human-readable name shown in filter selectors.
func (f Frequency) Label() string {
	switch f {
	case Monthly:
		return "Monthly (ME)"
	case Quarterly:
		return "Quarterly (QE)"
	case Annual:
		return "Annual (AE)"
	}
	return ""
}

// PeriodStart truncates t to the first instant of its period, in UTC.
func (f Frequency) PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	switch f {
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Quarterly:
		firstMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the period start n periods after the period containing t.
func (f Frequency) Next(t time.Time, n int) time.Time {
	start := f.PeriodStart(t)
	switch f {
	case Monthly:
		return start.AddDate(0, n, 0)
	case Quarterly:
		return start.AddDate(0, 3*n, 0)
	default:
		return start.AddDate(n, 0, 0)
	}
}

// Policy holds the frequency-dependent forecasting parameters.
// SeasonalPeriod is 0 when the frequency has no seasonal component.
type Policy struct {
	SeasonalPeriod int `json:"seasonal_period"`
	MinHistory     int `json:"min_history_periods"`
	BacktestWindow int `json:"backtest_window_periods"`
}

// Seasonal reports whether models should include a seasonal component.
func (p Policy) Seasonal() bool {
	return p.SeasonalPeriod > 0
}

// LagPeriod is the offset of the single lag feature: one seasonal cycle,
// or one period when there is no seasonality.
func (p Policy) LagPeriod() int {
	if p.SeasonalPeriod > 0 {
		return p.SeasonalPeriod
	}
	return 1
}

// MinEvaluationHistory is the series length a holdout backtest needs.
func (p Policy) MinEvaluationHistory() int {
	return p.MinHistory + p.BacktestWindow
}

var policies = map[Frequency]Policy{
	Monthly:   {SeasonalPeriod: 12, MinHistory: 24, BacktestWindow: 12},
	Quarterly: {SeasonalPeriod: 4, MinHistory: 8, BacktestWindow: 4},
	Annual:    {SeasonalPeriod: 0, MinHistory: 3, BacktestWindow: 1},
}

// LookupPolicy returns the policy for f. Unknown frequencies get the annual policy.
func LookupPolicy(f Frequency) Policy {
	if p, ok := policies[f]; ok {
		return p
	}
	return policies[Annual]
}
