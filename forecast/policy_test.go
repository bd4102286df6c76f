package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		freq Frequency
		want Policy
		lag  int
	}{
		{Monthly, Policy{SeasonalPeriod: 12, MinHistory: 24, BacktestWindow: 12}, 12},
		{Quarterly, Policy{SeasonalPeriod: 4, MinHistory: 8, BacktestWindow: 4}, 4},
		{Annual, Policy{SeasonalPeriod: 0, MinHistory: 3, BacktestWindow: 1}, 1},
	}

	for _, c := range cases {
		got := LookupPolicy(c.freq)
		assert.Equal(t, c.want, got, c.freq.String())
		assert.Equal(t, c.lag, got.LagPeriod(), c.freq.String())
	}
	assert.False(t, LookupPolicy(Annual).Seasonal())
}

func TestPolicyRequiresTwoSeasonalCycles(t *testing.T) {
	for _, f := range Frequencies {
		p := LookupPolicy(f)
		if p.Seasonal() {
			assert.GreaterOrEqual(t, p.MinHistory, 2*p.SeasonalPeriod, f.String())
		}
	}
}

func TestUnknownFrequencyGetsAnnualPolicy(t *testing.T) {
	assert.Equal(t, LookupPolicy(Annual), LookupPolicy(Frequency(42)))
}

func TestParseFrequency(t *testing.T) {
	cases := map[string]Frequency{
		"ME": Monthly, "m": Monthly, "monthly": Monthly,
		"QE": Quarterly, " q ": Quarterly,
		"AE": Annual, "A": Annual, "Y": Annual, "yearly": Annual,
	}
	for code, want := range cases {
		got, ok := ParseFrequency(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, got, code)
	}

	_, ok := ParseFrequency("W")
	assert.False(t, ok)
}

func TestFrequencyCalendar(t *testing.T) {
	ts := time.Date(2016, time.August, 17, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2016, time.August, 1, 0, 0, 0, 0, time.UTC), Monthly.PeriodStart(ts))
	assert.Equal(t, time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC), Quarterly.PeriodStart(ts))
	assert.Equal(t, time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC), Annual.PeriodStart(ts))

	assert.Equal(t, time.Date(2017, time.February, 1, 0, 0, 0, 0, time.UTC), Monthly.Next(ts, 6))
	assert.Equal(t, time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), Quarterly.Next(ts, 2))
	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), Annual.Next(ts, 3))

	assert.Equal(t, "QE", Quarterly.Code())
	assert.Equal(t, "Annual (AE)", Annual.Label())
}
