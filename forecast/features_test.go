package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeaturesMonthlyBackfillsLag(t *testing.T) {
	start := time.Date(2015, time.November, 1, 0, 0, 0, 0, time.UTC)
	series, _ := Aggregate(monthlyRecords(start, 15, "Furniture", "West", func(i int) float64 { return float64(10 * (i + 1)) }), "", "", Monthly)

	X, y := BuildFeatures(series, Monthly)
	require.Equal(t, 15, X.Len())
	assert.Equal(t, []string{"month", "year", "quarter", "lag_12"}, X.Columns)
	assert.Equal(t, series.Values(), y)

	// first twelve rows take the first available lag, y[0]
	for i := 0; i < 12; i++ {
		assert.Equal(t, 10.0, X.Rows[i][3], "row %d", i)
	}
	assert.Equal(t, 10.0, X.Rows[12][3])
	assert.Equal(t, 20.0, X.Rows[13][3])
	assert.Equal(t, 30.0, X.Rows[14][3])

	assert.Equal(t, []float64{11, 2015, 4}, X.Rows[0][:3])
	assert.Equal(t, []float64{2, 2016, 1}, X.Rows[3][:3])
}

func TestBuildFeaturesAnnualUsesLagOne(t *testing.T) {
	start := time.Date(2014, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := monthlyRecords(start, 1, "A", "B", constant(5))
	records = append(records, monthlyRecords(start.AddDate(1, 0, 0), 1, "A", "B", constant(7))...)
	records = append(records, monthlyRecords(start.AddDate(2, 0, 0), 1, "A", "B", constant(9))...)
	series, _ := Aggregate(records, "", "", Annual)

	X, _ := BuildFeatures(series, Annual)
	assert.Equal(t, "lag_1", X.Columns[3])
	assert.Equal(t, []float64{5, 5, 7}, []float64{X.Rows[0][3], X.Rows[1][3], X.Rows[2][3]})
	assert.Equal(t, []float64{1, 2014, 1}, X.Rows[0][:3])
}

func TestFutureFeaturesUsesKnownValues(t *testing.T) {
	period := time.Date(2017, time.May, 1, 0, 0, 0, 0, time.UTC)
	known := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, []float64{5, 2017, 2, 2}, FutureFeatures(period, known, Quarterly))
	assert.Equal(t, []float64{5, 2017, 2, 5}, FutureFeatures(period, known, Annual))
	assert.Equal(t, []float64{5, 2017, 2, 1}, FutureFeatures(period, known, Monthly))
}

func TestBackfillWithoutValues(t *testing.T) {
	values := []float64{nan(), nan()}
	backfill(values)
	assert.Equal(t, []float64{0, 0}, values)
}
