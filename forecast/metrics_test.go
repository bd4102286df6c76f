package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func TestSplitHoldoutReconstructsSeries(t *testing.T) {
	start := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	series, _ := Aggregate(monthlyRecords(start, 36, "A", "B", func(i int) float64 { return float64(i) }), "", "", Monthly)

	train, test := SplitHoldout(series, 12)
	require.Len(t, train, 24)
	require.Len(t, test, 12)
	assert.True(t, train[len(train)-1].Period.Before(test[0].Period))
	assert.Equal(t, series, append(train, test...))

	// appending to train must not overwrite test
	_ = append(train, train[0])
	assert.Equal(t, 24.0, test[0].Sales)
}

func TestComputeMetrics(t *testing.T) {
	m := ComputeMetrics([]float64{100, 200, 0, 400}, []float64{110, 180, 10, 400})

	assert.Equal(t, "success", m.Status)
	assert.Equal(t, 4, m.TestPeriods)
	assert.Equal(t, 3, m.MAPEPoints)
	assert.Equal(t, 1, m.ZeroActualsExcluded)
	require.NotNil(t, m.MAPE)
	assert.InDelta(t, (0.1+0.1+0)/3*100, *m.MAPE, 1e-9)
	assert.InDelta(t, math.Sqrt((100+400+100+0)/4.0), m.RMSE, 1e-9)
}

func TestComputeMetricsAllZeroActuals(t *testing.T) {
	m := ComputeMetrics([]float64{0, 0}, []float64{3, 4})
	assert.Nil(t, m.MAPE)
	assert.Equal(t, 2, m.ZeroActualsExcluded)
	assert.InDelta(t, math.Sqrt(12.5), m.RMSE, 1e-9)
	assert.False(t, math.IsNaN(m.RMSE))
}
