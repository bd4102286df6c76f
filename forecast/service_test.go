package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailforecast/models"
)

var jan2014 = time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestForecastConstantSalesBothModels(t *testing.T) {
	records := monthlyRecords(jan2014, 30, "Furniture", "West", constant(100))
	svc := NewService()

	for _, model := range []string{"sarima", "xgboost"} {
		t.Run(model, func(t *testing.T) {
			out, err := svc.Forecast(context.Background(), records, ForecastRequest{
				Model: model, Category: "All Categories", Region: "All Regions", Steps: 12, Frequency: "ME",
			})
			require.NoError(t, err)
			require.Len(t, out.Forecast, 12)
			assert.Len(t, out.History, 30)

			for h, p := range out.Forecast {
				assert.InDelta(t, 100, p.Forecast, 1, "step %d", h+1)
				assert.GreaterOrEqual(t, p.Forecast, 0.0)
				assert.Equal(t, Monthly.Next(out.History[29].Period, h+1), p.Period)
			}
		})
	}
}

func TestForecastBoundsPresentOnlyForSARIMA(t *testing.T) {
	records := monthlyRecords(jan2014, 30, "Furniture", "West", func(i int) float64 { return 100 + float64(i%12)*5 })
	svc := NewService()

	out, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 6, Frequency: "QE"})
	require.NoError(t, err)
	assert.True(t, out.Forecast.HasBounds())
	for _, p := range out.Forecast {
		assert.GreaterOrEqual(t, *p.Lower, 0.0)
		assert.GreaterOrEqual(t, *p.Upper, *p.Lower)
	}

	out, err = svc.Forecast(context.Background(), records, ForecastRequest{Model: "xgboost", Steps: 6, Frequency: "QE"})
	require.NoError(t, err)
	assert.False(t, out.Forecast.HasBounds())
}

func TestForecastNoData(t *testing.T) {
	records := monthlyRecords(jan2014, 30, "Furniture", "West", constant(100))

	_, err := NewService().Forecast(context.Background(), records, ForecastRequest{
		Model: "sarima", Category: "Technology", Region: "South", Steps: 3, Frequency: "ME",
	})

	var noData *NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, "Technology", noData.Category)
	assert.Equal(t, "South", noData.Region)
	assert.Contains(t, err.Error(), "Technology/South")
}

func TestForecastInsufficientHistory(t *testing.T) {
	records := monthlyRecords(jan2014, 10, "Furniture", "West", constant(100))

	_, err := NewService().Forecast(context.Background(), records, ForecastRequest{Model: "xgboost", Steps: 3, Frequency: "ME"})

	var short *InsufficientHistoryError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 24, short.Required)
	assert.Equal(t, 10, short.Actual)
	assert.False(t, short.Backtest)
}

func TestForecastAnnualWithThreePeriods(t *testing.T) {
	var records []models.RawRecord
	for i, sales := range []float64{120, 135, 150} {
		records = append(records, monthlyRecords(jan2014.AddDate(i, 5, 0), 1, "Furniture", "West", constant(sales))...)
	}

	svc := NewService()
	for _, model := range []string{"sarima", "xgboost"} {
		out, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: model, Steps: 2, Frequency: "AE"})
		require.NoError(t, err, model)
		assert.Equal(t, 0, out.Policy.SeasonalPeriod)
		require.Len(t, out.Forecast, 2)
		assert.Equal(t, time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), out.Forecast[0].Period)
	}
}

func TestForecastInvalidSelectors(t *testing.T) {
	records := monthlyRecords(jan2014, 30, "Furniture", "West", constant(100))
	svc := NewService()

	_, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: "prophet", Steps: 3, Frequency: "ME"})
	var badModel *InvalidModelError
	require.ErrorAs(t, err, &badModel)
	assert.Equal(t, "prophet", badModel.Model)

	_, err = svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 3, Frequency: "W"})
	var badFreq *InvalidFrequencyError
	require.ErrorAs(t, err, &badFreq)

	_, err = svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 0, Frequency: "ME"})
	var badSteps *InvalidStepsError
	require.ErrorAs(t, err, &badSteps)
}

func TestLegacyFrequencyFallback(t *testing.T) {
	records := monthlyRecords(jan2014, 48, "Furniture", "West", constant(100))
	svc := NewService(WithLegacyFrequencyFallback(true))

	out, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 1, Frequency: "W"})
	require.NoError(t, err)
	assert.Equal(t, Annual, out.Frequency)
	assert.Len(t, out.History, 4)
}

func TestForecastClipsNegativeValues(t *testing.T) {
	records := monthlyRecords(jan2014, 24, "Furniture", "West", constant(100))
	stub := stubForecaster{fn: func(_ models.TimeSeries, _ Params, horizon int) (Prediction, error) {
		return Prediction{
			Points: []float64{-5, 10.456},
			Lower:  []float64{-20, -1},
			Upper:  []float64{-2, 30},
		}, nil
	}}
	svc := NewService(WithForecaster(ModelSARIMA, stub))

	out, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 2, Frequency: "ME"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.Forecast[0].Forecast)
	assert.Equal(t, 0.0, *out.Forecast[0].Lower)
	assert.Equal(t, 0.0, *out.Forecast[0].Upper)
	assert.Equal(t, 10.46, out.Forecast[1].Forecast)
	assert.Equal(t, 0.0, *out.Forecast[1].Lower)
	assert.Equal(t, 30.0, *out.Forecast[1].Upper)
}

func TestForecastPassesPolicyToCapability(t *testing.T) {
	records := monthlyRecords(jan2014, 24, "Furniture", "West", constant(100))
	var got Params
	stub := stubForecaster{fn: func(series models.TimeSeries, params Params, horizon int) (Prediction, error) {
		got = params
		return Prediction{Points: make([]float64, horizon)}, nil
	}}

	_, err := NewService(WithForecaster(ModelXGBoost, stub)).Forecast(context.Background(), records,
		ForecastRequest{Model: "XGBoost", Steps: 4, Frequency: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, Params{Frequency: Monthly, SeasonalPeriod: 12, LagPeriod: 12}, got)
}

func TestForecastWrapsCapabilityFailures(t *testing.T) {
	records := monthlyRecords(jan2014, 24, "Furniture", "West", constant(100))
	boom := errors.New("singular matrix")

	cases := map[string]Forecaster{
		"error": stubForecaster{fn: func(models.TimeSeries, Params, int) (Prediction, error) {
			return Prediction{}, boom
		}},
		"short": stubForecaster{fn: func(models.TimeSeries, Params, int) (Prediction, error) {
			return Prediction{Points: []float64{1}}, nil
		}},
		"nan": stubForecaster{fn: func(_ models.TimeSeries, _ Params, horizon int) (Prediction, error) {
			return Prediction{Points: []float64{1, math.NaN(), 3}}, nil
		}},
		"panic": stubForecaster{fn: func(models.TimeSeries, Params, int) (Prediction, error) {
			panic("index out of range")
		}},
	}

	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewService(WithForecaster(ModelSARIMA, f)).Forecast(context.Background(), records,
				ForecastRequest{Model: "sarima", Steps: 3, Frequency: "ME"})
			var fitErr *ModelFitError
			require.ErrorAs(t, err, &fitErr)
			assert.Equal(t, ModelSARIMA, fitErr.Model)
		})
	}

	_, err := NewService(WithForecaster(ModelSARIMA, cases["error"])).Forecast(context.Background(), records,
		ForecastRequest{Model: "sarima", Steps: 3, Frequency: "ME"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "singular matrix")
}

func TestForecastFitTimeout(t *testing.T) {
	records := monthlyRecords(jan2014, 24, "Furniture", "West", constant(100))
	slow := stubForecaster{fn: func(_ models.TimeSeries, _ Params, horizon int) (Prediction, error) {
		time.Sleep(200 * time.Millisecond)
		return Prediction{Points: make([]float64, horizon)}, nil
	}}
	svc := NewService(WithForecaster(ModelSARIMA, slow), WithFitTimeout(10*time.Millisecond))

	_, err := svc.Forecast(context.Background(), records, ForecastRequest{Model: "sarima", Steps: 3, Frequency: "ME"})
	var fitErr *ModelFitError
	require.ErrorAs(t, err, &fitErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEvaluateUsesChronologicalHoldout(t *testing.T) {
	records := monthlyRecords(jan2014, 36, "Furniture", "West", func(i int) float64 { return float64(100 + i) })
	var trainLen, horizonSeen int
	var lastTrain time.Time
	stub := stubForecaster{fn: func(series models.TimeSeries, _ Params, horizon int) (Prediction, error) {
		trainLen, horizonSeen = len(series), horizon
		lastTrain = series[len(series)-1].Period
		points := make([]float64, horizon)
		for i := range points {
			points[i] = float64(124+i) + 10
		}
		return Prediction{Points: points}, nil
	}}

	metrics, err := NewService(WithForecaster(ModelXGBoost, stub)).Evaluate(context.Background(), records,
		EvaluationRequest{Model: "xgboost", Frequency: "ME"})
	require.NoError(t, err)

	assert.Equal(t, 24, trainLen)
	assert.Equal(t, 12, horizonSeen)
	assert.Equal(t, time.Date(2015, time.December, 1, 0, 0, 0, 0, time.UTC), lastTrain)
	assert.Equal(t, "success", metrics.Status)
	assert.Equal(t, 12, metrics.TestPeriods)
	assert.InDelta(t, 10, metrics.RMSE, 1e-9)
	require.NotNil(t, metrics.MAPE)
	assert.Greater(t, *metrics.MAPE, 0.0)
}

func TestEvaluateRealModels(t *testing.T) {
	records := monthlyRecords(jan2014, 40, "Furniture", "West", func(i int) float64 {
		return 500 + 10*float64(i) + 80*math.Sin(2*math.Pi*float64(i)/12)
	})
	svc := NewService()

	for _, model := range []string{"sarima", "xgboost"} {
		metrics, err := svc.Evaluate(context.Background(), records, EvaluationRequest{Model: model, Frequency: "ME"})
		require.NoError(t, err, model)
		assert.Equal(t, 12, metrics.TestPeriods, model)
		require.NotNil(t, metrics.MAPE, model)
		assert.False(t, math.IsNaN(metrics.RMSE), model)
	}
}

func TestEvaluateInsufficientHistory(t *testing.T) {
	records := monthlyRecords(jan2014, 30, "Furniture", "West", constant(100))

	_, err := NewService().Evaluate(context.Background(), records, EvaluationRequest{Model: "sarima", Frequency: "ME"})

	var short *InsufficientHistoryError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 36, short.Required)
	assert.Equal(t, 30, short.Actual)
	assert.True(t, short.Backtest)
}

func TestEvaluateAllZeroTestWindow(t *testing.T) {
	records := monthlyRecords(jan2014, 36, "Furniture", "West", func(i int) float64 {
		if i >= 24 {
			return 0
		}
		return 50
	})

	metrics, err := NewService().Evaluate(context.Background(), records, EvaluationRequest{Model: "sarima", Frequency: "ME"})
	require.NoError(t, err)
	assert.Nil(t, metrics.MAPE)
	assert.Equal(t, 12, metrics.ZeroActualsExcluded)
}
