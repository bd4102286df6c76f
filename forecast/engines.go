package forecast

import (
	"errors"
	"strings"

	"retailforecast/forecast/gbtree"
	"retailforecast/forecast/sarima"
	"retailforecast/models"
)

// Model selects a forecasting model family.
type Model int

const (
	ModelSARIMA Model = iota + 1
	ModelXGBoost
)

// Models lists the supported model families.
var Models = []Model{ModelSARIMA, ModelXGBoost}

// ParseModel resolves a model selector such as "sarima" or "xgboost".
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sarima":
		return ModelSARIMA, nil
	case "xgboost":
		return ModelXGBoost, nil
	}
	return 0, &InvalidModelError{Model: name}
}

func (m Model) String() string {
	switch m {
	case ModelSARIMA:
		return "sarima"
	case ModelXGBoost:
		return "xgboost"
	}
	return "unknown"
}

// Params carries the frequency-dependent parameters a capability needs.
type Params struct {
	Frequency      Frequency
	SeasonalPeriod int // 0 when there is no seasonal component
	LagPeriod      int
}

// Prediction is the raw output of a capability. Lower and Upper are nil
// when the capability does not produce intervals.
type Prediction struct {
	Points []float64
	Lower  []float64
	Upper  []float64
}

// Forecaster fits a model on a series and predicts horizon periods ahead.
type Forecaster interface {
	FitPredict(series models.TimeSeries, params Params, horizon int) (Prediction, error)
}

// DefaultForecasters returns the built-in capability for every model family.
func DefaultForecasters() map[Model]Forecaster {
	return map[Model]Forecaster{
		ModelSARIMA:  SARIMAForecaster{Confidence: 0.95},
		ModelXGBoost: BoostedTreeForecaster{Params: gbtree.DefaultParams()},
	}
}

// SARIMAForecaster fits SARIMA(0,1,1)(0,1,1)s, or ARIMA(0,1,1) when the
// frequency has no seasonal period.
type SARIMAForecaster struct {
	Confidence float64
}

// FitPredict implements Forecaster.
func (f SARIMAForecaster) FitPredict(series models.TimeSeries, params Params, horizon int) (Prediction, error) {
	order := sarima.Order{D: 1, Q: 1}
	if params.SeasonalPeriod > 1 {
		order.SD, order.SQ, order.M = 1, 1, params.SeasonalPeriod
	}

	model := sarima.New(order)
	if err := model.Fit(series.Values()); err != nil {
		return Prediction{}, err
	}

	points, lower, upper, err := model.PredictWithInterval(horizon, f.Confidence)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Points: points, Lower: lower, Upper: upper}, nil
}

// BoostedTreeForecaster fits gradient-boosted trees on calendar and lag
// features and predicts recursively, feeding predictions back as lags.
type BoostedTreeForecaster struct {
	Params gbtree.Params
}

// FitPredict implements Forecaster.
func (f BoostedTreeForecaster) FitPredict(series models.TimeSeries, params Params, horizon int) (Prediction, error) {
	if len(series) == 0 {
		return Prediction{}, errors.New("empty series")
	}

	X, y := BuildFeatures(series, params.Frequency)
	regressor := gbtree.New(f.Params)
	if err := regressor.Fit(X.Rows, y); err != nil {
		return Prediction{}, err
	}

	known := append([]float64(nil), y...)
	last := series[len(series)-1].Period
	points := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		period := params.Frequency.Next(last, h+1)
		pred, err := regressor.Predict(FutureFeatures(period, known, params.Frequency))
		if err != nil {
			return Prediction{}, err
		}
		points[h] = pred
		known = append(known, pred)
	}
	return Prediction{Points: points}, nil
}
