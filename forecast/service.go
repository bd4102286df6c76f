package forecast

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"retailforecast/models"
	"retailforecast/utils"
)

// ForecastRequest holds the parameters of a forecast.
type ForecastRequest struct {
	Model     string
	Category  string
	Region    string
	Steps     int
	Frequency string
}

// EvaluationRequest holds the parameters of a holdout backtest.
type EvaluationRequest struct {
	Model     string
	Category  string
	Region    string
	Frequency string
}

// ForecastOutcome is a normalized forecast along with the history it was fitted on.
type ForecastOutcome struct {
	Model     Model
	Frequency Frequency
	Policy    Policy
	History   models.TimeSeries
	Forecast  models.ForecastResult
}

// Service orchestrates aggregation, policy gating and the forecasting capabilities.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	forecasters             map[Model]Forecaster
	fitTimeout              time.Duration
	legacyFrequencyFallback bool
}

// Option configures a Service.
type Option func(*Service)

// WithForecaster replaces the capability used for a model family.
func WithForecaster(model Model, f Forecaster) Option {
	return func(s *Service) {
		s.forecasters[model] = f
	}
}

// WithFitTimeout bounds each fit; zero disables the bound.
func WithFitTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.fitTimeout = d
	}
}

// WithLegacyFrequencyFallback maps unknown frequency codes to the annual policy
// instead of rejecting them.
func WithLegacyFrequencyFallback(enabled bool) Option {
	return func(s *Service) {
		s.legacyFrequencyFallback = enabled
	}
}

// NewService creates a Service with the default forecasters.
func NewService(opts ...Option) *Service {
	s := &Service{forecasters: DefaultForecasters()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveFrequency parses a frequency code, applying the legacy fallback if enabled.
func (s *Service) ResolveFrequency(code string) (Frequency, error) {
	freq, ok := ParseFrequency(code)
	if ok {
		return freq, nil
	}
	if s.legacyFrequencyFallback {
		log.Printf("⚠️  [FORECAST] Unknown frequency %q, falling back to annual policy", code)
		return Annual, nil
	}
	return 0, &InvalidFrequencyError{Code: code}
}

func (s *Service) resolve(modelName, freqCode string) (Model, Forecaster, Frequency, error) {
	model, err := ParseModel(modelName)
	if err != nil {
		return 0, nil, 0, err
	}
	forecaster, ok := s.forecasters[model]
	if !ok {
		return 0, nil, 0, &InvalidModelError{Model: modelName}
	}
	freq, err := s.ResolveFrequency(freqCode)
	if err != nil {
		return 0, nil, 0, err
	}
	return model, forecaster, freq, nil
}

// Forecast aggregates the matching records and forecasts req.Steps periods ahead.
func (s *Service) Forecast(ctx context.Context, records []models.RawRecord, req ForecastRequest) (*ForecastOutcome, error) {
	model, forecaster, freq, err := s.resolve(req.Model, req.Frequency)
	if err != nil {
		return nil, err
	}
	if req.Steps < 1 {
		return nil, &InvalidStepsError{Steps: req.Steps}
	}
	policy := LookupPolicy(freq)

	history, found := Aggregate(records, req.Category, req.Region, freq)
	if !found {
		return nil, NewNoDataError(req.Category, req.Region)
	}
	if len(history) < policy.MinHistory {
		return nil, NewInsufficientHistoryError(freq, policy.MinHistory, len(history), false)
	}

	log.Printf("📈 [FORECAST] model=%s category=%s region=%s frequency=%s periods=%d steps=%d",
		model, req.Category, req.Region, freq, len(history), req.Steps)

	pred, err := s.fitPredict(ctx, model, forecaster, history, freq, policy, req.Steps)
	if err != nil {
		log.Printf("❌ [FORECAST] %v", err)
		return nil, err
	}

	return &ForecastOutcome{
		Model:     model,
		Frequency: freq,
		Policy:    policy,
		History:   history,
		Forecast:  normalize(history, freq, pred),
	}, nil
}

// Evaluate backtests the model on the last BacktestWindow periods of the series.
func (s *Service) Evaluate(ctx context.Context, records []models.RawRecord, req EvaluationRequest) (*models.BacktestMetrics, error) {
	model, forecaster, freq, err := s.resolve(req.Model, req.Frequency)
	if err != nil {
		return nil, err
	}
	policy := LookupPolicy(freq)

	history, found := Aggregate(records, req.Category, req.Region, freq)
	if !found {
		return nil, NewNoDataError(req.Category, req.Region)
	}
	if len(history) < policy.MinEvaluationHistory() {
		return nil, NewInsufficientHistoryError(freq, policy.MinEvaluationHistory(), len(history), true)
	}

	train, test := SplitHoldout(history, policy.BacktestWindow)

	log.Printf("🧪 [EVALUATION] model=%s category=%s region=%s frequency=%s train=%d test=%d",
		model, req.Category, req.Region, freq, len(train), len(test))

	pred, err := s.fitPredict(ctx, model, forecaster, train, freq, policy, len(test))
	if err != nil {
		log.Printf("❌ [EVALUATION] %v", err)
		return nil, err
	}

	metrics := ComputeMetrics(test.Values(), pred.Points)
	return &metrics, nil
}

type fitResult struct {
	pred Prediction
	err  error
}

// fitPredict runs the capability under the fit timeout and validates its output shape.
func (s *Service) fitPredict(ctx context.Context, model Model, f Forecaster, series models.TimeSeries, freq Frequency, policy Policy, horizon int) (Prediction, error) {
	if s.fitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fitTimeout)
		defer cancel()
	}

	params := Params{Frequency: freq, SeasonalPeriod: policy.SeasonalPeriod, LagPeriod: policy.LagPeriod()}
	done := make(chan fitResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fitResult{err: fmt.Errorf("panic during fit: %v", r)}
			}
		}()
		pred, err := f.FitPredict(series, params, horizon)
		done <- fitResult{pred: pred, err: err}
	}()

	var res fitResult
	select {
	case <-ctx.Done():
		return Prediction{}, WrapFitError(model, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return Prediction{}, WrapFitError(model, res.err)
	}

	pred := res.pred
	if len(pred.Points) != horizon {
		return Prediction{}, WrapFitError(model, fmt.Errorf("expected %d predictions, got %d", horizon, len(pred.Points)))
	}
	if (pred.Lower != nil || pred.Upper != nil) && (len(pred.Lower) != horizon || len(pred.Upper) != horizon) {
		return Prediction{}, WrapFitError(model, fmt.Errorf("prediction bounds do not cover %d periods", horizon))
	}
	for _, values := range [][]float64{pred.Points, pred.Lower, pred.Upper} {
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Prediction{}, WrapFitError(model, fmt.Errorf("non-finite prediction at step %d", i+1))
			}
		}
	}
	return pred, nil
}

// normalize stamps future periods, rounds to cents and clips to non-negative sales.
func normalize(history models.TimeSeries, freq Frequency, pred Prediction) models.ForecastResult {
	last := history[len(history)-1].Period
	hasBounds := pred.Lower != nil && pred.Upper != nil

	result := make(models.ForecastResult, len(pred.Points))
	for h, v := range pred.Points {
		point := models.ForecastPoint{
			Period:   freq.Next(last, h+1),
			Forecast: utils.ClipNonNegative(utils.Round2(v)),
		}
		if hasBounds {
			lower := utils.ClipNonNegative(utils.Round2(pred.Lower[h]))
			upper := math.Max(utils.ClipNonNegative(utils.Round2(pred.Upper[h])), lower)
			point.Lower = &lower
			point.Upper = &upper
		}
		result[h] = point
	}
	return result
}
