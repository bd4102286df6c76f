package forecast

import (
	"fmt"
)

// NoDataError reports that the category/region filters matched no records.
type NoDataError struct {
	Category string
	Region   string
}

// Error implements the error interface
func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data found for %s/%s", e.Category, e.Region)
}

// InsufficientHistoryError reports a series shorter than the policy minimum.
type InsufficientHistoryError struct {
	Frequency Frequency
	Required  int
	Actual    int
	Backtest  bool
}

// Error implements the error interface
func (e *InsufficientHistoryError) Error() string {
	what := "forecast"
	if e.Backtest {
		what = "backtest"
	}
	return fmt.Sprintf("insufficient data for %s: %d %s periods required, %d available",
		what, e.Required, e.Frequency, e.Actual)
}

// InvalidModelError reports an unknown model selector.
type InvalidModelError struct {
	Model string
}

// Error implements the error interface
func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("invalid model_type %q: must be 'sarima' or 'xgboost'", e.Model)
}

// InvalidFrequencyError reports an unknown frequency code.
type InvalidFrequencyError struct {
	Code string
}

// Error implements the error interface
func (e *InvalidFrequencyError) Error() string {
	return fmt.Sprintf("invalid frequency %q: must be one of ME, QE, AE", e.Code)
}

// ModelFitError wraps a failure raised while fitting or predicting.
type ModelFitError struct {
	Model Model
	Err   error
}

// Error implements the error interface
func (e *ModelFitError) Error() string {
	return fmt.Sprintf("error training %s model: %v", e.Model, e.Err)
}

// Unwrap returns the underlying error
func (e *ModelFitError) Unwrap() error {
	return e.Err
}

// NewNoDataError creates a new NoDataError
func NewNoDataError(category, region string) error {
	return &NoDataError{Category: category, Region: region}
}

// NewInsufficientHistoryError creates a new InsufficientHistoryError
func NewInsufficientHistoryError(freq Frequency, required, actual int, backtest bool) error {
	return &InsufficientHistoryError{Frequency: freq, Required: required, Actual: actual, Backtest: backtest}
}

// WrapFitError wraps a capability error with the model that raised it
func WrapFitError(model Model, err error) error {
	if err == nil {
		return nil
	}
	return &ModelFitError{Model: model, Err: err}
}

// InvalidStepsError reports a non-positive forecast horizon.
type InvalidStepsError struct {
	Steps int
}

// Error implements the error interface
func (e *InvalidStepsError) Error() string {
	return fmt.Sprintf("invalid steps %d: must be at least 1", e.Steps)
}
