package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"retailforecast/config"
	"retailforecast/dataset"
	"retailforecast/forecast"
	"retailforecast/insight"
	"retailforecast/models"
)

// InsightGenerator produces a narrative over a computed forecast.
type InsightGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, outcome *forecast.ForecastOutcome, category, region string) (*models.ForecastInsight, error)
}

// Handler serves the API over an immutable dataset loaded at startup.
type Handler struct {
	Config   config.Config
	Data     *dataset.Dataset
	LoadErr  error
	Forecast *forecast.Service
	Insight  InsightGenerator

	validate *validator.Validate
}

// New creates a Handler. When loadErr is non-nil the data endpoints report it.
func New(cfg config.Config, data *dataset.Dataset, loadErr error, svc *forecast.Service, gen InsightGenerator) *Handler {
	if data == nil && loadErr == nil {
		loadErr = errors.New("dataset is empty")
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("query")
	})
	maxSteps := cfg.MaxSteps
	_ = v.RegisterValidation("maxsteps", func(fl validator.FieldLevel) bool {
		return maxSteps <= 0 || fl.Field().Int() <= int64(maxSteps)
	})

	return &Handler{
		Config:   cfg,
		Data:     data,
		LoadErr:  loadErr,
		Forecast: svc,
		Insight:  gen,
		validate: v,
	}
}

// DatasetError returns the reason the dataset is unavailable, or nil.
func (h *Handler) DatasetError() error {
	return h.LoadErr
}

// filterQuery is shared by the endpoints that slice the dataset.
type filterQuery struct {
	Category string `query:"category"`
	Region   string `query:"region"`
}

type forecastQuery struct {
	ModelType string `query:"model_type" validate:"required"`
	Category  string `query:"category"`
	Region    string `query:"region"`
	Steps     int    `query:"steps" validate:"min=1,maxsteps"`
	Frequency string `query:"frequency" validate:"required"`
}

type evaluationQuery struct {
	ModelType string `query:"model_type" validate:"required"`
	Category  string `query:"category"`
	Region    string `query:"region"`
	Frequency string `query:"frequency" validate:"required"`
}

func defaultForecastQuery() forecastQuery {
	return forecastQuery{
		ModelType: forecast.ModelSARIMA.String(),
		Category:  forecast.AllCategories,
		Region:    forecast.AllRegions,
		Steps:     12,
		Frequency: forecast.Monthly.Code(),
	}
}

// bindQuery parses the query string over the defaults already in out and validates it.
func (h *Handler) bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters: "+err.Error())
	}
	if err := h.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fiber.NewError(fiber.StatusBadRequest, h.validationMessage(verrs))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *Handler) validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "maxsteps":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and %d", fe.Field(), h.Config.MaxSteps))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "Invalid query parameters: " + strings.Join(msgs, "; ")
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var (
		fe           *fiber.Error
		noData       *forecast.NoDataError
		insufficient *forecast.InsufficientHistoryError
		badModel     *forecast.InvalidModelError
		badFrequency *forecast.InvalidFrequencyError
		badSteps     *forecast.InvalidStepsError
		fitErr       *forecast.ModelFitError
	)

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.As(err, &badModel), errors.As(err, &badFrequency), errors.As(err, &badSteps):
		status = fiber.StatusBadRequest
	case errors.As(err, &noData):
		status = fiber.StatusNotFound
	case errors.As(err, &insufficient):
		status = fiber.StatusUnprocessableEntity
	case errors.As(err, &fitErr):
		status = fiber.StatusInternalServerError
	case errors.Is(err, insight.ErrNotConfigured):
		status = fiber.StatusServiceUnavailable
	}

	message := err.Error()
	if fe != nil {
		message = fe.Message
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
