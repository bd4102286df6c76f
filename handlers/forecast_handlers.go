package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"retailforecast/forecast"
	"retailforecast/insight"
	"retailforecast/models"
)

type historyJSON struct {
	Index []string  `json:"index"`
	Data  []float64 `json:"data"`
}

type forecastRow struct {
	Date     string   `json:"date"`
	Forecast float64  `json:"forecast"`
	Lower    *float64 `json:"lower,omitempty"`
	Upper    *float64 `json:"upper,omitempty"`
}

type evaluationResponse struct {
	models.BacktestMetrics
	ModelUsed string `json:"model_used"`
	Frequency string `json:"frequency"`
}

func formatOutcome(outcome *forecast.ForecastOutcome) (historyJSON, []forecastRow) {
	history := historyJSON{
		Index: make([]string, len(outcome.History)),
		Data:  outcome.History.Values(),
	}
	for i, p := range outcome.History {
		history.Index[i] = p.Period.Format("2006-01-02")
	}

	rows := make([]forecastRow, len(outcome.Forecast))
	for i, p := range outcome.Forecast {
		rows[i] = forecastRow{
			Date:     p.Period.Format("2006-01-02"),
			Forecast: p.Forecast,
			Lower:    p.Lower,
			Upper:    p.Upper,
		}
	}
	return history, rows
}

func (h *Handler) runForecast(c *fiber.Ctx) (*forecast.ForecastOutcome, forecastQuery, error) {
	q := defaultForecastQuery()
	if err := h.bindQuery(c, &q); err != nil {
		return nil, q, err
	}
	outcome, err := h.Forecast.Forecast(c.UserContext(), h.Data.Records(), forecast.ForecastRequest{
		Model:     q.ModelType,
		Category:  q.Category,
		Region:    q.Region,
		Steps:     q.Steps,
		Frequency: q.Frequency,
	})
	return outcome, q, err
}

// HandleGetSalesForecast forecasts future sales with the selected model.
// GET /api/v1/sales/forecast
func (h *Handler) HandleGetSalesForecast(c *fiber.Ctx) error {
	outcome, _, err := h.runForecast(c)
	if err != nil {
		return respondError(c, err)
	}

	history, rows := formatOutcome(outcome)
	log.Printf("✅ [FORECAST] Returning %d periods from %s", len(rows), outcome.Model)
	return c.JSON(fiber.Map{
		"status":     "success",
		"model_used": outcome.Model.String(),
		"frequency":  outcome.Frequency.Code(),
		"history":    history,
		"forecast":   rows,
	})
}

// HandleGetSalesEvaluation backtests the selected model on a holdout window.
// GET /api/v1/sales/evaluation
func (h *Handler) HandleGetSalesEvaluation(c *fiber.Ctx) error {
	q := evaluationQuery{
		ModelType: forecast.ModelSARIMA.String(),
		Category:  forecast.AllCategories,
		Region:    forecast.AllRegions,
		Frequency: forecast.Monthly.Code(),
	}
	if err := h.bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}

	metrics, err := h.Forecast.Evaluate(c.UserContext(), h.Data.Records(), forecast.EvaluationRequest{
		Model:     q.ModelType,
		Category:  q.Category,
		Region:    q.Region,
		Frequency: q.Frequency,
	})
	if err != nil {
		return respondError(c, err)
	}

	model, _ := forecast.ParseModel(q.ModelType)
	freq, _ := h.Forecast.ResolveFrequency(q.Frequency)
	return c.JSON(evaluationResponse{
		BacktestMetrics: *metrics,
		ModelUsed:       model.String(),
		Frequency:       freq.Code(),
	})
}

// HandleGetForecastInsight runs a forecast and asks Gemini to explain it.
// GET /api/v1/sales/forecast/insight
func (h *Handler) HandleGetForecastInsight(c *fiber.Ctx) error {
	if h.Insight == nil || !h.Insight.Enabled() {
		return respondError(c, insight.ErrNotConfigured)
	}

	outcome, q, err := h.runForecast(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.Insight.Generate(c.UserContext(), outcome, q.Category, q.Region)
	if err != nil {
		if errors.Is(err, insight.ErrNotConfigured) {
			return respondError(c, err)
		}
		return respondError(c, fiber.NewError(fiber.StatusBadGateway, err.Error()))
	}

	history, rows := formatOutcome(outcome)
	return c.JSON(fiber.Map{
		"status":     "success",
		"model_used": outcome.Model.String(),
		"history":    history,
		"forecast":   rows,
		"insight":    result,
	})
}
