package routes

import (
	"github.com/gofiber/fiber/v2"

	"retailforecast/handlers"
	"retailforecast/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/", h.HandleRoot)
	app.Get("/version", h.HandleVersion)

	api := app.Group("/api/v1")
	api.Get("/health", h.HandleHealth)

	// Everything below needs the dataset.
	data := api.Group("", middleware.RequireDataset(h.DatasetError))

	// --- Configuration ---
	data.Get("/config/filters", h.HandleGetFilters)

	// --- KPIs ---
	data.Get("/global/kpis", h.HandleGetGlobalKPIs)

	// --- Forecasting ---
	sales := data.Group("/sales")
	sales.Get("/forecast", h.HandleGetSalesForecast)
	sales.Get("/forecast/insight", h.HandleGetForecastInsight)
	sales.Get("/evaluation", h.HandleGetSalesEvaluation)
}
