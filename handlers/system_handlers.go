package handlers

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"retailforecast/forecast"
)

// HandleRoot returns the welcome message.
// GET /
func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the Retail Forecasting API. See /api/v1/config/filters for the available filters.",
	})
}

// HandleVersion reports the build information of the running binary.
// GET /version
func (h *Handler) HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}

// HandleHealth reports whether the dataset is loaded.
// GET /api/v1/health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if h.LoadErr != nil {
		return c.JSON(fiber.Map{
			"status":      "degraded",
			"data_loaded": false,
			"reason":      h.LoadErr.Error(),
			"data_source": h.Config.DataSource(),
		})
	}
	return c.JSON(fiber.Map{
		"status":      "ok",
		"data_loaded": true,
		"records":     h.Data.Len(),
		"data_source": h.Data.Source(),
		"loaded_at":   h.Data.LoadedAt(),
	})
}

// HandleGetFilters returns the values that populate the filter selectors.
// GET /api/v1/config/filters
func (h *Handler) HandleGetFilters(c *fiber.Ctx) error {
	frequencies := make(map[string]string, len(forecast.Frequencies))
	for _, f := range forecast.Frequencies {
		frequencies[f.Label()] = f.Code()
	}
	modelNames := make([]string, 0, len(forecast.Models))
	for _, m := range forecast.Models {
		modelNames = append(modelNames, m.String())
	}

	return c.JSON(fiber.Map{
		"categories":  append([]string{forecast.AllCategories}, h.Data.Categories()...),
		"regions":     append([]string{forecast.AllRegions}, h.Data.Regions()...),
		"frequencies": frequencies,
		"models":      modelNames,
	})
}
