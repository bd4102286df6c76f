package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"retailforecast/forecast"
	"retailforecast/kpi"
)

// HandleGetGlobalKPIs returns the KPIs and the regional analysis, optionally
// restricted to a category and/or region.
// GET /api/v1/global/kpis
func (h *Handler) HandleGetGlobalKPIs(c *fiber.Ctx) error {
	q := filterQuery{Category: forecast.AllCategories, Region: forecast.AllRegions}
	if err := h.bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}

	records := forecast.Filter(h.Data.Records(), q.Category, q.Region)
	if len(records) == 0 {
		return respondError(c, forecast.NewNoDataError(q.Category, q.Region))
	}

	log.Printf("📊 [KPIS] category=%s region=%s records=%d", q.Category, q.Region, len(records))
	return c.JSON(fiber.Map{
		"status":            "success",
		"kpis":              kpi.GlobalKPIs(records),
		"regional_analysis": kpi.RegionalAnalysis(records),
	})
}
