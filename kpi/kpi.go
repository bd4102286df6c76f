// Package kpi computes descriptive KPIs over the raw sales records.
package kpi

import (
	"sort"

	"github.com/shopspring/decimal"

	"retailforecast/models"
)

// LateShipmentDays is the shipping time above which a shipment counts as late.
const LateShipmentDays = 7

// topN is the size of the best/worst product rankings.
const topN = 10

type group struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newGroup() *group {
	return &group{sums: make(map[string]decimal.Decimal)}
}

func (g *group) add(key string, v decimal.Decimal) {
	cur, ok := g.sums[key]
	if !ok {
		g.order = append(g.order, key)
	}
	g.sums[key] = cur.Add(v)
}

// ranked returns the groups sorted by value, descending, ties broken by name.
func (g *group) ranked() []models.NamedValue {
	values := g.byName()
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Value > values[j].Value
	})
	return values
}

// byName returns the groups sorted by name.
func (g *group) byName() []models.NamedValue {
	keys := append([]string(nil), g.order...)
	sort.Strings(keys)
	values := make([]models.NamedValue, 0, len(keys))
	for _, k := range keys {
		values = append(values, models.NamedValue{Name: k, Value: g.sums[k].InexactFloat64()})
	}
	return values
}

// GlobalKPIs computes financial, logistic, geographic and product KPIs.
// An empty input yields the zero value.
func GlobalKPIs(records []models.RawRecord) models.GlobalKPIs {
	if len(records) == 0 {
		return models.GlobalKPIs{
			TopRegion:    "N/A",
			BottomRegion: "N/A",
		}
	}

	totalSales, totalProfit, totalDiscount := decimal.Zero, decimal.Zero, decimal.Zero
	shippingDays, late := 0, 0

	profitByState := newGroup()
	salesByRegion := newGroup()
	profitByProduct := newGroup()
	salesByCategory := newGroup()
	salesBySegment := newGroup()
	profitBySubCategory := newGroup()

	for _, r := range records {
		sales := decimal.NewFromFloat(r.Sales)
		profit := decimal.NewFromFloat(r.Profit)

		totalSales = totalSales.Add(sales)
		totalProfit = totalProfit.Add(profit)
		totalDiscount = totalDiscount.Add(decimal.NewFromFloat(r.Discount))

		days := r.ShippingDays()
		shippingDays += days
		if days > LateShipmentDays {
			late++
		}

		profitByState.add(r.State, profit)
		salesByRegion.add(r.Region, sales)
		profitByProduct.add(r.ProductName, profit)
		salesByCategory.add(r.Category, sales)
		salesBySegment.add(r.Segment, sales)
		profitBySubCategory.add(r.SubCategory, profit)
	}

	n := decimal.NewFromInt(int64(len(records)))
	kpis := models.GlobalKPIs{
		TotalSales:       totalSales.InexactFloat64(),
		TotalProfit:      totalProfit.InexactFloat64(),
		TotalOrders:      len(records),
		AvgDiscount:      totalDiscount.Div(n).InexactFloat64(),
		AvgTicket:        totalSales.Div(n).InexactFloat64(),
		AvgShippingTime:  float64(shippingDays) / float64(len(records)),
		PctLateShipments: float64(late) / float64(len(records)) * 100,

		ProfitByState:       profitByState.byName(),
		SalesByRegion:       salesByRegion.ranked(),
		SalesByCategory:     salesByCategory.ranked(),
		SalesBySegment:      salesBySegment.ranked(),
		ProfitBySubCategory: profitBySubCategory.ranked(),
	}
	if !totalSales.IsZero() {
		kpis.ProfitRatio = totalProfit.Div(totalSales).InexactFloat64()
	}

	regions := kpis.SalesByRegion
	kpis.TopRegion = regions[0].Name
	kpis.BottomRegion = regions[len(regions)-1].Name

	products := profitByProduct.ranked()
	kpis.Top10ProductsProfit = head(products, topN)
	kpis.Bottom10ProductsProfit = bottom(products, topN)

	return kpis
}

// RegionalAnalysis ranks regions by sales and reports the best one.
func RegionalAnalysis(records []models.RawRecord) models.RegionalAnalysis {
	salesByRegion := newGroup()
	for _, r := range records {
		salesByRegion.add(r.Region, decimal.NewFromFloat(r.Sales))
	}

	ranked := salesByRegion.ranked()
	if len(ranked) == 0 {
		return models.RegionalAnalysis{TopRegion: "N/A", SalesByRegion: []models.NamedValue{}}
	}
	return models.RegionalAnalysis{
		TopRegion:     ranked[0].Name,
		TopSales:      ranked[0].Value,
		SalesByRegion: ranked,
	}
}

func head(values []models.NamedValue, n int) []models.NamedValue {
	if len(values) < n {
		n = len(values)
	}
	return append([]models.NamedValue(nil), values[:n]...)
}

// bottom returns the n lowest values in ascending order.
func bottom(values []models.NamedValue, n int) []models.NamedValue {
	if len(values) < n {
		n = len(values)
	}
	out := make([]models.NamedValue, 0, n)
	for i := len(values) - 1; i >= len(values)-n; i-- {
		out = append(out, values[i])
	}
	return out
}
