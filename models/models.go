package models

import "time"

// RawRecord is a single transaction row of the sales dataset.
// Records are loaded once at startup and never modified afterwards.
type RawRecord struct {
	OrderDate   time.Time `json:"order_date"`
	ShipDate    time.Time `json:"ship_date"`
	Category    string    `json:"category"`
	Region      string    `json:"region"`
	State       string    `json:"state"`
	Segment     string    `json:"segment"`
	SubCategory string    `json:"sub_category"`
	ProductName string    `json:"product_name"`
	Sales       float64   `json:"sales"`
	Profit      float64   `json:"profit"`
	Discount    float64   `json:"discount"`
}

// ShippingDays returns the whole days between order and shipment.
func (r RawRecord) ShippingDays() int {
	return int(r.ShipDate.Sub(r.OrderDate).Hours() / 24)
}

// --- KPI Models ---

// NamedValue is a ranked dimension value, e.g. a region and its sales.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GlobalKPIs contains the financial, logistic, geographic and product KPIs.
type GlobalKPIs struct {
	// Financial
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
	TotalOrders int     `json:"total_orders"`
	AvgDiscount float64 `json:"avg_discount"`
	ProfitRatio float64 `json:"profit_ratio"`
	AvgTicket   float64 `json:"avg_ticket"`

	// Logistics
	AvgShippingTime  float64 `json:"avg_shipping_time"`
	PctLateShipments float64 `json:"pct_late_shipments"`

	// Geography
	ProfitByState []NamedValue `json:"profit_by_state"`
	SalesByRegion []NamedValue `json:"sales_by_region"`
	TopRegion     string       `json:"top_region"`
	BottomRegion  string       `json:"bottom_region"`

	// Product
	Top10ProductsProfit    []NamedValue `json:"top_10_products_profit"`
	Bottom10ProductsProfit []NamedValue `json:"bottom_10_products_profit"`

	// Category / segment / sub-category
	SalesByCategory     []NamedValue `json:"sales_by_category"`
	SalesBySegment      []NamedValue `json:"sales_by_segment"`
	ProfitBySubCategory []NamedValue `json:"profit_by_subcategory"`
}

// RegionalAnalysis summarises sales per region.
type RegionalAnalysis struct {
	TopRegion     string       `json:"top_region"`
	TopSales      float64      `json:"top_sales"`
	SalesByRegion []NamedValue `json:"sales_by_region"`
}
