package forecast

import (
	"time"

	"retailforecast/models"
)

// monthlyRecords builds one record per month starting at start, with sales given by value(i).
func monthlyRecords(start time.Time, months int, category, region string, value func(i int) float64) []models.RawRecord {
	records := make([]models.RawRecord, 0, months)
	for i := 0; i < months; i++ {
		order := start.AddDate(0, i, 9)
		records = append(records, models.RawRecord{
			OrderDate: order,
			ShipDate:  order.AddDate(0, 0, 4),
			Category:  category,
			Region:    region,
			Sales:     value(i),
		})
	}
	return records
}

func constant(v float64) func(int) float64 {
	return func(int) float64 { return v }
}

type stubForecaster struct {
	fn func(series models.TimeSeries, params Params, horizon int) (Prediction, error)
}

func (s stubForecaster) FitPredict(series models.TimeSeries, params Params, horizon int) (Prediction, error) {
	return s.fn(series, params, horizon)
}
