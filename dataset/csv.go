package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"retailforecast/models"
	"retailforecast/utils"
)

// requiredColumns must be present in every dataset file.
var requiredColumns = []string{"order_date", "category", "region", "sales"}

// LoadCSV reads the sales dataset from a CSV file.
func LoadCSV(path string) ([]models.RawRecord, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return nil, fmt.Errorf("unsupported dataset format %q: expected .csv", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset file not found at expected path %s: %w", path, err)
	}
	defer f.Close()

	records, skipped, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	if skipped > 0 {
		log.Printf("⚠️  [DATASET] Skipped %d malformed rows in %s", skipped, path)
	}
	return records, nil
}

// ParseCSV converts CSV rows into records. Headers are matched after
// normalization ("Sub-Category" becomes "sub_category"). Rows with an
// unparseable date or amount are skipped and counted.
func ParseCSV(r io.Reader) ([]models.RawRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[utils.NormalizeHeader(h)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.RawRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec, err := parseRow(func(name string) string { return field(row, name) })
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(field func(string) string) (models.RawRecord, error) {
	orderDate, err := utils.ParseDate(field("order_date"))
	if err != nil {
		return models.RawRecord{}, err
	}
	shipDate := orderDate
	if v := field("ship_date"); v != "" {
		if shipDate, err = utils.ParseDate(v); err != nil {
			return models.RawRecord{}, err
		}
	}

	sales, err := parseAmount(field("sales"))
	if err != nil {
		return models.RawRecord{}, err
	}
	profit, err := parseAmount(field("profit"))
	if err != nil {
		return models.RawRecord{}, err
	}
	discount, err := parseAmount(field("discount"))
	if err != nil {
		return models.RawRecord{}, err
	}

	return models.RawRecord{
		OrderDate:   orderDate,
		ShipDate:    shipDate,
		Category:    field("category"),
		Region:      field("region"),
		State:       field("state"),
		Segment:     field("segment"),
		SubCategory: field("sub_category"),
		ProductName: field("product_name"),
		Sales:       sales,
		Profit:      profit,
		Discount:    discount,
	}, nil
}

// parseAmount parses a numeric cell, accepting thousands separators and a
// leading currency sign. Empty cells are zero.
func parseAmount(v string) (float64, error) {
	v = strings.NewReplacer(",", "", "$", "").Replace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}
