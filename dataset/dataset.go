// Package dataset holds the process-wide, read-only sales dataset.
package dataset

import (
	"sort"
	"time"

	"retailforecast/models"
)

// Dataset is the immutable set of raw records loaded at startup, together with
// the filter values derived from it. It is safe for concurrent readers.
type Dataset struct {
	records    []models.RawRecord
	categories []string
	regions    []string
	source     string
	loadedAt   time.Time
}

// New builds a Dataset that takes ownership of records.
func New(records []models.RawRecord, source string) *Dataset {
	return &Dataset{
		records:    records,
		categories: distinct(records, func(r models.RawRecord) string { return r.Category }),
		regions:    distinct(records, func(r models.RawRecord) string { return r.Region }),
		source:     source,
		loadedAt:   time.Now(),
	}
}

// Records returns the raw records. Callers must not modify them.
func (d *Dataset) Records() []models.RawRecord {
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Categories returns the sorted distinct categories.
func (d *Dataset) Categories() []string {
	return append([]string(nil), d.categories...)
}

// Regions returns the sorted distinct regions.
func (d *Dataset) Regions() []string {
	return append([]string(nil), d.regions...)
}

// Source describes where the records were loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

func distinct(records []models.RawRecord, key func(models.RawRecord) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}
