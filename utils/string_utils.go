package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateFormats lists the layouts accepted for dataset dates, most specific first.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
}

// ParseDate parses a date in any of the supported formats.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, format := range dateFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q: %w", value, lastErr)
}

// NormalizeHeader turns a column header such as "Sub-Category" into "sub_category".
func NormalizeHeader(header string) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	header = strings.NewReplacer(" ", "_", "-", "_").Replace(header)
	return strings.ToLower(header)
}
