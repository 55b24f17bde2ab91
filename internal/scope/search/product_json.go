package search

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Layouts accepted for createdAt and updatedAt, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time for empty or unrecognised values,
// which then sort like a missing timestamp.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseJSONPrice accepts any JSON number, including exponent forms like 1.4e8,
// and numeric strings. Anything else is treated as no price.
func parseJSONPrice(v any) *int64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	return PriceOf(int64(f))
}

// UnmarshalJSON decodes a catalog record, tolerating date-only timestamps
// and prices written as floats.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		Price     any    `json:"price"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return err
	}

	*p = Product(aux.plain)
	p.Price = parseJSONPrice(aux.Price)
	p.CreatedAt = parseTime(aux.CreatedAt)
	p.UpdatedAt = parseTime(aux.UpdatedAt)
	return nil
}
