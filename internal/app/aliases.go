package app

import (
	"math"
	"strconv"
	"strings"

	"partprice/internal/domain"
)

/********** alias registry (single source of truth) **********/

const (
	fieldPartNumber   = "part_number"
	fieldManufacturer = "manufacturer"
	fieldOurPrice     = "our_price"
)

// Order matters: the first key present with a non-null value wins.
var rowAliases = map[string][]string{
	fieldPartNumber:   {"Herstellerteilenummer", "PartNumber", "part_number", "part no"},
	fieldManufacturer: {"Hersteller", "Manufacturer", "manufacturer"},
	fieldOurPrice:     {"Verkaufspreis", "OurPrice", "our_price"},
}

/********** tiny helpers **********/

// firstStringAlias: first alias holding a non-blank string (numbers are formatted).
func firstStringAlias(row domain.Row, field string) *string {
	for _, k := range rowAliases[field] {
		if s, ok := asString(row[k]); ok {
			return &s
		}
	}
	return nil
}

// firstFloatAlias: first alias holding a number. Zero is a value, not a miss.
func firstFloatAlias(row domain.Row, field string) *float64 {
	for _, k := range rowAliases[field] {
		if f, ok := asFloat(row[k]); ok {
			return &f
		}
	}
	return nil
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case *string:
		if t == nil {
			return "", false
		}
		return asString(*t)
	case float64:
		if !finite(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}

// asFloat accepts float64/float32/int/int64 and strings like "8,0".
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, finite(t)
	case float32:
		return float64(t), finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case *float64:
		if t == nil {
			return 0, false
		}
		return asFloat(*t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// NaN and ±Inf ("inf", "1e400") count as null.
func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// partRow reframes an uploaded part into the alias schema.
func partRow(p domain.Part) domain.Row {
	return domain.Row{
		"Hersteller":            p.Manufacturer,
		"Herstellerteilenummer": p.PartNumber,
	}
}
