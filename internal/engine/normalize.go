// Normalizes heterogeneous stored property values to one canonical shape
// per property type.

package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Canonical shapes produced by Normalize, per property type:
//
//	select/status                → option ID string, or nil
//	multi_select                 → []string of option IDs (never nil)
//	date/created_time/last_edit  → epoch seconds float64, or nil
//	checkbox                     → bool
//	number                       → float64, or nil
//	everything else              → string, or nil
//
// Normalize is pure and total: unparsable input degrades to the type's empty
// shape, never an error. It is also idempotent, so already-normalized values
// pass through unchanged.

// Normalize converts a raw stored value to its canonical shape for the
// property's type.
func Normalize(p *Property, raw any) any {
	if p == nil {
		return normalizeText(raw)
	}
	switch p.Type {
	case PropertyTypeSelect, PropertyTypeStatus:
		return normalizeOption(raw)
	case PropertyTypeMultiSelect:
		return normalizeOptionList(raw)
	case PropertyTypeDate, PropertyTypeCreatedTime, PropertyTypeLastEditedTime:
		return normalizeEpoch(raw)
	case PropertyTypeCheckbox:
		return normalizeBool(raw)
	case PropertyTypeNumber:
		return normalizeNumber(raw)
	default:
		return normalizeText(raw)
	}
}

// normalizeOption reduces a select value to its option ID.
// Both the bare option-id string and the embedded option object forms are
// accepted; empty input normalizes to nil.
func normalizeOption(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return v
	case map[string]any:
		// Embedded {id, label, color} object as stored by some writers.
		if id, ok := v["id"].(string); ok && id != "" {
			return id
		}
		return nil
	case SelectOption:
		if v.ID == "" {
			return nil
		}
		return v.ID
	case *SelectOption:
		if v == nil || v.ID == "" {
			return nil
		}
		return v.ID
	default:
		return normalizeText(raw)
	}
}

// normalizeOptionList maps each element through the select rule.
// Non-array input normalizes to an empty list.
func normalizeOptionList(raw any) []string {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		result := make([]string, 0, len(v))
		for _, s := range v {
			if s != "" {
				result = append(result, s)
			}
		}
		return result
	case []SelectOption:
		result := make([]string, 0, len(v))
		for _, o := range v {
			if o.ID != "" {
				result = append(result, o.ID)
			}
		}
		return result
	default:
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := normalizeOption(item).(string); ok {
			result = append(result, id)
		}
	}
	return result
}

// normalizeEpoch parses a date value to epoch seconds.
func normalizeEpoch(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return float64(v.Unix())
	case string:
		return parseDateString(v)
	default:
		return nil
	}
}

// parseDateString converts a date string to epoch seconds (float64).
// Date-only values are parsed as midnight UTC.
func parseDateString(s string) any {
	if s == "" {
		return nil
	}
	// Try datetime format first: "2025-10-22T12:30:00.000Z"
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return float64(t.Unix())
	}
	// Try datetime without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return float64(t.Unix())
	}
	// Try date-only format: "2025-10-22" → midnight UTC
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return float64(t.Unix())
	}
	// Bare epoch seconds round-trip (already normalized, re-encoded as text)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return nil // unparseable
}

// normalizeBool coerces "true"/true to true, everything else to false.
func normalizeBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// normalizeNumber coerces numeric values and numeric strings to float64.
func normalizeNumber(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		return nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		return nil
	default:
		return nil
	}
}

// normalizeText passes values through as strings; empty input is nil.
func normalizeText(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return v
	case float64:
		// Format without unnecessary decimal places for whole numbers
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil
		}
		return s
	}
}

// Value returns the normalized value of a property on a record.
// System time properties read from the record metadata, everything else from
// the property map keyed by property ID.
func Value(r *Record, p *Property) any {
	if p == nil {
		return nil
	}
	switch p.Type {
	case PropertyTypeCreatedTime:
		return normalizeEpoch(r.Created)
	case PropertyTypeLastEditedTime:
		return normalizeEpoch(r.Modified)
	default:
		return Normalize(p, r.Properties[p.ID])
	}
}
