// Evaluates filter conditions against records.

package engine

import (
	"strings"
	"time"
)

// Matches reports whether the record satisfies every condition.
//
// Evaluation is conjunction only; the Combinator field on conditions is not
// consulted. A condition referencing a deleted property, or using an operator
// unknown for the property's type, evaluates to true (fail-open) so a stale
// filter never hides all records.
func Matches(r *Record, conditions []FilterCondition, props []Property) bool {
	for i := range conditions {
		if !matchesCondition(r, &conditions[i], props) {
			return false
		}
	}
	return true
}

// FilterRecords returns the subset of records matching all conditions.
func FilterRecords(records []*Record, conditions []FilterCondition, props []Property) []*Record {
	if len(conditions) == 0 {
		return records
	}
	result := make([]*Record, 0, len(records))
	for _, r := range records {
		if Matches(r, conditions, props) {
			result = append(result, r)
		}
	}
	return result
}

// matchesCondition evaluates a single condition.
func matchesCondition(r *Record, c *FilterCondition, props []Property) bool {
	p := PropertyByID(props, c.Property)
	if p == nil {
		return true // fail-open on schema drift
	}

	value := Value(r, p)

	switch p.Type {
	case PropertyTypeText, PropertyTypeEmail, PropertyTypeURL, PropertyTypePhone:
		return matchText(value, c.Condition, c.Value)
	case PropertyTypeNumber:
		return matchNumber(value, c.Condition, c.Value)
	case PropertyTypeDate, PropertyTypeCreatedTime, PropertyTypeLastEditedTime:
		return matchDate(value, c.Condition, c.Value)
	case PropertyTypeCheckbox:
		return matchCheckbox(value, c.Condition)
	case PropertyTypeSelect, PropertyTypeStatus:
		return matchSelect(value, c.Condition, c.Value)
	case PropertyTypeMultiSelect:
		return matchMultiSelect(value, c.Condition, c.Value)
	default:
		return true // no operator table for this type
	}
}

// valueEmpty checks a normalized value for emptiness.
func valueEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func matchText(value any, op Operator, filterValue any) bool {
	switch op {
	case OpIsEmpty:
		return valueEmpty(value)
	case OpIsNotEmpty:
		return !valueEmpty(value)
	}

	vs, _ := value.(string)
	fs, _ := normalizeText(filterValue).(string)
	vl := strings.ToLower(vs)
	fl := strings.ToLower(fs)

	switch op {
	case OpEquals:
		return vl == fl
	case OpNotEquals:
		return vl != fl
	case OpContains:
		return strings.Contains(vl, fl)
	case OpNotContains:
		return !strings.Contains(vl, fl)
	case OpStartsWith:
		return strings.HasPrefix(vl, fl)
	case OpEndsWith:
		return strings.HasSuffix(vl, fl)
	default:
		return true
	}
}

func matchNumber(value any, op Operator, filterValue any) bool {
	switch op {
	case OpIsEmpty:
		return value == nil
	case OpIsNotEmpty:
		return value != nil
	}

	v, vok := value.(float64)
	f, fok := normalizeNumber(filterValue).(float64)
	if !vok || !fok {
		// A null cell never satisfies a numeric comparison.
		return false
	}

	switch op {
	case OpEquals:
		return v == f
	case OpNotEquals:
		return v != f
	case OpGreaterThan:
		return v > f
	case OpLessThan:
		return v < f
	case OpGreaterOrEqual:
		return v >= f
	case OpLessOrEqual:
		return v <= f
	default:
		return true
	}
}

// dayOf truncates epoch seconds to the UTC day.
func dayOf(epoch float64) int64 {
	t := time.Unix(int64(epoch), 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

func matchDate(value any, op Operator, filterValue any) bool {
	switch op {
	case OpIsEmpty:
		return value == nil
	case OpIsNotEmpty:
		return value != nil
	}

	v, vok := value.(float64)
	f, fok := normalizeEpoch(filterValue).(float64)
	if !vok || !fok {
		return false
	}

	switch op {
	case OpEquals:
		// Day granularity: two instants on the same UTC day are equal.
		return dayOf(v) == dayOf(f)
	case OpNotEquals:
		return dayOf(v) != dayOf(f)
	case OpBefore:
		return v < f
	case OpAfter:
		return v > f
	case OpOnOrBefore:
		return v <= f
	case OpOnOrAfter:
		return v >= f
	default:
		return true
	}
}

func matchCheckbox(value any, op Operator) bool {
	v, _ := value.(bool)
	switch op {
	case OpIsChecked:
		return v
	case OpIsUnchecked:
		return !v
	default:
		return true
	}
}

func matchSelect(value any, op Operator, filterValue any) bool {
	switch op {
	case OpIsEmpty:
		return valueEmpty(value)
	case OpIsNotEmpty:
		return !valueEmpty(value)
	}

	v, _ := value.(string)
	f, _ := normalizeOption(filterValue).(string)

	switch op {
	case OpIs:
		return v != "" && v == f
	case OpIsNot:
		return v != f
	default:
		return true
	}
}

// filterOptionIDs normalizes a filter value to a list of option IDs,
// accepting a single option or an array.
func filterOptionIDs(filterValue any) []string {
	if ids := normalizeOptionList(filterValue); len(ids) > 0 {
		return ids
	}
	if id, ok := normalizeOption(filterValue).(string); ok {
		return []string{id}
	}
	return nil
}

func matchMultiSelect(value any, op Operator, filterValue any) bool {
	v, _ := value.([]string)
	switch op {
	case OpIsEmpty:
		return len(v) == 0
	case OpIsNotEmpty:
		return len(v) > 0
	}

	wanted := filterOptionIDs(filterValue)

	contains := func(id string) bool {
		for _, got := range v {
			if got == id {
				return true
			}
		}
		return false
	}

	switch op {
	case OpContains:
		for _, id := range wanted {
			if contains(id) {
				return true
			}
		}
		return false
	case OpNotContains:
		for _, id := range wanted {
			if contains(id) {
				return false
			}
		}
		return true
	case OpContainsAll:
		for _, id := range wanted {
			if !contains(id) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
