// Defines the per-property-type filter operator tables.

package engine

// Operator identifies a filter comparison.
type Operator string

const (
	// OpContains matches if the value contains the filter value.
	OpContains Operator = "contains"
	// OpNotContains matches if the value does not contain the filter value.
	OpNotContains Operator = "not_contains"
	// OpContainsAll matches if the value contains every element of the filter value.
	OpContainsAll Operator = "contains_all"
	// OpEquals matches if the value equals the filter value.
	OpEquals Operator = "equals"
	// OpNotEquals matches if the value does not equal the filter value.
	OpNotEquals Operator = "not_equals"
	// OpStartsWith matches if the value starts with the filter value.
	OpStartsWith Operator = "starts_with"
	// OpEndsWith matches if the value ends with the filter value.
	OpEndsWith Operator = "ends_with"
	// OpGreaterThan matches if the value is greater than the filter value.
	OpGreaterThan Operator = "greater_than"
	// OpLessThan matches if the value is less than the filter value.
	OpLessThan Operator = "less_than"
	// OpGreaterOrEqual matches if the value is greater than or equal to the filter value.
	OpGreaterOrEqual Operator = "greater_than_or_equal"
	// OpLessOrEqual matches if the value is less than or equal to the filter value.
	OpLessOrEqual Operator = "less_than_or_equal"
	// OpBefore matches if the date value is strictly before the filter value.
	OpBefore Operator = "before"
	// OpAfter matches if the date value is strictly after the filter value.
	OpAfter Operator = "after"
	// OpOnOrBefore matches if the date value is on or before the filter value.
	OpOnOrBefore Operator = "on_or_before"
	// OpOnOrAfter matches if the date value is on or after the filter value.
	OpOnOrAfter Operator = "on_or_after"
	// OpIsChecked matches checked checkbox values.
	OpIsChecked Operator = "is_checked"
	// OpIsUnchecked matches unchecked checkbox values.
	OpIsUnchecked Operator = "is_unchecked"
	// OpIs matches if the select value is the filter option.
	OpIs Operator = "is"
	// OpIsNot matches if the select value is not the filter option.
	OpIsNot Operator = "is_not"
	// OpIsEmpty matches null, empty string, and empty array values.
	OpIsEmpty Operator = "is_empty"
	// OpIsNotEmpty is the negation of OpIsEmpty.
	OpIsNotEmpty Operator = "is_not_empty"
)

var (
	textOps = []Operator{
		OpContains, OpNotContains, OpEquals, OpNotEquals,
		OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
	}
	numberOps = []Operator{
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpGreaterOrEqual, OpLessOrEqual, OpIsEmpty, OpIsNotEmpty,
	}
	dateOps = []Operator{
		OpEquals, OpNotEquals, OpBefore, OpAfter,
		OpOnOrBefore, OpOnOrAfter, OpIsEmpty, OpIsNotEmpty,
	}
	checkboxOps    = []Operator{OpIsChecked, OpIsUnchecked}
	selectOps      = []Operator{OpIs, OpIsNot, OpIsEmpty, OpIsNotEmpty}
	multiSelectOps = []Operator{OpContains, OpNotContains, OpContainsAll, OpIsEmpty, OpIsNotEmpty}
)

// OperatorsFor returns the operators applicable to a property type.
// Filter-building UIs consume this table; types without a table return nil
// and conditions on them evaluate fail-open.
func OperatorsFor(t PropertyType) []Operator {
	switch t {
	case PropertyTypeText, PropertyTypeEmail, PropertyTypeURL, PropertyTypePhone:
		return textOps
	case PropertyTypeNumber:
		return numberOps
	case PropertyTypeDate, PropertyTypeCreatedTime, PropertyTypeLastEditedTime:
		return dateOps
	case PropertyTypeCheckbox:
		return checkboxOps
	case PropertyTypeSelect, PropertyTypeStatus:
		return selectOps
	case PropertyTypeMultiSelect:
		return multiSelectOps
	default:
		return nil
	}
}

// OperatorTable returns the full operator table keyed by property type.
func OperatorTable() map[PropertyType][]Operator {
	return map[PropertyType][]Operator{
		PropertyTypeText:           textOps,
		PropertyTypeEmail:          textOps,
		PropertyTypeURL:            textOps,
		PropertyTypePhone:          textOps,
		PropertyTypeNumber:         numberOps,
		PropertyTypeDate:           dateOps,
		PropertyTypeCreatedTime:    dateOps,
		PropertyTypeLastEditedTime: dateOps,
		PropertyTypeCheckbox:       checkboxOps,
		PropertyTypeSelect:         selectOps,
		PropertyTypeStatus:         selectOps,
		PropertyTypeMultiSelect:    multiSelectOps,
	}
}
