// Implements stable multi-key ordering over normalized values.

package engine

import (
	"cmp"
	"slices"
	"strings"
)

// SortRecords sorts records in place by the given sort criteria.
//
// The sort is stable: records whose keys all tie keep their original relative
// order. Null values always sort last regardless of direction. A sort entry
// referencing a property no longer in the schema is skipped.
func SortRecords(records []*Record, sorts []SortConfig, props []Property) {
	if len(sorts) == 0 {
		return
	}
	slices.SortStableFunc(records, func(a, b *Record) int {
		for i := range sorts {
			s := &sorts[i]
			p := PropertyByID(props, s.Property)
			if p == nil {
				continue // skip-key on schema drift
			}
			va := Value(a, p)
			vb := Value(b, p)
			c := compareNormalized(va, vb)
			if c == 0 {
				continue
			}
			// Nulls last is applied before the direction flip.
			if va == nil || vb == nil {
				return c
			}
			if s.Direction == SortDesc {
				return -c
			}
			return c
		}
		return 0
	})
}

// compareNormalized compares two normalized values, returning -1, 0, or 1.
// Nil sorts after everything else.
func compareNormalized(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	switch va := a.(type) {
	case float64:
		if vb, ok := b.(float64); ok {
			return cmp.Compare(va, vb)
		}
	case string:
		if vb, ok := b.(string); ok {
			if c := cmp.Compare(strings.ToLower(va), strings.ToLower(vb)); c != 0 {
				return c
			}
			// Case-insensitive tie: fall back to exact compare for determinism.
			return cmp.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			if va == vb {
				return 0
			}
			if !va && vb {
				return -1 // false < true
			}
			return 1
		}
	case []string:
		if vb, ok := b.([]string); ok {
			return cmp.Compare(
				strings.ToLower(strings.Join(va, ",")),
				strings.ToLower(strings.Join(vb, ",")),
			)
		}
	}

	// Mixed shapes should not happen on normalized values; treat as equal to
	// preserve stability.
	return 0
}
