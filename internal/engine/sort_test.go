// Tests for the sort engine.

package engine

import (
	"testing"
)

func TestSortRecordsNullsLast(t *testing.T) {
	props := []Property{{ID: "n", Type: PropertyTypeNumber}}
	records := []*Record{
		makeRecord(map[string]any{"n": float64(3)}),
		makeRecord(map[string]any{"n": float64(1)}),
		makeRecord(map[string]any{"n": nil}),
		makeRecord(map[string]any{"n": float64(2)}),
	}

	t.Run("ascending", func(t *testing.T) {
		r := append([]*Record(nil), records...)
		SortRecords(r, []SortConfig{{Property: "n", Direction: SortAsc}}, props)
		want := []any{float64(1), float64(2), float64(3), nil}
		for i, w := range want {
			if got := Normalize(&props[0], r[i].Properties["n"]); got != w {
				t.Errorf("position %d: got %v, want %v", i, got, w)
			}
		}
	})

	t.Run("descending keeps nulls last", func(t *testing.T) {
		r := append([]*Record(nil), records...)
		SortRecords(r, []SortConfig{{Property: "n", Direction: SortDesc}}, props)
		want := []any{float64(3), float64(2), float64(1), nil}
		for i, w := range want {
			if got := Normalize(&props[0], r[i].Properties["n"]); got != w {
				t.Errorf("position %d: got %v, want %v", i, got, w)
			}
		}
	})
}

// Sorting by a key that is constant across all records must preserve the
// original order exactly.
func TestSortRecordsStability(t *testing.T) {
	props := []Property{
		{ID: "k", Type: PropertyTypeText},
		{ID: "name", Type: PropertyTypeText},
	}
	records := []*Record{
		makeRecord(map[string]any{"k": "same", "name": "first"}),
		makeRecord(map[string]any{"k": "same", "name": "second"}),
		makeRecord(map[string]any{"k": "same", "name": "third"}),
		makeRecord(map[string]any{"k": "same", "name": "fourth"}),
	}
	r := append([]*Record(nil), records...)
	SortRecords(r, []SortConfig{{Property: "k", Direction: SortAsc}}, props)
	for i := range records {
		if r[i] != records[i] {
			t.Fatalf("position %d reordered under constant sort key", i)
		}
	}
}

func TestSortRecordsMultiKey(t *testing.T) {
	props := []Property{
		{ID: "dept", Type: PropertyTypeText},
		{ID: "name", Type: PropertyTypeText},
	}
	records := []*Record{
		makeRecord(map[string]any{"dept": "Engineering", "name": "Charlie"}),
		makeRecord(map[string]any{"dept": "Engineering", "name": "Alice"}),
		makeRecord(map[string]any{"dept": "Sales", "name": "Bob"}),
	}

	SortRecords(records, []SortConfig{
		{Property: "dept", Direction: SortAsc},
		{Property: "name", Direction: SortAsc},
	}, props)

	if records[0].Properties["name"] != "Alice" {
		t.Errorf("expected Alice first, got %v", records[0].Properties["name"])
	}
	if records[1].Properties["name"] != "Charlie" {
		t.Errorf("expected Charlie second, got %v", records[1].Properties["name"])
	}
	if records[2].Properties["name"] != "Bob" {
		t.Errorf("expected Bob third, got %v", records[2].Properties["name"])
	}
}

func TestSortRecordsTypeAware(t *testing.T) {
	t.Run("text is case-insensitive", func(t *testing.T) {
		props := []Property{{ID: "t", Type: PropertyTypeText}}
		records := []*Record{
			makeRecord(map[string]any{"t": "banana"}),
			makeRecord(map[string]any{"t": "Apple"}),
		}
		SortRecords(records, []SortConfig{{Property: "t", Direction: SortAsc}}, props)
		if records[0].Properties["t"] != "Apple" {
			t.Errorf("expected Apple first, got %v", records[0].Properties["t"])
		}
	})

	t.Run("numeric strings compare numerically", func(t *testing.T) {
		props := []Property{{ID: "n", Type: PropertyTypeNumber}}
		records := []*Record{
			makeRecord(map[string]any{"n": "10"}),
			makeRecord(map[string]any{"n": "9"}),
		}
		SortRecords(records, []SortConfig{{Property: "n", Direction: SortAsc}}, props)
		if records[0].Properties["n"] != "9" {
			t.Errorf("expected 9 first, got %v", records[0].Properties["n"])
		}
	})

	t.Run("checkbox false before true", func(t *testing.T) {
		props := []Property{{ID: "c", Type: PropertyTypeCheckbox}}
		records := []*Record{
			makeRecord(map[string]any{"c": true}),
			makeRecord(map[string]any{"c": false}),
		}
		SortRecords(records, []SortConfig{{Property: "c", Direction: SortAsc}}, props)
		if records[0].Properties["c"] != false {
			t.Errorf("expected false first")
		}
	})

	t.Run("dates compare as instants", func(t *testing.T) {
		props := []Property{{ID: "d", Type: PropertyTypeDate}}
		records := []*Record{
			makeRecord(map[string]any{"d": "2025-06-02"}),
			makeRecord(map[string]any{"d": "2025-06-01"}),
		}
		SortRecords(records, []SortConfig{{Property: "d", Direction: SortAsc}}, props)
		if records[0].Properties["d"] != "2025-06-01" {
			t.Errorf("expected the earlier date first")
		}
	})
}

func TestSortRecordsMissingPropertySkipsKey(t *testing.T) {
	props := []Property{{ID: "name", Type: PropertyTypeText}}
	records := []*Record{
		makeRecord(map[string]any{"name": "b"}),
		makeRecord(map[string]any{"name": "a"}),
	}
	SortRecords(records, []SortConfig{
		{Property: "gone", Direction: SortDesc},
		{Property: "name", Direction: SortAsc},
	}, props)
	if records[0].Properties["name"] != "a" {
		t.Errorf("expected the deleted-property key to be skipped")
	}
}
