// Orchestrates the materialization pipeline:
// filter → sort → group → columns → paginate.

package engine

import (
	"strings"
)

// DefaultPageSize is used when neither the view settings nor the query state
// specify a page size.
const DefaultPageSize = 50

// QueryState is the explicit, serializable query a caller layers on top of a
// saved view. Nil slices mean "use the view's saved value"; the local
// (pre-save) state is the source of truth for rendering, independent of
// whether a settings save has completed.
type QueryState struct {
	Filters           []FilterCondition `json:"filters,omitempty"`
	Sorts             []SortConfig      `json:"sorts,omitempty"`
	VisibleProperties []string          `json:"visible_properties,omitempty"`
	Search            string            `json:"search,omitempty"`
	Page              int               `json:"page,omitempty"`
	PageSize          int               `json:"page_size,omitempty"`
}

// MaterializedView is the exact set of rows, columns and groups to render.
type MaterializedView struct {
	Rows     []*Record  `json:"rows"`
	Columns  []Property `json:"columns"`
	Groups   []Group    `json:"groups,omitempty"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	HasMore  bool       `json:"has_more"`
}

// Materialize runs the full pipeline over a record snapshot.
//
// The pipeline is deterministic: the same snapshot, schema, view and query
// state always produce the same result, and materializing an accumulated
// snapshot yields the prior result's rows as a prefix. The input slice is not
// reordered.
func Materialize(records []*Record, props []Property, view *View, q *QueryState) *MaterializedView {
	filters := view.Filters
	sorts := view.Sorts
	settings := view.Settings
	if q != nil {
		if q.Filters != nil {
			filters = q.Filters
		}
		if q.Sorts != nil {
			sorts = q.Sorts
		}
		if q.VisibleProperties != nil {
			settings.VisibleProperties = q.VisibleProperties
		}
	}

	// (1) Filter.
	filtered := FilterRecords(records, filters, props)
	if q != nil && q.Search != "" {
		filtered = SearchRecords(filtered, q.Search, props)
	}

	// (2) Sort. Work on a copy so the caller's snapshot keeps its order.
	rows := make([]*Record, len(filtered))
	copy(rows, filtered)
	SortRecords(rows, sorts, props)

	result := &MaterializedView{
		Total:    len(rows),
		Columns:  ResolveColumns(props, &settings).Visible,
		PageSize: pageSize(&settings, q),
	}
	if q != nil {
		result.Page = q.Page
	}

	// (3) Group the full filtered+sorted set; sort order is preserved within
	// each bucket.
	if view.Grouped() {
		result.Groups = GroupRecords(rows, GroupingProperty(props), settings.ShowUngroupedEnabled())
	}

	// (4) Paginate the flat rows.
	start := result.Page * result.PageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + result.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	result.Rows = rows[start:end]
	result.HasMore = end < len(rows)
	return result
}

func pageSize(s *ViewSettings, q *QueryState) int {
	if q != nil && q.PageSize > 0 {
		return q.PageSize
	}
	if s != nil && s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

// SearchRecords keeps records where any property value contains the query,
// case-insensitively.
func SearchRecords(records []*Record, query string, props []Property) []*Record {
	needle := strings.ToLower(query)
	result := make([]*Record, 0, len(records))
	for _, r := range records {
		for i := range props {
			if strings.Contains(strings.ToLower(searchText(Value(r, &props[i]))), needle) {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// searchText flattens a normalized value to searchable text.
func searchText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case nil:
		return ""
	default:
		s, _ := normalizeText(v).(string)
		return s
	}
}
