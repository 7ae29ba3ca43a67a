// Defines view types for saved table configurations.

package engine

import (
	"slices"

	"github.com/rowdb/rowdb/internal/ksid"
)

// View represents a saved table view configuration.
type View struct {
	ID      ksid.ID  `json:"id" jsonschema:"description=Unique view identifier"`
	Name    string   `json:"name" jsonschema:"description=View display name"`
	Type    ViewType `json:"type" jsonschema:"description=View layout type (table/board/gallery/list/calendar/timeline)"`
	Default bool     `json:"default,omitempty" jsonschema:"description=Whether this is the default view"`

	// Data shaping
	Filters []FilterCondition `json:"filters,omitempty" jsonschema:"description=Filter conditions"`
	Sorts   []SortConfig      `json:"sorts,omitempty" jsonschema:"description=Sort order"`

	// Display configuration
	Settings ViewSettings `json:"settings" jsonschema:"description=Column visibility and pagination settings"`
}

// Clone returns a deep copy of the View. Mutating the clone never reaches
// the slices of the original, which may be shared through a cache.
func (v *View) Clone() *View {
	c := *v
	c.Filters = slices.Clone(v.Filters)
	c.Sorts = slices.Clone(v.Sorts)
	c.Settings = *v.Settings.Clone()
	return &c
}

// Validate checks that the View is valid.
func (v *View) Validate() error {
	if v.ID.IsZero() {
		return errIDRequired
	}
	if v.Name == "" {
		return errNameRequired
	}
	return nil
}

// Grouped reports whether the view type partitions records into buckets.
func (v *View) Grouped() bool {
	switch v.Type {
	case ViewTypeBoard, ViewTypeList, ViewTypeGallery, ViewTypeCalendar:
		return true
	default:
		return false
	}
}

// ViewType defines the layout type for a view.
type ViewType string

const (
	// ViewTypeTable displays records in a spreadsheet-like table.
	ViewTypeTable ViewType = "table"
	// ViewTypeBoard displays records in a kanban board grouped by a property.
	ViewTypeBoard ViewType = "board"
	// ViewTypeGallery displays records as cards in a grid.
	ViewTypeGallery ViewType = "gallery"
	// ViewTypeList displays records in a simple list.
	ViewTypeList ViewType = "list"
	// ViewTypeCalendar displays records on a calendar by date property.
	ViewTypeCalendar ViewType = "calendar"
	// ViewTypeTimeline displays records on a horizontal time axis.
	ViewTypeTimeline ViewType = "timeline"
)

// ViewSettings holds per-view column visibility and pagination configuration.
//
// VisibleProperties and HiddenProperties are mutually exclusive sets of
// property IDs. When VisibleProperties is non-empty, membership is the sole
// visibility signal; when both lists are empty, the property-level Visible
// flag applies instead.
type ViewSettings struct {
	VisibleProperties []string `json:"visible_properties,omitempty" jsonschema:"description=Property IDs shown as columns"`
	HiddenProperties  []string `json:"hidden_properties,omitempty" jsonschema:"description=Property IDs hidden from columns"`
	// ShowUngrouped controls whether the synthetic ungrouped bucket is
	// displayed. Unset means true.
	ShowUngrouped *bool `json:"show_ungrouped,omitempty" jsonschema:"description=Whether to display the ungrouped bucket"`
	PageSize      int   `json:"page_size,omitempty" jsonschema:"description=Records per page"`
}

// Clone returns a deep copy of the settings.
func (s *ViewSettings) Clone() *ViewSettings {
	c := *s
	c.VisibleProperties = slices.Clone(s.VisibleProperties)
	c.HiddenProperties = slices.Clone(s.HiddenProperties)
	if s.ShowUngrouped != nil {
		v := *s.ShowUngrouped
		c.ShowUngrouped = &v
	}
	return &c
}

// ShowUngroupedEnabled returns the effective ShowUngrouped value.
func (s *ViewSettings) ShowUngroupedEnabled() bool {
	return s.ShowUngrouped == nil || *s.ShowUngrouped
}

// FilterCondition defines a single property predicate.
//
// Combinator is carried per condition for forward compatibility, but
// evaluation always applies full conjunction (AND) across the conditions of
// a view.
type FilterCondition struct {
	Property   string     `json:"property" jsonschema:"description=Property ID to filter on"`
	Condition  Operator   `json:"condition" jsonschema:"description=Filter operator"`
	Value      any        `json:"value,omitempty" jsonschema:"description=Value to compare against"`
	Combinator Combinator `json:"combinator,omitempty" jsonschema:"description=Reserved; AND is always applied"`
}

// Combinator joins filter conditions.
type Combinator string

const (
	// CombinatorAnd requires all conditions to match.
	CombinatorAnd Combinator = "and"
	// CombinatorOr is accepted in the data model but not evaluated.
	CombinatorOr Combinator = "or"
)

// SortConfig defines the sort order for a property.
// Earlier entries take precedence; later entries break ties.
type SortConfig struct {
	Property  string  `json:"property" jsonschema:"description=Property ID to sort by"`
	Direction SortDir `json:"direction" jsonschema:"description=Sort direction (asc/desc)"`
}

// SortDir defines the sort direction.
type SortDir string

const (
	// SortAsc sorts in ascending order (A-Z, 0-9, oldest-newest).
	SortAsc SortDir = "asc"
	// SortDesc sorts in descending order (Z-A, 9-0, newest-oldest).
	SortDesc SortDir = "desc"
)

// UngroupedID identifies the synthetic bucket for records whose grouping
// value matches no option.
const UngroupedID = "ungrouped"

// Group is a named bucket of records produced by the grouping engine.
type Group struct {
	ID    string `json:"id" jsonschema:"description=Option ID or the ungrouped sentinel"`
	Name  string `json:"name" jsonschema:"description=Bucket display name"`
	Color string `json:"color,omitempty" jsonschema:"description=Bucket color"`
	// Hidden marks the bucket as suppressed for display. Records are still
	// assigned to hidden buckets so none are lost.
	Hidden  bool      `json:"hidden,omitempty" jsonschema:"description=Whether the bucket is suppressed for display"`
	Records []*Record `json:"records" jsonschema:"description=Records assigned to this bucket"`
}
