package dto

import (
	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

// --- Health ---

// HealthRequest is a request for the health check.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// --- Databases ---

// ListDatabasesRequest is a request to list all databases.
type ListDatabasesRequest struct{}

// Validate is a no-op for ListDatabasesRequest.
func (r *ListDatabasesRequest) Validate() error {
	return nil
}

// CreateDatabaseRequest is a request to create a database.
type CreateDatabaseRequest struct {
	Title      string            `json:"title"`
	Properties []engine.Property `json:"properties"`
}

// Validate validates the create database request fields.
func (r *CreateDatabaseRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	if len(r.Properties) == 0 {
		return MissingField("properties")
	}
	seen := make(map[string]struct{}, len(r.Properties))
	for _, p := range r.Properties {
		if p.ID == "" {
			return MissingField("properties[].id")
		}
		if _, ok := seen[p.ID]; ok {
			return InvalidField("properties", "duplicate property id: "+p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// GetDatabaseRequest is a request to get a database.
type GetDatabaseRequest struct {
	ID ksid.ID `path:"id"`
}

// Validate validates the get database request fields.
func (r *GetDatabaseRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	return nil
}

// DeleteDatabaseRequest is a request to delete a database.
type DeleteDatabaseRequest struct {
	ID ksid.ID `path:"id"`
}

// Validate validates the delete database request fields.
func (r *DeleteDatabaseRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	return nil
}

// --- Records ---

// CreateRecordRequest is a request to create a record.
type CreateRecordRequest struct {
	ID         ksid.ID        `path:"id"`
	Properties map[string]any `json:"properties"`
}

// Validate validates the create record request fields.
func (r *CreateRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	return nil
}

// GetRecordRequest is a request to get a record.
type GetRecordRequest struct {
	ID       ksid.ID `path:"id"`
	RecordID ksid.ID `path:"rid"`
}

// Validate validates the get record request fields.
func (r *GetRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	return nil
}

// UpdateRecordRequest is a request to replace all record values.
type UpdateRecordRequest struct {
	ID         ksid.ID        `path:"id"`
	RecordID   ksid.ID        `path:"rid"`
	Properties map[string]any `json:"properties"`
}

// Validate validates the update record request fields.
func (r *UpdateRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	return nil
}

// DeleteRecordRequest is a request to delete a record.
type DeleteRecordRequest struct {
	ID       ksid.ID `path:"id"`
	RecordID ksid.ID `path:"rid"`
}

// Validate validates the delete record request fields.
func (r *DeleteRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	return nil
}

// UpdateCellRequest is a request to set one property value on a record.
type UpdateCellRequest struct {
	ID         ksid.ID `path:"id"`
	RecordID   ksid.ID `path:"rid"`
	PropertyID string  `path:"pid"`
	Value      any     `json:"value"`
}

// Validate validates the update cell request fields.
func (r *UpdateCellRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	if r.PropertyID == "" {
		return MissingField("pid")
	}
	return nil
}

// ArchiveRecordRequest is a request to archive or restore a record.
type ArchiveRecordRequest struct {
	ID       ksid.ID `json:"-" path:"id"`
	RecordID ksid.ID `json:"-" path:"rid"`
	Archived bool    `json:"archived"`
}

// Validate validates the archive record request fields.
func (r *ArchiveRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	return nil
}

// MoveRecordRequest is a request to move a record to another group.
type MoveRecordRequest struct {
	ID       ksid.ID `path:"id"`
	RecordID ksid.ID `path:"rid"`
	GroupID  string  `json:"group_id"`
}

// Validate validates the move record request fields.
func (r *MoveRecordRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.RecordID.IsZero() {
		return MissingField("rid")
	}
	if r.GroupID == "" {
		return MissingField("group_id")
	}
	return nil
}

// --- Views ---

// CreateViewRequest is a request to create a view.
type CreateViewRequest struct {
	ID   ksid.ID `json:"-" path:"id"`
	Name string  `json:"name"`
	Type string  `json:"type"`
}

// Validate validates the create view request fields.
func (r *CreateViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.Name == "" {
		return MissingField("name")
	}
	switch engine.ViewType(r.Type) {
	case engine.ViewTypeTable, engine.ViewTypeBoard, engine.ViewTypeList,
		engine.ViewTypeGallery, engine.ViewTypeCalendar, engine.ViewTypeTimeline:
		return nil
	}
	return InvalidField("type", "unknown view type: "+r.Type)
}

// UpdateViewRequest is a request to update a view. Nil slices leave the
// corresponding saved state untouched; non-nil slices replace it whole.
type UpdateViewRequest struct {
	ID            ksid.ID                  `json:"-" path:"id"`
	ViewID        ksid.ID                  `json:"-" path:"vid"`
	Name          string                   `json:"name,omitempty"`
	Filters       []engine.FilterCondition `json:"filters,omitempty"`
	Sorts         []engine.SortConfig      `json:"sorts,omitempty"`
	ShowUngrouped *bool                    `json:"show_ungrouped,omitempty"`
}

// Validate validates the update view request fields.
func (r *UpdateViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.ViewID.IsZero() {
		return MissingField("vid")
	}
	for _, s := range r.Sorts {
		if s.Property == "" {
			return InvalidField("sorts", "sort missing property")
		}
		if s.Direction != engine.SortAsc && s.Direction != engine.SortDesc {
			return InvalidField("sorts", "invalid direction: "+string(s.Direction))
		}
	}
	for _, f := range r.Filters {
		if f.Property == "" {
			return InvalidField("filters", "filter missing property")
		}
		if f.Condition == "" {
			return InvalidField("filters", "filter missing condition")
		}
	}
	return nil
}

// DeleteViewRequest is a request to delete a view.
type DeleteViewRequest struct {
	ID     ksid.ID `path:"id"`
	ViewID ksid.ID `path:"vid"`
}

// Validate validates the delete view request fields.
func (r *DeleteViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.ViewID.IsZero() {
		return MissingField("vid")
	}
	return nil
}

// Column visibility actions.
const (
	ColumnsActionToggle  = "toggle"
	ColumnsActionShowAll = "show_all"
	ColumnsActionHideAll = "hide_all"
	ColumnsActionReset   = "reset"
)

// UpdateColumnsRequest is a request to change a view's column visibility.
type UpdateColumnsRequest struct {
	ID         ksid.ID `json:"-" path:"id"`
	ViewID     ksid.ID `json:"-" path:"vid"`
	Action     string  `json:"action"`
	PropertyID string  `json:"property_id,omitempty"`
	Visible    bool    `json:"visible,omitempty"`
}

// Validate validates the update columns request fields.
func (r *UpdateColumnsRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.ViewID.IsZero() {
		return MissingField("vid")
	}
	switch r.Action {
	case ColumnsActionToggle:
		if r.PropertyID == "" {
			return MissingField("property_id")
		}
	case ColumnsActionShowAll, ColumnsActionHideAll, ColumnsActionReset:
	default:
		return InvalidField("action", "unknown action: "+r.Action)
	}
	return nil
}

// --- Materialization ---

// maxPageSize caps what a single materialize call may return.
const maxPageSize = 500

// MaterializeRequest renders a view under an optional local query state.
// Generation is checked only when LoadMore is set.
type MaterializeRequest struct {
	ID         ksid.ID            `json:"-" path:"id"`
	ViewID     ksid.ID            `json:"-" path:"vid"`
	Query      *engine.QueryState `json:"query,omitempty"`
	LoadMore   bool               `json:"load_more,omitempty"`
	Generation uint64             `json:"generation,omitempty"`
}

// Validate validates the materialize request fields.
func (r *MaterializeRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.Query != nil {
		if r.Query.Page < 0 {
			return InvalidField("query.page", "must not be negative")
		}
		if r.Query.PageSize < 0 || r.Query.PageSize > maxPageSize {
			return InvalidField("query.page_size", "out of range")
		}
	}
	return nil
}

// --- Meta ---

// OperatorsRequest is a request for the operator tables.
type OperatorsRequest struct{}

// Validate is a no-op for OperatorsRequest.
func (r *OperatorsRequest) Validate() error {
	return nil
}

// SchemaRequest is a request for the JSON Schema of the API types.
type SchemaRequest struct{}

// Validate is a no-op for SchemaRequest.
func (r *SchemaRequest) Validate() error {
	return nil
}
