package dto

import (
	"time"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

// --- Health ---

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// --- Databases ---

// Database is the API representation of a database.
type Database struct {
	ID         ksid.ID           `json:"id"`
	Title      string            `json:"title"`
	Properties []engine.Property `json:"properties"`
	Views      []engine.View     `json:"views"`
	Created    time.Time         `json:"created"`
	Modified   time.Time         `json:"modified"`
}

// ListDatabasesResponse lists all databases.
type ListDatabasesResponse struct {
	Databases []Database `json:"databases"`
}

// DatabaseResponse wraps a single database.
type DatabaseResponse struct {
	Database
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Ok bool `json:"ok"`
}

// --- Records ---

// Record is the API representation of a record. Property values are keyed by
// property ID and already normalized.
type Record struct {
	ID         ksid.ID        `json:"id"`
	Properties map[string]any `json:"properties"`
	Created    time.Time      `json:"created"`
	Modified   time.Time      `json:"modified"`
	Archived   bool           `json:"archived,omitempty"`
}

// RecordResponse wraps a single record.
type RecordResponse struct {
	Record
}

// --- Views ---

// ViewResponse wraps a single view.
type ViewResponse struct {
	View engine.View `json:"view"`
}

// --- Materialization ---

// MaterializeResponse is the rendered form of a view: the rows, columns and
// groups to draw, plus the generation for follow-up paging requests.
type MaterializeResponse struct {
	Rows       []Record          `json:"rows"`
	Columns    []engine.Property `json:"columns"`
	Groups     []Group           `json:"groups,omitempty"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	HasMore    bool              `json:"has_more"`
	Generation uint64            `json:"generation"`
}

// Group is one bucket of a grouped view.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Hidden  bool     `json:"hidden,omitempty"`
	Records []Record `json:"records"`
}

// --- Meta ---

// OperatorsResponse maps each filterable property type to its operators.
type OperatorsResponse struct {
	Operators map[engine.PropertyType][]engine.Operator `json:"operators"`
}

// SchemaResponse carries the JSON Schemas of the core API types.
type SchemaResponse struct {
	Schemas map[string]any `json:"schemas"`
}
