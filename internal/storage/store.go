// Defines the record store contract the engine consumes.

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

var (
	// ErrDatabaseNotFound is returned when a database does not exist.
	ErrDatabaseNotFound = errors.New("database not found")
	// ErrViewNotFound is returned when a view does not exist.
	ErrViewNotFound = errors.New("view not found")
	// ErrRecordNotFound is returned when a record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrLastView is returned when deleting the only view of a database.
	ErrLastView = errors.New("cannot delete the last view")

	errDatabaseIDEmpty = errors.New("database id cannot be empty")
	errTitleEmpty      = errors.New("title cannot be empty")
	errColumnRequired  = errors.New("at least one property is required")
	errRecordIDEmpty   = errors.New("record id cannot be empty")
)

// Database is the schema-level entity: a title, a property schema, and the
// saved views over it.
type Database struct {
	ID         ksid.ID           `json:"id"`
	Title      string            `json:"title"`
	Properties []engine.Property `json:"properties"`
	Views      []engine.View     `json:"views"`
	Created    time.Time         `json:"created"`
	Modified   time.Time         `json:"modified"`
}

// Validate checks that the Database is valid.
func (d *Database) Validate() error {
	if d.ID.IsZero() {
		return errDatabaseIDEmpty
	}
	if d.Title == "" {
		return errTitleEmpty
	}
	if len(d.Properties) == 0 {
		return errColumnRequired
	}
	return nil
}

// View returns the view with the given ID, or nil.
func (d *Database) View(id ksid.ID) *engine.View {
	for i := range d.Views {
		if d.Views[i].ID == id {
			return &d.Views[i]
		}
	}
	return nil
}

// DefaultView returns the database's default view. Every database has
// exactly one, enforced at creation.
func (d *Database) DefaultView() *engine.View {
	for i := range d.Views {
		if d.Views[i].Default {
			return &d.Views[i]
		}
	}
	if len(d.Views) > 0 {
		return &d.Views[0]
	}
	return nil
}

// QueryOptions shapes a record fetch.
type QueryOptions struct {
	ViewID          ksid.ID
	Search          string
	Filters         []engine.FilterCondition
	Sorts           []engine.SortConfig
	Page            int
	Limit           int
	IncludeArchived bool
}

// RecordPage is one page of fetched records.
type RecordPage struct {
	Records []*engine.Record `json:"records"`
	Total   int              `json:"total"`
	HasNext bool             `json:"has_next"`
}

// RecordStore supplies schema, view and record snapshots and persists edits.
// Implementations must return records keyed by property ID (see RemapRecordKeys).
type RecordStore interface {
	CreateDatabase(ctx context.Context, title string, props []engine.Property) (*Database, error)
	GetDatabase(ctx context.Context, id ksid.ID) (*Database, error)
	ListDatabases(ctx context.Context) ([]*Database, error)
	DeleteDatabase(ctx context.Context, id ksid.ID) error

	// FetchProperties returns the property schema; hidden-by-default
	// properties are included only when includeHidden is set.
	FetchProperties(ctx context.Context, dbID ksid.ID, includeHidden bool) ([]engine.Property, error)

	FetchView(ctx context.Context, dbID, viewID ksid.ID) (*engine.View, error)
	CreateView(ctx context.Context, dbID ksid.ID, name string, typ engine.ViewType) (*engine.View, error)
	// UpdateView replaces the stored view with the same ID. Last write wins.
	UpdateView(ctx context.Context, dbID ksid.ID, view *engine.View) error
	DeleteView(ctx context.Context, dbID, viewID ksid.ID) error

	FetchRecords(ctx context.Context, dbID ksid.ID, opts QueryOptions) (*RecordPage, error)
	GetRecord(ctx context.Context, dbID, recordID ksid.ID) (*engine.Record, error)
	CreateRecord(ctx context.Context, dbID ksid.ID, data map[string]any) (*engine.Record, error)
	UpdateRecord(ctx context.Context, dbID, recordID ksid.ID, data map[string]any) (*engine.Record, error)
	// PatchRecord updates only the given fields, leaving the rest untouched.
	PatchRecord(ctx context.Context, dbID, recordID ksid.ID, patch map[string]any) (*engine.Record, error)
	// ArchiveRecord sets or clears the archived flag. Archived records are
	// excluded from fetches unless QueryOptions.IncludeArchived is set.
	ArchiveRecord(ctx context.Context, dbID, recordID ksid.ID, archived bool) (*engine.Record, error)
	DeleteRecord(ctx context.Context, dbID, recordID ksid.ID) error
}

// RemapRecordKeys rewrites a property map keyed (partly) by property names to
// one keyed by property IDs.
//
// Older writers keyed values by display name; the engine contract is property
// ID only, so stores apply this projection at ingestion. An ID key always
// wins over a name key for the same property; keys matching neither are kept
// as-is (schema drift is not this function's problem).
func RemapRecordKeys(data map[string]any, props []engine.Property) map[string]any {
	if data == nil {
		return nil
	}
	byID := make(map[string]bool, len(props))
	byName := make(map[string]string, len(props))
	for _, p := range props {
		byID[p.ID] = true
		if p.Name != "" {
			byName[p.Name] = p.ID
		}
	}

	result := make(map[string]any, len(data))
	for key, value := range data {
		if byID[key] {
			result[key] = value
			continue
		}
		if id, ok := byName[key]; ok {
			// Do not clobber a value already present under the ID key.
			if _, exists := data[id]; !exists {
				result[id] = value
			}
			continue
		}
		result[key] = value
	}
	return result
}

// EnsureOptionIDs assigns an ID to every select option that lacks one.
// Option IDs are what records reference; a rename never touches stored data.
func EnsureOptionIDs(props []engine.Property) {
	for i := range props {
		for j := range props[i].Options {
			if props[i].Options[j].ID == "" {
				props[i].Options[j].ID = uuid.NewString()
			}
		}
	}
}

// NewDefaultView builds the initial table view created with every database.
func NewDefaultView() engine.View {
	return engine.View{
		ID:      ksid.NewID(),
		Name:    "All",
		Type:    engine.ViewTypeTable,
		Default: true,
	}
}
