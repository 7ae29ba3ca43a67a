// SQLite-backed record store.

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
	"github.com/rowdb/rowdb/internal/storage"
	_ "modernc.org/sqlite"
)

// Store implements storage.RecordStore on an SQLite database.
type Store struct {
	db *sql.DB
}

var _ storage.RecordStore = (*Store)(nil)

// Open opens or creates the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateDatabases,
		migrationCreateRecords,
	}
	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const migrationCreateDatabases = `
CREATE TABLE IF NOT EXISTS databases (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    properties TEXT NOT NULL,
    views TEXT NOT NULL,
    created TEXT NOT NULL,
    modified TEXT NOT NULL
);
`

const migrationCreateRecords = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    database_id TEXT NOT NULL,
    properties TEXT NOT NULL,
    created TEXT NOT NULL,
    modified TEXT NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (database_id) REFERENCES databases(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_database ON records(database_id);
`

// CreateDatabase creates a database with the given schema and its initial
// default view.
func (s *Store) CreateDatabase(ctx context.Context, title string, props []engine.Property) (*storage.Database, error) {
	storage.EnsureOptionIDs(props)
	now := time.Now().UTC()
	db := &storage.Database{
		ID:         ksid.NewID(),
		Title:      title,
		Properties: props,
		Views:      []engine.View{storage.NewDefaultView()},
		Created:    now,
		Modified:   now,
	}
	if err := db.Validate(); err != nil {
		return nil, err
	}
	propsJSON, err := json.Marshal(db.Properties)
	if err != nil {
		return nil, fmt.Errorf("failed to encode properties: %w", err)
	}
	viewsJSON, err := json.Marshal(db.Views)
	if err != nil {
		return nil, fmt.Errorf("failed to encode views: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO databases (id, title, properties, views, created, modified) VALUES (?, ?, ?, ?, ?, ?)",
		db.ID.String(), db.Title, string(propsJSON), string(viewsJSON),
		db.Created.Format(time.RFC3339Nano), db.Modified.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to insert database: %w", err)
	}
	return db, nil
}

// GetDatabase returns the database with the given ID.
func (s *Store) GetDatabase(ctx context.Context, id ksid.ID) (*storage.Database, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, properties, views, created, modified FROM databases WHERE id = ?",
		id.String())
	db, err := scanDatabase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDatabaseNotFound
	}
	return db, err
}

// ListDatabases returns all databases, oldest first.
func (s *Store) ListDatabases(ctx context.Context) ([]*storage.Database, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, properties, views, created, modified FROM databases ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()
	var out []*storage.Database
	for rows.Next() {
		db, err := scanDatabase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, db)
	}
	return out, rows.Err()
}

// DeleteDatabase deletes a database and all its records.
func (s *Store) DeleteDatabase(ctx context.Context, id ksid.ID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM databases WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrDatabaseNotFound
	}
	return nil
}

// FetchProperties returns the property schema of a database. Properties that
// default to hidden are omitted unless includeHidden is set.
func (s *Store) FetchProperties(ctx context.Context, dbID ksid.ID, includeHidden bool) ([]engine.Property, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	if includeHidden {
		return db.Properties, nil
	}
	props := make([]engine.Property, 0, len(db.Properties))
	for _, p := range db.Properties {
		if p.Visible || p.Locked() {
			props = append(props, p)
		}
	}
	return props, nil
}

// FetchView returns a view of a database.
func (s *Store) FetchView(ctx context.Context, dbID, viewID ksid.ID) (*engine.View, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	v := db.View(viewID)
	if v == nil {
		return nil, storage.ErrViewNotFound
	}
	return v, nil
}

// CreateView adds a view to a database.
func (s *Store) CreateView(ctx context.Context, dbID ksid.ID, name string, typ engine.ViewType) (*engine.View, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	v := engine.View{
		ID:   ksid.NewID(),
		Name: name,
		Type: typ,
	}
	db.Views = append(db.Views, v)
	if err := s.saveViews(ctx, db); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateView replaces the stored view with the same ID. Last write wins: no
// version check is performed, concurrent writers overwrite each other whole.
func (s *Store) UpdateView(ctx context.Context, dbID ksid.ID, view *engine.View) error {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return err
	}
	found := false
	for i := range db.Views {
		if db.Views[i].ID == view.ID {
			db.Views[i] = *view
			found = true
		} else if view.Default {
			// At most one default view per database.
			db.Views[i].Default = false
		}
	}
	if !found {
		return storage.ErrViewNotFound
	}
	return s.saveViews(ctx, db)
}

// DeleteView deletes a view. The last view of a database cannot be deleted;
// deleting the default view promotes the first remaining one.
func (s *Store) DeleteView(ctx context.Context, dbID, viewID ksid.ID) error {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return err
	}
	if len(db.Views) <= 1 {
		return storage.ErrLastView
	}
	idx := -1
	for i := range db.Views {
		if db.Views[i].ID == viewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return storage.ErrViewNotFound
	}
	wasDefault := db.Views[idx].Default
	db.Views = append(db.Views[:idx], db.Views[idx+1:]...)
	if wasDefault {
		db.Views[0].Default = true
	}
	return s.saveViews(ctx, db)
}

// FetchRecords returns one page of records matching the query, in filtered,
// searched, sorted order.
func (s *Store) FetchRecords(ctx context.Context, dbID ksid.ID, opts storage.QueryOptions) (*storage.RecordPage, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	query := "SELECT id, properties, created, modified, archived FROM records WHERE database_id = ?"
	if !opts.IncludeArchived {
		query += " AND archived = 0"
	}
	query += " ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query, dbID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()
	var records []*engine.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records = engine.FilterRecords(records, opts.Filters, db.Properties)
	if opts.Search != "" {
		records = engine.SearchRecords(records, opts.Search, db.Properties)
	}
	engine.SortRecords(records, opts.Sorts, db.Properties)

	total := len(records)
	if opts.Limit > 0 {
		start := min(opts.Page*opts.Limit, total)
		records = records[start:min(start+opts.Limit, total)]
	}
	return &storage.RecordPage{
		Records: records,
		Total:   total,
		HasNext: opts.Limit > 0 && opts.Page*opts.Limit+len(records) < total,
	}, nil
}

// GetRecord returns a single record.
func (s *Store) GetRecord(ctx context.Context, dbID, recordID ksid.ID) (*engine.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, properties, created, modified, archived FROM records WHERE database_id = ? AND id = ?",
		dbID.String(), recordID.String())
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRecordNotFound
	}
	return r, err
}

// CreateRecord inserts a record. Values are remapped to property-ID keys and
// normalized against the schema before they hit disk.
func (s *Store) CreateRecord(ctx context.Context, dbID ksid.ID, data map[string]any) (*engine.Record, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r := &engine.Record{
		ID:         ksid.NewID(),
		Properties: normalizeData(data, db.Properties),
		Created:    now,
		Modified:   now,
	}
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (id, database_id, properties, created, modified, archived) VALUES (?, ?, ?, ?, ?, 0)",
		r.ID.String(), dbID.String(), string(propsJSON),
		r.Created.Format(time.RFC3339Nano), r.Modified.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	return r, nil
}

// UpdateRecord replaces all property values of a record.
func (s *Store) UpdateRecord(ctx context.Context, dbID, recordID ksid.ID, data map[string]any) (*engine.Record, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	r, err := s.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}
	r.Properties = normalizeData(data, db.Properties)
	return r, s.writeRecord(ctx, dbID, r)
}

// PatchRecord updates only the given fields, leaving the rest untouched. A
// nil patch value clears the field.
func (s *Store) PatchRecord(ctx context.Context, dbID, recordID ksid.ID, patch map[string]any) (*engine.Record, error) {
	db, err := s.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	r, err := s.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	for k, v := range normalizeData(patch, db.Properties) {
		r.Properties[k] = v
	}
	return r, s.writeRecord(ctx, dbID, r)
}

// ArchiveRecord sets or clears the archived flag of a record.
func (s *Store) ArchiveRecord(ctx context.Context, dbID, recordID ksid.ID, archived bool) (*engine.Record, error) {
	r, err := s.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}
	r.Archived = archived
	return r, s.writeRecord(ctx, dbID, r)
}

// DeleteRecord deletes a record.
func (s *Store) DeleteRecord(ctx context.Context, dbID, recordID ksid.ID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE database_id = ? AND id = ?", dbID.String(), recordID.String())
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}

func (s *Store) writeRecord(ctx context.Context, dbID ksid.ID, r *engine.Record) error {
	r.Modified = time.Now().UTC()
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE records SET properties = ?, modified = ?, archived = ? WHERE database_id = ? AND id = ?",
		string(propsJSON), r.Modified.Format(time.RFC3339Nano), boolToInt(r.Archived),
		dbID.String(), r.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return nil
}

func (s *Store) saveViews(ctx context.Context, db *storage.Database) error {
	viewsJSON, err := json.Marshal(db.Views)
	if err != nil {
		return fmt.Errorf("failed to encode views: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE databases SET views = ?, modified = ? WHERE id = ?",
		string(viewsJSON), time.Now().UTC().Format(time.RFC3339Nano), db.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update views: %w", err)
	}
	return nil
}

// normalizeData projects name keys to ID keys and runs every schema-known
// value through normalization.
func normalizeData(data map[string]any, props []engine.Property) map[string]any {
	out := storage.RemapRecordKeys(data, props)
	for i := range props {
		p := &props[i]
		if v, ok := out[p.ID]; ok {
			out[p.ID] = engine.Normalize(p, v)
		}
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDatabase(row scanner) (*storage.Database, error) {
	var id, title, propsJSON, viewsJSON, created, modified string
	if err := row.Scan(&id, &title, &propsJSON, &viewsJSON, &created, &modified); err != nil {
		return nil, err
	}
	db := &storage.Database{Title: title}
	var err error
	if db.ID, err = ksid.DecodeID(id); err != nil {
		return nil, fmt.Errorf("corrupt database id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(propsJSON), &db.Properties); err != nil {
		return nil, fmt.Errorf("corrupt properties for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(viewsJSON), &db.Views); err != nil {
		return nil, fmt.Errorf("corrupt views for %s: %w", id, err)
	}
	if db.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if db.Modified, err = time.Parse(time.RFC3339Nano, modified); err != nil {
		return nil, err
	}
	return db, nil
}

func scanRecord(row scanner) (*engine.Record, error) {
	var id, propsJSON, created, modified string
	var archived int
	if err := row.Scan(&id, &propsJSON, &created, &modified, &archived); err != nil {
		return nil, err
	}
	r := &engine.Record{Archived: archived != 0}
	var err error
	if r.ID, err = ksid.DecodeID(id); err != nil {
		return nil, fmt.Errorf("corrupt record id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(propsJSON), &r.Properties); err != nil {
		return nil, fmt.Errorf("corrupt record %s: %w", id, err)
	}
	if r.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if r.Modified, err = time.Parse(time.RFC3339Nano, modified); err != nil {
		return nil, err
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
