// Package viewsvc coordinates view materialization over the record store:
// snapshot caching, stale-query detection and cell edits.
package viewsvc

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
	"github.com/rowdb/rowdb/internal/storage"
)

var (
	// ErrStaleQuery is returned when a paging request was computed against a
	// snapshot that has since been invalidated by a write.
	ErrStaleQuery = errors.New("query state is stale")
)

// Service materializes views from cached record snapshots and applies edits.
type Service struct {
	store storage.RecordStore
	cache *storage.Cache
	log   *slog.Logger

	mu sync.Mutex
	// Per-database write generation. Bumped on every mutation; paging
	// requests carry the generation they were computed against so results
	// from a superseded snapshot can be discarded.
	generations map[ksid.ID]uint64
}

// New returns a Service backed by the given store.
func New(store storage.RecordStore, log *slog.Logger) *Service {
	return &Service{
		store:       store,
		cache:       storage.NewCache(),
		log:         log,
		generations: make(map[ksid.ID]uint64),
	}
}

// Result is a materialized view plus the generation it was computed at.
type Result struct {
	*engine.MaterializedView
	Generation uint64 `json:"generation"`
}

// Materialize renders a view of a database under the given query state. A nil
// query state renders the saved view as-is.
func (s *Service) Materialize(ctx context.Context, dbID, viewID ksid.ID, q *engine.QueryState) (*Result, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	view := db.View(viewID)
	if view == nil {
		if viewID.IsZero() {
			view = db.DefaultView()
		}
		if view == nil {
			return nil, storage.ErrViewNotFound
		}
	}
	records, err := s.snapshot(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return &Result{
		MaterializedView: engine.Materialize(records, db.Properties, view, q),
		Generation:       s.generation(dbID),
	}, nil
}

// LoadMore renders the next page of a previously materialized view. The
// caller passes the generation it received; if any write landed in between,
// the accumulated rows on the client no longer form a prefix of the current
// result and the request is rejected with ErrStaleQuery.
func (s *Service) LoadMore(ctx context.Context, dbID, viewID ksid.ID, q *engine.QueryState, generation uint64) (*Result, error) {
	if generation != s.generation(dbID) {
		s.log.Debug("discarding stale page request", "db", dbID, "generation", generation)
		return nil, ErrStaleQuery
	}
	res, err := s.Materialize(ctx, dbID, viewID, q)
	if err != nil {
		return nil, err
	}
	// The write could also land during the fetch itself.
	if res.Generation != generation {
		return nil, ErrStaleQuery
	}
	return res, nil
}

// Invalidate drops all cached state. Used when the backing file changes
// underneath the process.
func (s *Service) Invalidate() {
	s.cache.InvalidateAll()
}

func (s *Service) database(ctx context.Context, dbID ksid.ID) (*storage.Database, error) {
	if db, ok := s.cache.GetDatabase(dbID); ok {
		return db, nil
	}
	db, err := s.store.GetDatabase(ctx, dbID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDatabase(db)
	return db, nil
}

// snapshot returns the full unfiltered record set of a database, from cache
// when warm. Filtering and sorting happen in the engine, not at fetch time,
// so one snapshot serves every view and query state.
func (s *Service) snapshot(ctx context.Context, dbID ksid.ID) ([]*engine.Record, error) {
	if records, ok := s.cache.GetRecords(dbID); ok {
		return records, nil
	}
	page, err := s.store.FetchRecords(ctx, dbID, storage.QueryOptions{})
	if err != nil {
		return nil, err
	}
	s.cache.SetRecords(dbID, page.Records)
	return page.Records, nil
}

func (s *Service) generation(dbID ksid.ID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[dbID]
}

// bump invalidates cached records for the database and advances its
// generation. Every write path must call it.
func (s *Service) bump(dbID ksid.ID) {
	s.cache.InvalidateRecords(dbID)
	s.mu.Lock()
	s.generations[dbID]++
	s.mu.Unlock()
}

// bumpSchema is bump plus dropping the cached schema and views.
func (s *Service) bumpSchema(dbID ksid.ID) {
	s.cache.InvalidateDatabase(dbID)
	s.mu.Lock()
	s.generations[dbID]++
	s.mu.Unlock()
}
