// Record edit operations: cell updates and board moves.

package viewsvc

import (
	"context"
	"reflect"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

// UpdateCell sets one property value on a record. The value is normalized
// first; a write that would not change the stored value is skipped entirely,
// so re-saving an unchanged cell never touches disk or invalidates caches.
func (s *Service) UpdateCell(ctx context.Context, dbID, recordID ksid.ID, propertyID string, value any) (*engine.Record, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	p := engine.PropertyByID(db.Properties, propertyID)
	if p == nil {
		return nil, engine.ErrPropertyNotFound
	}
	r, err := s.store.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}

	next := engine.Normalize(p, value)
	current := engine.Normalize(p, r.Properties[propertyID])
	if reflect.DeepEqual(next, current) {
		return r, nil
	}

	updated, err := s.store.PatchRecord(ctx, dbID, recordID, map[string]any{propertyID: next})
	if err != nil {
		return nil, err
	}
	s.bump(dbID)
	s.log.Info("cell updated", "db", dbID, "record", recordID, "property", propertyID)
	return updated, nil
}

// MoveRecord moves a record to another group of a grouped view by rewriting
// its grouping property. The move is optimistic: the caller renders the
// record in its new bucket immediately, and a persistence failure surfaces
// as an error without any rollback write.
func (s *Service) MoveRecord(ctx context.Context, dbID, recordID ksid.ID, targetGroupID string) (*engine.Record, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	gp := engine.GroupingProperty(db.Properties)
	r, err := s.store.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}
	patch, err := engine.MoveRecord(r, gp, targetGroupID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.PatchRecord(ctx, dbID, recordID, patch)
	if err != nil {
		s.log.Warn("move persistence failed", "db", dbID, "record", recordID, "err", err)
		return nil, err
	}
	s.bump(dbID)
	return updated, nil
}

// CreateRecord creates a record in a database.
func (s *Service) CreateRecord(ctx context.Context, dbID ksid.ID, data map[string]any) (*engine.Record, error) {
	r, err := s.store.CreateRecord(ctx, dbID, data)
	if err != nil {
		return nil, err
	}
	s.bump(dbID)
	return r, nil
}

// UpdateRecord replaces all property values of a record.
func (s *Service) UpdateRecord(ctx context.Context, dbID, recordID ksid.ID, data map[string]any) (*engine.Record, error) {
	r, err := s.store.UpdateRecord(ctx, dbID, recordID, data)
	if err != nil {
		return nil, err
	}
	s.bump(dbID)
	return r, nil
}

// ArchiveRecord sets or clears the archived flag of a record. Archived
// records drop out of materializations without being deleted. Setting the
// flag to its current value is a no-op.
func (s *Service) ArchiveRecord(ctx context.Context, dbID, recordID ksid.ID, archived bool) (*engine.Record, error) {
	r, err := s.store.GetRecord(ctx, dbID, recordID)
	if err != nil {
		return nil, err
	}
	if r.Archived == archived {
		return r, nil
	}
	updated, err := s.store.ArchiveRecord(ctx, dbID, recordID, archived)
	if err != nil {
		return nil, err
	}
	s.bump(dbID)
	s.log.Info("record archived state changed", "db", dbID, "record", recordID, "archived", archived)
	return updated, nil
}

// DeleteRecord deletes a record from a database.
func (s *Service) DeleteRecord(ctx context.Context, dbID, recordID ksid.ID) error {
	if err := s.store.DeleteRecord(ctx, dbID, recordID); err != nil {
		return err
	}
	s.bump(dbID)
	return nil
}
