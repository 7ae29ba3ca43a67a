// View settings mutations. Each one persists through the store and
// invalidates cached schema state; rendering in the meantime works off the
// caller's local query state, so a slow save never blocks the UI.

package viewsvc

import (
	"context"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
	"github.com/rowdb/rowdb/internal/storage"
)

// updateView loads a view, applies fn to it and saves it back. Saved-view
// updates are last-write-wins whole-view replacements.
func (s *Service) updateView(ctx context.Context, dbID, viewID ksid.ID, fn func(*engine.View) error) (*engine.View, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	view := db.View(viewID)
	if view == nil {
		return nil, storage.ErrViewNotFound
	}
	// Work on a deep copy: view points into the cached database, and a
	// failed save must leave the cached state exactly as it was.
	updated := view.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	if err := s.store.UpdateView(ctx, dbID, updated); err != nil {
		return nil, err
	}
	s.bumpSchema(dbID)
	return updated, nil
}

// SetFilters replaces a view's saved filters.
func (s *Service) SetFilters(ctx context.Context, dbID, viewID ksid.ID, filters []engine.FilterCondition) (*engine.View, error) {
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Filters = filters
		return nil
	})
}

// SetSorts replaces a view's saved sorts.
func (s *Service) SetSorts(ctx context.Context, dbID, viewID ksid.ID, sorts []engine.SortConfig) (*engine.View, error) {
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Sorts = sorts
		return nil
	})
}

// ToggleProperty shows or hides one column of a view.
func (s *Service) ToggleProperty(ctx context.Context, dbID, viewID ksid.ID, propertyID string, visible bool) (*engine.View, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		return v.Settings.ToggleProperty(db.Properties, propertyID, visible)
	})
}

// ShowAllProperties makes every column of a view visible.
func (s *Service) ShowAllProperties(ctx context.Context, dbID, viewID ksid.ID) (*engine.View, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Settings.ShowAll(db.Properties)
		return nil
	})
}

// HideAllProperties hides every hideable column of a view. Locked columns
// stay visible.
func (s *Service) HideAllProperties(ctx context.Context, dbID, viewID ksid.ID) (*engine.View, error) {
	db, err := s.database(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Settings.HideAll(db.Properties)
		return nil
	})
}

// ResetProperties drops a view's explicit column lists, falling back to the
// schema's per-property defaults.
func (s *Service) ResetProperties(ctx context.Context, dbID, viewID ksid.ID) (*engine.View, error) {
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Settings.ResetToDefault()
		return nil
	})
}

// SetShowUngrouped toggles whether grouped views render the ungrouped bucket.
func (s *Service) SetShowUngrouped(ctx context.Context, dbID, viewID ksid.ID, show bool) (*engine.View, error) {
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Settings.ShowUngrouped = &show
		return nil
	})
}

// CreateView adds a view to a database.
func (s *Service) CreateView(ctx context.Context, dbID ksid.ID, name string, typ engine.ViewType) (*engine.View, error) {
	v, err := s.store.CreateView(ctx, dbID, name, typ)
	if err != nil {
		return nil, err
	}
	s.bumpSchema(dbID)
	return v, nil
}

// RenameView renames a view.
func (s *Service) RenameView(ctx context.Context, dbID, viewID ksid.ID, name string) (*engine.View, error) {
	return s.updateView(ctx, dbID, viewID, func(v *engine.View) error {
		v.Name = name
		return nil
	})
}

// DeleteView deletes a view. The last view of a database cannot be deleted.
func (s *Service) DeleteView(ctx context.Context, dbID, viewID ksid.ID) error {
	if err := s.store.DeleteView(ctx, dbID, viewID); err != nil {
		return err
	}
	s.bumpSchema(dbID)
	return nil
}
