// Tests for the SQLite store.

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
	"github.com/rowdb/rowdb/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rowdb.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close error: %v", err)
		}
	})
	return s
}

func testSchema() []engine.Property {
	return []engine.Property{
		{ID: "title", Name: "Title", Type: engine.PropertyTypeText, Required: true, Visible: true, Order: 0},
		{ID: "score", Name: "Score", Type: engine.PropertyTypeNumber, Visible: true, Order: 1},
		{
			ID: "status", Name: "Status", Type: engine.PropertyTypeSelect, Visible: true, Order: 2,
			Options: []engine.SelectOption{{ID: "o1", Name: "Todo"}, {ID: "o2", Name: "Done"}},
		},
		{ID: "notes", Name: "Notes", Type: engine.PropertyTypeText, Visible: false, Order: 3},
	}
}

func mustCreateDatabase(t *testing.T, s *Store) *storage.Database {
	t.Helper()
	db, err := s.CreateDatabase(context.Background(), "Tasks", testSchema())
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	return db
}

func TestDatabaseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	db := mustCreateDatabase(t, s)

	t.Run("create seeds a default view", func(t *testing.T) {
		if len(db.Views) != 1 || !db.Views[0].Default {
			t.Fatalf("expected one default view, got %+v", db.Views)
		}
		if db.Views[0].Type != engine.ViewTypeTable {
			t.Errorf("default view type = %s, want table", db.Views[0].Type)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := s.GetDatabase(ctx, db.ID)
		if err != nil {
			t.Fatalf("GetDatabase error: %v", err)
		}
		if got.Title != "Tasks" || len(got.Properties) != 4 || len(got.Views) != 1 {
			t.Errorf("GetDatabase = %+v", got)
		}
		if got.Views[0].ID != db.Views[0].ID {
			t.Errorf("view id changed across round trip")
		}
	})

	t.Run("list", func(t *testing.T) {
		dbs, err := s.ListDatabases(ctx)
		if err != nil {
			t.Fatalf("ListDatabases error: %v", err)
		}
		if len(dbs) != 1 || dbs[0].ID != db.ID {
			t.Errorf("ListDatabases = %+v", dbs)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := s.GetDatabase(ctx, ksid.NewID()); !errors.Is(err, storage.ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("delete cascades to records", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{"title": "x"})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		if err := s.DeleteDatabase(ctx, db.ID); err != nil {
			t.Fatalf("DeleteDatabase error: %v", err)
		}
		if _, err := s.GetRecord(ctx, db.ID, r.ID); !errors.Is(err, storage.ErrRecordNotFound) {
			t.Errorf("record survived database deletion: %v", err)
		}
	})
}

func TestFetchProperties(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	db := mustCreateDatabase(t, s)

	visible, err := s.FetchProperties(ctx, db.ID, false)
	if err != nil {
		t.Fatalf("FetchProperties error: %v", err)
	}
	if len(visible) != 3 {
		t.Errorf("visible properties = %d, want 3", len(visible))
	}
	all, err := s.FetchProperties(ctx, db.ID, true)
	if err != nil {
		t.Fatalf("FetchProperties error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all properties = %d, want 4", len(all))
	}
}

func TestViewLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	db := mustCreateDatabase(t, s)

	board, err := s.CreateView(ctx, db.ID, "Board", engine.ViewTypeBoard)
	if err != nil {
		t.Fatalf("CreateView error: %v", err)
	}

	t.Run("update persists settings", func(t *testing.T) {
		board.Filters = []engine.FilterCondition{{Property: "status", Condition: engine.OpIs, Value: "o1"}}
		board.Settings.VisibleProperties = []string{"title", "status"}
		if err := s.UpdateView(ctx, db.ID, board); err != nil {
			t.Fatalf("UpdateView error: %v", err)
		}
		got, err := s.FetchView(ctx, db.ID, board.ID)
		if err != nil {
			t.Fatalf("FetchView error: %v", err)
		}
		if len(got.Filters) != 1 || got.Filters[0].Property != "status" {
			t.Errorf("filters not persisted: %+v", got.Filters)
		}
		if len(got.Settings.VisibleProperties) != 2 {
			t.Errorf("settings not persisted: %+v", got.Settings)
		}
	})

	t.Run("making a view default demotes the old one", func(t *testing.T) {
		board.Default = true
		if err := s.UpdateView(ctx, db.ID, board); err != nil {
			t.Fatalf("UpdateView error: %v", err)
		}
		got, err := s.GetDatabase(ctx, db.ID)
		if err != nil {
			t.Fatalf("GetDatabase error: %v", err)
		}
		defaults := 0
		for _, v := range got.Views {
			if v.Default {
				defaults++
			}
		}
		if defaults != 1 {
			t.Errorf("expected exactly one default view, got %d", defaults)
		}
		if dv := got.DefaultView(); dv == nil || dv.ID != board.ID {
			t.Errorf("default view = %v, want board", dv)
		}
	})

	t.Run("unknown view", func(t *testing.T) {
		if _, err := s.FetchView(ctx, db.ID, ksid.NewID()); !errors.Is(err, storage.ErrViewNotFound) {
			t.Errorf("expected ErrViewNotFound, got %v", err)
		}
	})

	t.Run("deleting the default promotes another", func(t *testing.T) {
		if err := s.DeleteView(ctx, db.ID, board.ID); err != nil {
			t.Fatalf("DeleteView error: %v", err)
		}
		got, err := s.GetDatabase(ctx, db.ID)
		if err != nil {
			t.Fatalf("GetDatabase error: %v", err)
		}
		if len(got.Views) != 1 || !got.Views[0].Default {
			t.Errorf("expected promoted default, got %+v", got.Views)
		}
	})

	t.Run("last view cannot be deleted", func(t *testing.T) {
		got, err := s.GetDatabase(ctx, db.ID)
		if err != nil {
			t.Fatalf("GetDatabase error: %v", err)
		}
		if err := s.DeleteView(ctx, db.ID, got.Views[0].ID); !errors.Is(err, storage.ErrLastView) {
			t.Errorf("expected ErrLastView, got %v", err)
		}
	})
}

func TestRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	db := mustCreateDatabase(t, s)

	t.Run("create normalizes values", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{
			"Title":  "Write tests",
			"score":  42,
			"status": map[string]any{"id": "o1", "label": "Todo"},
		})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		if r.Properties["title"] != "Write tests" {
			t.Errorf("name key not remapped: %v", r.Properties)
		}
		if r.Properties["score"] != float64(42) {
			t.Errorf("number not normalized: %v (%T)", r.Properties["score"], r.Properties["score"])
		}
		if r.Properties["status"] != "o1" {
			t.Errorf("select not normalized to option id: %v", r.Properties["status"])
		}

		got, err := s.GetRecord(ctx, db.ID, r.ID)
		if err != nil {
			t.Fatalf("GetRecord error: %v", err)
		}
		if got.Properties["score"] != float64(42) || got.Properties["status"] != "o1" {
			t.Errorf("round trip mangled values: %v", got.Properties)
		}
	})

	t.Run("patch touches only named fields", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{"title": "a", "score": float64(1)})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		got, err := s.PatchRecord(ctx, db.ID, r.ID, map[string]any{"score": float64(2)})
		if err != nil {
			t.Fatalf("PatchRecord error: %v", err)
		}
		if got.Properties["title"] != "a" || got.Properties["score"] != float64(2) {
			t.Errorf("patch result = %v", got.Properties)
		}
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{"title": "a", "score": float64(1)})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		got, err := s.UpdateRecord(ctx, db.ID, r.ID, map[string]any{"title": "b"})
		if err != nil {
			t.Fatalf("UpdateRecord error: %v", err)
		}
		if got.Properties["title"] != "b" {
			t.Errorf("update result = %v", got.Properties)
		}
		if _, ok := got.Properties["score"]; ok {
			t.Errorf("update kept stale field: %v", got.Properties)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{"title": "gone"})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		if err := s.DeleteRecord(ctx, db.ID, r.ID); err != nil {
			t.Fatalf("DeleteRecord error: %v", err)
		}
		if _, err := s.GetRecord(ctx, db.ID, r.ID); !errors.Is(err, storage.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
		if err := s.DeleteRecord(ctx, db.ID, r.ID); !errors.Is(err, storage.ErrRecordNotFound) {
			t.Errorf("double delete: expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestFetchRecordsQuery(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	db := mustCreateDatabase(t, s)

	seed := []map[string]any{
		{"title": "cherry", "score": float64(3), "status": "o1"},
		{"title": "apple", "score": float64(1), "status": "o2"},
		{"title": "banana", "score": float64(2), "status": "o1"},
	}
	for _, data := range seed {
		if _, err := s.CreateRecord(ctx, db.ID, data); err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
	}

	t.Run("filter and sort", func(t *testing.T) {
		page, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{
			Filters: []engine.FilterCondition{{Property: "status", Condition: engine.OpIs, Value: "o1"}},
			Sorts:   []engine.SortConfig{{Property: "score", Direction: engine.SortDesc}},
		})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if page.Total != 2 || len(page.Records) != 2 {
			t.Fatalf("page = %+v", page)
		}
		if page.Records[0].Properties["title"] != "cherry" || page.Records[1].Properties["title"] != "banana" {
			t.Errorf("sort order wrong: %v, %v",
				page.Records[0].Properties["title"], page.Records[1].Properties["title"])
		}
	})

	t.Run("search", func(t *testing.T) {
		page, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{Search: "APP"})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if page.Total != 1 || page.Records[0].Properties["title"] != "apple" {
			t.Errorf("search result = %+v", page.Records)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{
			Sorts: []engine.SortConfig{{Property: "title", Direction: engine.SortAsc}},
			Limit: 2,
		})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if len(page.Records) != 2 || !page.HasNext || page.Total != 3 {
			t.Fatalf("page0 = records:%d hasNext:%v total:%d", len(page.Records), page.HasNext, page.Total)
		}
		last, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{
			Sorts: []engine.SortConfig{{Property: "title", Direction: engine.SortAsc}},
			Limit: 2,
			Page:  1,
		})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if len(last.Records) != 1 || last.HasNext {
			t.Fatalf("page1 = records:%d hasNext:%v", len(last.Records), last.HasNext)
		}
		if last.Records[0].Properties["title"] != "cherry" {
			t.Errorf("page1 content = %v", last.Records[0].Properties["title"])
		}
	})

	t.Run("archived records are excluded by default", func(t *testing.T) {
		r, err := s.CreateRecord(ctx, db.ID, map[string]any{"title": "archived"})
		if err != nil {
			t.Fatalf("CreateRecord error: %v", err)
		}
		r.Archived = true
		if err := s.writeRecord(ctx, db.ID, r); err != nil {
			t.Fatalf("writeRecord error: %v", err)
		}
		page, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if page.Total != 3 {
			t.Errorf("total = %d, want 3", page.Total)
		}
		all, err := s.FetchRecords(ctx, db.ID, storage.QueryOptions{IncludeArchived: true})
		if err != nil {
			t.Fatalf("FetchRecords error: %v", err)
		}
		if all.Total != 4 {
			t.Errorf("total with archived = %d, want 4", all.Total)
		}
	})
}
