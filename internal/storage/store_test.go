// Tests for the storage contracts and key projection.

package storage

import (
	"testing"
	"time"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

func testProps() []engine.Property {
	return []engine.Property{
		{ID: "title", Name: "Title", Type: engine.PropertyTypeText, Visible: true},
		{ID: "p1", Name: "Status", Type: engine.PropertyTypeSelect, Visible: true,
			Options: []engine.SelectOption{{ID: "o1", Name: "Todo"}}},
	}
}

func TestDatabaseValidate(t *testing.T) {
	db := &Database{ID: ksid.NewID(), Title: "Tasks", Properties: testProps()}
	if err := db.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	t.Run("zero id", func(t *testing.T) {
		bad := &Database{Title: "Tasks", Properties: testProps()}
		if err := bad.Validate(); err == nil {
			t.Errorf("expected error for zero id")
		}
	})
	t.Run("empty title", func(t *testing.T) {
		bad := &Database{ID: ksid.NewID(), Properties: testProps()}
		if err := bad.Validate(); err == nil {
			t.Errorf("expected error for empty title")
		}
	})
	t.Run("no properties", func(t *testing.T) {
		bad := &Database{ID: ksid.NewID(), Title: "Tasks"}
		if err := bad.Validate(); err == nil {
			t.Errorf("expected error for missing properties")
		}
	})
}

func TestDefaultView(t *testing.T) {
	v1 := engine.View{ID: ksid.NewID(), Name: "Board", Type: engine.ViewTypeBoard}
	v2 := NewDefaultView()
	db := &Database{ID: ksid.NewID(), Title: "Tasks", Properties: testProps(), Views: []engine.View{v1, v2}}

	if got := db.DefaultView(); got == nil || got.ID != v2.ID {
		t.Errorf("DefaultView() = %v, want %v", got, v2.ID)
	}

	t.Run("falls back to the first view", func(t *testing.T) {
		db := &Database{Views: []engine.View{v1}}
		if got := db.DefaultView(); got == nil || got.ID != v1.ID {
			t.Errorf("expected first view fallback")
		}
	})

	t.Run("nil when no views", func(t *testing.T) {
		db := &Database{}
		if got := db.DefaultView(); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestRemapRecordKeys(t *testing.T) {
	props := testProps()

	t.Run("name keys move to id keys", func(t *testing.T) {
		got := RemapRecordKeys(map[string]any{"Title": "hello", "Status": "o1"}, props)
		if got["title"] != "hello" || got["p1"] != "o1" {
			t.Errorf("RemapRecordKeys = %v", got)
		}
		if _, ok := got["Title"]; ok {
			t.Errorf("name key survived projection")
		}
	})

	t.Run("id key wins over name key", func(t *testing.T) {
		got := RemapRecordKeys(map[string]any{"title": "by-id", "Title": "by-name"}, props)
		if got["title"] != "by-id" {
			t.Errorf("got %v, want by-id", got["title"])
		}
	})

	t.Run("unknown keys are kept", func(t *testing.T) {
		got := RemapRecordKeys(map[string]any{"mystery": 42}, props)
		if got["mystery"] != 42 {
			t.Errorf("unknown key dropped: %v", got)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		if got := RemapRecordKeys(nil, props); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

func TestEnsureOptionIDs(t *testing.T) {
	props := []engine.Property{
		{ID: "p1", Type: engine.PropertyTypeSelect,
			Options: []engine.SelectOption{{ID: "o1", Name: "Todo"}, {Name: "Done"}}},
	}
	EnsureOptionIDs(props)
	if props[0].Options[0].ID != "o1" {
		t.Errorf("existing option ID overwritten: %q", props[0].Options[0].ID)
	}
	if props[0].Options[1].ID == "" {
		t.Errorf("missing option ID not assigned")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	db := &Database{ID: ksid.NewID(), Title: "Tasks", Properties: testProps(), Created: time.Now()}
	c.SetDatabase(db)

	if got, ok := c.GetDatabase(db.ID); !ok || got != db {
		t.Fatalf("GetDatabase miss after Set")
	}

	records := []*engine.Record{{ID: ksid.NewID(), Properties: map[string]any{"title": "x"}}}
	c.SetRecords(db.ID, records)
	if got, ok := c.GetRecords(db.ID); !ok || len(got) != 1 {
		t.Fatalf("GetRecords miss after Set")
	}

	t.Run("invalidating the database drops its records too", func(t *testing.T) {
		c.InvalidateDatabase(db.ID)
		if _, ok := c.GetDatabase(db.ID); ok {
			t.Errorf("database survived invalidation")
		}
		if _, ok := c.GetRecords(db.ID); ok {
			t.Errorf("records survived invalidation")
		}
	})

	t.Run("invalidate all", func(t *testing.T) {
		c.SetDatabase(db)
		c.SetRecords(db.ID, records)
		c.InvalidateAll()
		if _, ok := c.GetDatabase(db.ID); ok {
			t.Errorf("database survived InvalidateAll")
		}
	})
}
