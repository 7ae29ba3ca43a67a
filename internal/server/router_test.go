// End-to-end tests over the HTTP surface, backed by a real store.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rowdb/rowdb/internal/server/handlers"
	"github.com/rowdb/rowdb/internal/server/ratelimit"
	"github.com/rowdb/rowdb/internal/storage/sqlite"
	"github.com/rowdb/rowdb/internal/viewsvc"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "rowdb.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := &handlers.Services{
		View:  viewsvc.New(store, testLogger()),
		Store: store,
	}
	cfg := &handlers.Config{Version: "test", MaxRequestBodyBytes: 1 << 20}
	limits := ratelimit.NewConfig(ratelimit.DefaultLimits())
	t.Cleanup(limits.Close)

	srv := httptest.NewServer(NewRouter(svc, cfg, limits))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func createTestDatabase(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var created struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, "POST", srv.URL+"/api/databases", map[string]any{
		"title": "Tasks",
		"properties": []map[string]any{
			{"id": "title", "name": "Title", "type": "text", "required": true, "visible": true},
			{
				"id": "status", "name": "Status", "type": "select", "visible": true, "order": 1,
				"options": []map[string]any{{"id": "o1", "name": "Todo"}, {"id": "o2", "name": "Done"}},
			},
		},
	}, &created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create database: status %d", resp.StatusCode)
	}
	if created.ID == "" {
		t.Fatal("create database: empty id")
	}
	return created.ID
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	resp := doJSON(t, "GET", srv.URL+"/api/health", nil, &health)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
}

func TestDatabaseEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createTestDatabase(t, srv)

	t.Run("get by path param", func(t *testing.T) {
		var db struct {
			Title string `json:"title"`
		}
		resp := doJSON(t, "GET", srv.URL+"/api/databases/"+id, nil, &db)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if db.Title != "Tasks" {
			t.Errorf("Title = %q", db.Title)
		}
	})

	t.Run("rate limit headers are set", func(t *testing.T) {
		resp := doJSON(t, "GET", srv.URL+"/api/databases", nil, nil)
		if resp.Header.Get("X-RateLimit-Limit") == "" {
			t.Error("missing X-RateLimit-Limit header")
		}
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		var apiErr struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		resp := doJSON(t, "POST", srv.URL+"/api/databases", map[string]any{
			"properties": []map[string]any{{"id": "p", "name": "P", "type": "text"}},
		}, &apiErr)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if apiErr.Error.Code != "MISSING_FIELD" {
			t.Errorf("code = %q, want MISSING_FIELD", apiErr.Error.Code)
		}
	})

	t.Run("unknown database is 404", func(t *testing.T) {
		resp := doJSON(t, "GET", srv.URL+"/api/databases/2", nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestMaterializeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createTestDatabase(t, srv)

	for i, title := range []string{"b", "a", "c"} {
		resp := doJSON(t, "POST", fmt.Sprintf("%s/api/databases/%s/records", srv.URL, id), map[string]any{
			"properties": map[string]any{"title": title, "status": "o1"},
		}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("create record %d: status %d", i, resp.StatusCode)
		}
	}

	var mat struct {
		Rows []struct {
			Properties map[string]any `json:"properties"`
		} `json:"rows"`
		Total      int    `json:"total"`
		Generation uint64 `json:"generation"`
	}
	resp := doJSON(t, "POST", fmt.Sprintf("%s/api/databases/%s/materialize", srv.URL, id), map[string]any{
		"query": map[string]any{
			"sorts": []map[string]any{{"property": "title", "direction": "asc"}},
		},
	}, &mat)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("materialize: status %d", resp.StatusCode)
	}
	if mat.Total != 3 {
		t.Errorf("Total = %d, want 3", mat.Total)
	}
	if mat.Rows[0].Properties["title"] != "a" {
		t.Errorf("rows not sorted: %v", mat.Rows[0].Properties["title"])
	}

	t.Run("stale load more conflicts", func(t *testing.T) {
		resp := doJSON(t, "POST", fmt.Sprintf("%s/api/databases/%s/records", srv.URL, id), map[string]any{
			"properties": map[string]any{"title": "d"},
		}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("create record: status %d", resp.StatusCode)
		}
		resp = doJSON(t, "POST", fmt.Sprintf("%s/api/databases/%s/materialize", srv.URL, id), map[string]any{
			"load_more":  true,
			"generation": mat.Generation,
			"query":      map[string]any{"page": 1},
		}, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})
}

func TestBodySizeLimit(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "rowdb.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := &handlers.Services{View: viewsvc.New(store, testLogger()), Store: store}
	cfg := &handlers.Config{Version: "test", MaxRequestBodyBytes: 64}
	limits := ratelimit.NewConfig(ratelimit.DefaultLimits())
	t.Cleanup(limits.Close)
	srv := httptest.NewServer(NewRouter(svc, cfg, limits))
	t.Cleanup(srv.Close)

	big := map[string]any{"title": string(make([]byte, 1024))}
	resp := doJSON(t, "POST", srv.URL+"/api/databases", big, nil)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}
