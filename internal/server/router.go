// Package server implements the HTTP server and routing logic.
package server

//go:generate go run ../apiroutes -q

import (
	"net/http"

	"github.com/rowdb/rowdb/internal/server/handlers"
	"github.com/rowdb/rowdb/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limits *ratelimit.Config) http.Handler {
	mux := &http.ServeMux{}
	dh := &handlers.DatabaseHandler{Svc: svc}
	rh := &handlers.RecordHandler{Svc: svc}
	vh := &handlers.ViewHandler{Svc: svc}
	mh := &handlers.MetaHandler{}

	// Health check
	hh := handlers.NewHealthHandler(cfg.Version)
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg, limits))

	// Metadata
	mux.Handle("GET /api/operators", Wrap(mh.Operators, cfg, limits))
	mux.Handle("GET /api/schema", Wrap(mh.Schema, cfg, limits))

	// Database endpoints
	mux.Handle("GET /api/databases", Wrap(dh.ListDatabases, cfg, limits))
	mux.Handle("POST /api/databases", Wrap(dh.CreateDatabase, cfg, limits))
	mux.Handle("GET /api/databases/{id}", Wrap(dh.GetDatabase, cfg, limits))
	mux.Handle("DELETE /api/databases/{id}", Wrap(dh.DeleteDatabase, cfg, limits))

	// Record endpoints
	mux.Handle("POST /api/databases/{id}/records", Wrap(rh.CreateRecord, cfg, limits))
	mux.Handle("GET /api/databases/{id}/records/{rid}", Wrap(rh.GetRecord, cfg, limits))
	mux.Handle("PUT /api/databases/{id}/records/{rid}", Wrap(rh.UpdateRecord, cfg, limits))
	mux.Handle("DELETE /api/databases/{id}/records/{rid}", Wrap(rh.DeleteRecord, cfg, limits))
	mux.Handle("PUT /api/databases/{id}/records/{rid}/cells/{pid}", Wrap(rh.UpdateCell, cfg, limits))
	mux.Handle("POST /api/databases/{id}/records/{rid}/archive", Wrap(rh.ArchiveRecord, cfg, limits))
	mux.Handle("POST /api/databases/{id}/records/{rid}/move", Wrap(rh.MoveRecord, cfg, limits))

	// View endpoints
	mux.Handle("POST /api/databases/{id}/views", Wrap(vh.CreateView, cfg, limits))
	mux.Handle("PUT /api/databases/{id}/views/{vid}", Wrap(vh.UpdateView, cfg, limits))
	mux.Handle("DELETE /api/databases/{id}/views/{vid}", Wrap(vh.DeleteView, cfg, limits))
	mux.Handle("PUT /api/databases/{id}/views/{vid}/columns", Wrap(vh.UpdateColumns, cfg, limits))

	// Materialization. The database-level route renders the default view.
	mux.Handle("POST /api/databases/{id}/materialize", Wrap(vh.Materialize, cfg, limits))
	mux.Handle("POST /api/databases/{id}/views/{vid}/materialize", Wrap(vh.Materialize, cfg, limits))

	return mux
}
