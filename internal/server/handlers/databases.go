// Handles database schema operations.

package handlers

import (
	"context"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/server/dto"
	"github.com/rowdb/rowdb/internal/storage"
)

// DatabaseHandler handles database requests.
type DatabaseHandler struct {
	Svc *Services
}

// ListDatabases lists all databases.
func (h *DatabaseHandler) ListDatabases(ctx context.Context, req *dto.ListDatabasesRequest) (*dto.ListDatabasesResponse, error) {
	dbs, err := h.Svc.Store.ListDatabases(ctx)
	if err != nil {
		return nil, mapError(err, "Failed to list databases")
	}
	out := make([]dto.Database, len(dbs))
	for i, db := range dbs {
		out[i] = databaseToDTO(db)
	}
	return &dto.ListDatabasesResponse{Databases: out}, nil
}

// GetDatabase returns one database with its schema and views.
func (h *DatabaseHandler) GetDatabase(ctx context.Context, req *dto.GetDatabaseRequest) (*dto.DatabaseResponse, error) {
	db, err := h.Svc.Store.GetDatabase(ctx, req.ID)
	if err != nil {
		return nil, mapError(err, "Failed to get database")
	}
	return &dto.DatabaseResponse{Database: databaseToDTO(db)}, nil
}

// CreateDatabase creates a database with its property schema and an initial
// default view.
func (h *DatabaseHandler) CreateDatabase(ctx context.Context, req *dto.CreateDatabaseRequest) (*dto.DatabaseResponse, error) {
	db, err := h.Svc.Store.CreateDatabase(ctx, req.Title, req.Properties)
	if err != nil {
		return nil, mapError(err, "Failed to create database")
	}
	return &dto.DatabaseResponse{Database: databaseToDTO(db)}, nil
}

// DeleteDatabase deletes a database and all its records.
func (h *DatabaseHandler) DeleteDatabase(ctx context.Context, req *dto.DeleteDatabaseRequest) (*dto.DeleteResponse, error) {
	if err := h.Svc.Store.DeleteDatabase(ctx, req.ID); err != nil {
		return nil, mapError(err, "Failed to delete database")
	}
	return &dto.DeleteResponse{Ok: true}, nil
}

// --- DTO Conversions ---

func databaseToDTO(db *storage.Database) dto.Database {
	return dto.Database{
		ID:         db.ID,
		Title:      db.Title,
		Properties: db.Properties,
		Views:      db.Views,
		Created:    db.Created,
		Modified:   db.Modified,
	}
}

func recordToDTO(r *engine.Record) dto.Record {
	return dto.Record{
		ID:         r.ID,
		Properties: r.Properties,
		Created:    r.Created,
		Modified:   r.Modified,
		Archived:   r.Archived,
	}
}

func recordsToDTO(records []*engine.Record) []dto.Record {
	result := make([]dto.Record, len(records))
	for i, r := range records {
		result[i] = recordToDTO(r)
	}
	return result
}
