// Handles record operations: CRUD, cell edits and board moves.

package handlers

import (
	"context"

	"github.com/rowdb/rowdb/internal/server/dto"
)

// RecordHandler handles record requests.
type RecordHandler struct {
	Svc *Services
}

// GetRecord returns one record.
func (h *RecordHandler) GetRecord(ctx context.Context, req *dto.GetRecordRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.Store.GetRecord(ctx, req.ID, req.RecordID)
	if err != nil {
		return nil, mapError(err, "Failed to get record")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}

// CreateRecord creates a record. Values are normalized against the schema
// before being persisted.
func (h *RecordHandler) CreateRecord(ctx context.Context, req *dto.CreateRecordRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.View.CreateRecord(ctx, req.ID, req.Properties)
	if err != nil {
		return nil, mapError(err, "Failed to create record")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}

// UpdateRecord replaces all property values of a record.
func (h *RecordHandler) UpdateRecord(ctx context.Context, req *dto.UpdateRecordRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.View.UpdateRecord(ctx, req.ID, req.RecordID, req.Properties)
	if err != nil {
		return nil, mapError(err, "Failed to update record")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}

// DeleteRecord deletes a record.
func (h *RecordHandler) DeleteRecord(ctx context.Context, req *dto.DeleteRecordRequest) (*dto.DeleteResponse, error) {
	if err := h.Svc.View.DeleteRecord(ctx, req.ID, req.RecordID); err != nil {
		return nil, mapError(err, "Failed to delete record")
	}
	return &dto.DeleteResponse{Ok: true}, nil
}

// UpdateCell sets one property value on a record. Writing a value that
// normalizes to the stored one is a no-op.
func (h *RecordHandler) UpdateCell(ctx context.Context, req *dto.UpdateCellRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.View.UpdateCell(ctx, req.ID, req.RecordID, req.PropertyID, req.Value)
	if err != nil {
		return nil, mapError(err, "Failed to update cell")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}

// ArchiveRecord archives or restores a record. Archived records drop out of
// materializations but stay retrievable by ID.
func (h *RecordHandler) ArchiveRecord(ctx context.Context, req *dto.ArchiveRecordRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.View.ArchiveRecord(ctx, req.ID, req.RecordID, req.Archived)
	if err != nil {
		return nil, mapError(err, "Failed to archive record")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}

// MoveRecord moves a record to another group of a grouped view.
func (h *RecordHandler) MoveRecord(ctx context.Context, req *dto.MoveRecordRequest) (*dto.RecordResponse, error) {
	r, err := h.Svc.View.MoveRecord(ctx, req.ID, req.RecordID, req.GroupID)
	if err != nil {
		return nil, mapError(err, "Failed to move record")
	}
	return &dto.RecordResponse{Record: recordToDTO(r)}, nil
}
