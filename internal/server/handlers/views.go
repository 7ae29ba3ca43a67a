// Handles view operations: lifecycle, settings and materialization.

package handlers

import (
	"context"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/server/dto"
	"github.com/rowdb/rowdb/internal/viewsvc"
)

// ViewHandler handles view requests.
type ViewHandler struct {
	Svc *Services
}

// CreateView creates a new view for a database.
func (h *ViewHandler) CreateView(ctx context.Context, req *dto.CreateViewRequest) (*dto.ViewResponse, error) {
	v, err := h.Svc.View.CreateView(ctx, req.ID, req.Name, engine.ViewType(req.Type))
	if err != nil {
		return nil, mapError(err, "Failed to create view")
	}
	return &dto.ViewResponse{View: *v}, nil
}

// UpdateView updates an existing view's saved state. Absent fields leave the
// corresponding state untouched; each present field replaces its state whole.
func (h *ViewHandler) UpdateView(ctx context.Context, req *dto.UpdateViewRequest) (*dto.ViewResponse, error) {
	var v *engine.View
	var err error
	if req.Name != "" {
		if v, err = h.Svc.View.RenameView(ctx, req.ID, req.ViewID, req.Name); err != nil {
			return nil, mapError(err, "Failed to rename view")
		}
	}
	if req.Filters != nil {
		if v, err = h.Svc.View.SetFilters(ctx, req.ID, req.ViewID, req.Filters); err != nil {
			return nil, mapError(err, "Failed to update filters")
		}
	}
	if req.Sorts != nil {
		if v, err = h.Svc.View.SetSorts(ctx, req.ID, req.ViewID, req.Sorts); err != nil {
			return nil, mapError(err, "Failed to update sorts")
		}
	}
	if req.ShowUngrouped != nil {
		if v, err = h.Svc.View.SetShowUngrouped(ctx, req.ID, req.ViewID, *req.ShowUngrouped); err != nil {
			return nil, mapError(err, "Failed to update grouping")
		}
	}
	if v == nil {
		// Nothing to change; return the view as stored.
		stored, err := h.Svc.Store.FetchView(ctx, req.ID, req.ViewID)
		if err != nil {
			return nil, mapError(err, "Failed to get view")
		}
		v = stored
	}
	return &dto.ViewResponse{View: *v}, nil
}

// DeleteView deletes a view. The last view of a database cannot be deleted.
func (h *ViewHandler) DeleteView(ctx context.Context, req *dto.DeleteViewRequest) (*dto.DeleteResponse, error) {
	if err := h.Svc.View.DeleteView(ctx, req.ID, req.ViewID); err != nil {
		return nil, mapError(err, "Failed to delete view")
	}
	return &dto.DeleteResponse{Ok: true}, nil
}

// UpdateColumns changes a view's column visibility.
func (h *ViewHandler) UpdateColumns(ctx context.Context, req *dto.UpdateColumnsRequest) (*dto.ViewResponse, error) {
	var v *engine.View
	var err error
	switch req.Action {
	case dto.ColumnsActionToggle:
		v, err = h.Svc.View.ToggleProperty(ctx, req.ID, req.ViewID, req.PropertyID, req.Visible)
	case dto.ColumnsActionShowAll:
		v, err = h.Svc.View.ShowAllProperties(ctx, req.ID, req.ViewID)
	case dto.ColumnsActionHideAll:
		v, err = h.Svc.View.HideAllProperties(ctx, req.ID, req.ViewID)
	case dto.ColumnsActionReset:
		v, err = h.Svc.View.ResetProperties(ctx, req.ID, req.ViewID)
	}
	if err != nil {
		return nil, mapError(err, "Failed to update columns")
	}
	return &dto.ViewResponse{View: *v}, nil
}

// Materialize renders a view under an optional local query state. A load-more
// request re-renders an extended page and is rejected when the snapshot it
// extends has been invalidated by a write.
func (h *ViewHandler) Materialize(ctx context.Context, req *dto.MaterializeRequest) (*dto.MaterializeResponse, error) {
	var res *viewsvc.Result
	var err error
	if req.LoadMore {
		res, err = h.Svc.View.LoadMore(ctx, req.ID, req.ViewID, req.Query, req.Generation)
	} else {
		res, err = h.Svc.View.Materialize(ctx, req.ID, req.ViewID, req.Query)
	}
	if err != nil {
		return nil, mapError(err, "Failed to materialize view")
	}
	return materializedToDTO(res), nil
}

// --- DTO Conversions ---

func materializedToDTO(res *viewsvc.Result) *dto.MaterializeResponse {
	return &dto.MaterializeResponse{
		Rows:       recordsToDTO(res.Rows),
		Columns:    res.Columns,
		Groups:     groupsToDTO(res.Groups),
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		HasMore:    res.HasMore,
		Generation: res.Generation,
	}
}

func groupsToDTO(groups []engine.Group) []dto.Group {
	if groups == nil {
		return nil
	}
	result := make([]dto.Group, len(groups))
	for i, g := range groups {
		result[i] = dto.Group{
			ID:      g.ID,
			Name:    g.Name,
			Color:   g.Color,
			Hidden:  g.Hidden,
			Records: recordsToDTO(g.Records),
		}
	}
	return result
}
