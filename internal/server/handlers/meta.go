// Serves static metadata: operator tables and API type schemas.

package handlers

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/server/dto"
)

// MetaHandler serves schema and operator metadata consumed by filter-building
// UIs.
type MetaHandler struct{}

// Operators returns the operator table keyed by property type. Types without
// an entry are not filterable.
func (h *MetaHandler) Operators(ctx context.Context, req *dto.OperatorsRequest) (*dto.OperatorsResponse, error) {
	return &dto.OperatorsResponse{Operators: engine.OperatorTable()}, nil
}

// Schema returns JSON Schemas for the core API types, reflected from the Go
// definitions so clients and docs never drift from the code.
func (h *MetaHandler) Schema(ctx context.Context, req *dto.SchemaRequest) (*dto.SchemaResponse, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	return &dto.SchemaResponse{
		Schemas: map[string]any{
			"property": r.Reflect(&engine.Property{}),
			"record":   r.Reflect(&engine.Record{}),
			"view":     r.Reflect(&engine.View{}),
			"group":    r.Reflect(&engine.Group{}),
		},
	}, nil
}
