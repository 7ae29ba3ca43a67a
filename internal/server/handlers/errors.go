// Maps service and storage errors to API errors.

package handlers

import (
	"errors"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/server/dto"
	"github.com/rowdb/rowdb/internal/storage"
	"github.com/rowdb/rowdb/internal/viewsvc"
)

// mapError translates domain errors into API errors with the right status
// code. Errors it does not recognize become opaque 500s wrapping the cause.
func mapError(err error, fallback string) error {
	switch {
	case errors.Is(err, storage.ErrDatabaseNotFound):
		return dto.NotFound("database")
	case errors.Is(err, storage.ErrViewNotFound):
		return dto.NotFound("view")
	case errors.Is(err, storage.ErrRecordNotFound):
		return dto.NotFound("record")
	case errors.Is(err, storage.ErrLastView):
		return dto.Conflict("cannot delete the last view of a database")
	case errors.Is(err, viewsvc.ErrStaleQuery):
		return dto.StaleQuery()
	case errors.Is(err, engine.ErrPropertyNotFound):
		return dto.NotFound("property")
	case errors.Is(err, engine.ErrPropertyLocked):
		return dto.Conflict("system and required properties cannot be hidden")
	case errors.Is(err, engine.ErrNotGroupable):
		return dto.BadRequest("database has no groupable property")
	case errors.Is(err, engine.ErrUnknownGroup):
		return dto.BadRequest("unknown group")
	}
	return dto.InternalWithError(fallback, err)
}
