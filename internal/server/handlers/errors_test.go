package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/server/dto"
	"github.com/rowdb/rowdb/internal/storage"
	"github.com/rowdb/rowdb/internal/viewsvc"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   dto.ErrorCode
	}{
		{
			name:           "database not found",
			err:            storage.ErrDatabaseNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
		{
			name:           "view not found",
			err:            storage.ErrViewNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
		{
			name:           "record not found",
			err:            storage.ErrRecordNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
		{
			name:           "last view",
			err:            storage.ErrLastView,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrorCodeConflict,
		},
		{
			name:           "stale query",
			err:            viewsvc.ErrStaleQuery,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrorCodeStaleQuery,
		},
		{
			name:           "property not found",
			err:            engine.ErrPropertyNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrorCodeNotFound,
		},
		{
			name:           "locked property",
			err:            engine.ErrPropertyLocked,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrorCodeConflict,
		},
		{
			name:           "unknown group",
			err:            engine.ErrUnknownGroup,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidationFailed,
		},
		{
			name:           "unrecognized error",
			err:            errors.New("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err, "operation failed")

			var ews dto.ErrorWithStatus
			if !errors.As(mapped, &ews) {
				t.Fatalf("mapError() = %T, want dto.ErrorWithStatus", mapped)
			}
			if ews.StatusCode() != tt.expectedStatus {
				t.Errorf("status code = %d, want %d", ews.StatusCode(), tt.expectedStatus)
			}
			if ews.Code() != tt.expectedCode {
				t.Errorf("error code = %q, want %q", ews.Code(), tt.expectedCode)
			}
		})
	}
}

func TestMapError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	mapped := mapError(cause, "fetch failed")
	if !errors.Is(mapped, cause) {
		t.Error("expected mapped internal error to wrap the cause")
	}
}
