package dto

import (
	"errors"
	"net/http"
	"testing"

	"github.com/rowdb/rowdb/internal/engine"
)

func TestAPIError(t *testing.T) {
	t.Run("NewAPIError", func(t *testing.T) {
		err := NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "resource not found")
		if err.StatusCode() != http.StatusNotFound {
			t.Errorf("Expected status code %d, got %d", http.StatusNotFound, err.StatusCode())
		}
		if err.Code() != ErrorCodeNotFound {
			t.Errorf("Expected code %s, got %s", ErrorCodeNotFound, err.Code())
		}
		if err.Error() != "resource not found" {
			t.Errorf("Expected message 'resource not found', got '%s'", err.Error())
		}
		if err.Details() == nil {
			t.Error("Expected Details() to return non-nil map")
		}
	})
	t.Run("WithDetails", func(t *testing.T) {
		t.Run("adds details", func(t *testing.T) {
			err := NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, "validation failed").
				WithDetails(map[string]any{"field": "title", "reason": "invalid format"})
			if err.Details()["field"] != "title" {
				t.Errorf("Expected field 'title', got %v", err.Details()["field"])
			}
			if err.Details()["reason"] != "invalid format" {
				t.Errorf("Expected reason 'invalid format', got %v", err.Details()["reason"])
			}
		})
		t.Run("initializes nil map", func(t *testing.T) {
			err := (&APIError{
				statusCode: http.StatusBadRequest,
				code:       ErrorCodeValidationFailed,
				message:    "test",
				details:    nil,
			}).WithDetails(map[string]any{"key": "value"})
			if err.Details()["key"] != "value" {
				t.Error("Expected WithDetails to initialize nil map")
			}
		})
	})
	t.Run("WithDetail", func(t *testing.T) {
		err := NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, "validation failed").
			WithDetail("field", "title")
		if err.Details()["field"] != "title" {
			t.Errorf("Expected field 'title', got %v", err.Details()["field"])
		}
	})
	t.Run("Wrap", func(t *testing.T) {
		origErr := errors.New("original error")
		err := NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, "wrapped error").Wrap(origErr)
		if err.Unwrap() != origErr {
			t.Error("Expected Unwrap() to return the original error")
		}
		if err.Error() != "wrapped error: original error" {
			t.Errorf("Expected error message 'wrapped error: original error', got '%s'", err.Error())
		}
	})
}

func TestErrorConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("view")
		if err.StatusCode() != http.StatusNotFound {
			t.Errorf("Expected status code %d, got %d", http.StatusNotFound, err.StatusCode())
		}
		if err.Code() != ErrorCodeNotFound {
			t.Errorf("Expected code %s, got %s", ErrorCodeNotFound, err.Code())
		}
		if err.Error() != "view not found" {
			t.Errorf("Expected message 'view not found', got '%s'", err.Error())
		}
	})
	t.Run("BadRequest", func(t *testing.T) {
		err := BadRequest("invalid input")
		if err.StatusCode() != http.StatusBadRequest {
			t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, err.StatusCode())
		}
		if err.Code() != ErrorCodeValidationFailed {
			t.Errorf("Expected code %s, got %s", ErrorCodeValidationFailed, err.Code())
		}
	})
	t.Run("MissingField", func(t *testing.T) {
		err := MissingField("title")
		if err.StatusCode() != http.StatusBadRequest {
			t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, err.StatusCode())
		}
		if err.Code() != ErrorCodeMissingField {
			t.Errorf("Expected code %s, got %s", ErrorCodeMissingField, err.Code())
		}
		if err.Error() != "Missing required field: title" {
			t.Errorf("Expected message 'Missing required field: title', got '%s'", err.Error())
		}
	})
	t.Run("InvalidField", func(t *testing.T) {
		err := InvalidField("sorts", "invalid direction")
		if err.StatusCode() != http.StatusBadRequest {
			t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, err.StatusCode())
		}
		if err.Code() != ErrorCodeInvalidFormat {
			t.Errorf("Expected code %s, got %s", ErrorCodeInvalidFormat, err.Code())
		}
		if err.Details()["field"] != "sorts" {
			t.Errorf("Expected field detail 'sorts', got %v", err.Details()["field"])
		}
	})
	t.Run("StaleQuery", func(t *testing.T) {
		err := StaleQuery()
		if err.StatusCode() != http.StatusConflict {
			t.Errorf("Expected status code %d, got %d", http.StatusConflict, err.StatusCode())
		}
		if err.Code() != ErrorCodeStaleQuery {
			t.Errorf("Expected code %s, got %s", ErrorCodeStaleQuery, err.Code())
		}
	})
	t.Run("Internal", func(t *testing.T) {
		err := Internal("server error")
		if err.StatusCode() != http.StatusInternalServerError {
			t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, err.StatusCode())
		}
		if err.Code() != ErrorCodeInternal {
			t.Errorf("Expected code %s, got %s", ErrorCodeInternal, err.Code())
		}
	})
	t.Run("InternalWithError", func(t *testing.T) {
		origErr := errors.New("database connection failed")
		err := InternalWithError("failed to fetch data", origErr)
		if err.StatusCode() != http.StatusInternalServerError {
			t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, err.StatusCode())
		}
		if err.Unwrap() != origErr {
			t.Error("Expected InternalWithError to wrap the original error")
		}
	})
	t.Run("RateLimitExceeded", func(t *testing.T) {
		err := RateLimitExceeded(30)
		if err.StatusCode() != http.StatusTooManyRequests {
			t.Errorf("Expected status code %d, got %d", http.StatusTooManyRequests, err.StatusCode())
		}
		if err.Details()["retry_after"] != 30 {
			t.Errorf("Expected retry_after 30, got %v", err.Details()["retry_after"])
		}
	})
	t.Run("PayloadTooLarge", func(t *testing.T) {
		err := PayloadTooLarge(1 << 20)
		if err.StatusCode() != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status code %d, got %d", http.StatusRequestEntityTooLarge, err.StatusCode())
		}
		if err.Code() != ErrorCodePayloadTooLarge {
			t.Errorf("Expected code %s, got %s", ErrorCodePayloadTooLarge, err.Code())
		}
	})
}

func TestRequestValidation(t *testing.T) {
	t.Run("CreateDatabaseRequest", func(t *testing.T) {
		req := &CreateDatabaseRequest{}
		if err := req.Validate(); err == nil {
			t.Error("expected error for empty title")
		}
		req.Title = "Tasks"
		if err := req.Validate(); err == nil {
			t.Error("expected error for no properties")
		}
	})
	t.Run("duplicate property ids rejected", func(t *testing.T) {
		req := &CreateDatabaseRequest{Title: "Tasks"}
		req.Properties = append(req.Properties, prop("a"), prop("a"))
		if err := req.Validate(); err == nil {
			t.Error("expected error for duplicate ids")
		}
	})
	t.Run("UpdateColumnsRequest", func(t *testing.T) {
		req := &UpdateColumnsRequest{ID: 1, ViewID: 2, Action: ColumnsActionToggle}
		if err := req.Validate(); err == nil {
			t.Error("toggle without property_id should fail")
		}
		req.PropertyID = "p1"
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
		req.Action = "explode"
		if err := req.Validate(); err == nil {
			t.Error("unknown action should fail")
		}
	})
	t.Run("MaterializeRequest bounds", func(t *testing.T) {
		req := &MaterializeRequest{ID: 1}
		if err := req.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
		req.Query = &engine.QueryState{Page: -1}
		if err := req.Validate(); err == nil {
			t.Error("negative page should fail")
		}
		req.Query = &engine.QueryState{PageSize: maxPageSize + 1}
		if err := req.Validate(); err == nil {
			t.Error("oversized page_size should fail")
		}
	})
}

func prop(id string) engine.Property {
	return engine.Property{ID: id, Name: id, Type: engine.PropertyTypeText}
}
