// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/rowdb/rowdb/internal/storage"
	"github.com/rowdb/rowdb/internal/viewsvc"
)

// Services holds all service dependencies for handlers.
type Services struct {
	View  *viewsvc.Service
	Store storage.RecordStore
}

// Config holds configuration values needed by handlers.
type Config struct {
	Version             string
	MaxRequestBodyBytes int64
}
