package engine

import "errors"

var (
	errIDRequired   = errors.New("ID is required")
	errNameRequired = errors.New("name is required")

	// ErrPropertyLocked is returned when hiding a system or required
	// property is attempted.
	ErrPropertyLocked = errors.New("system and required properties cannot be hidden")
	// ErrPropertyNotFound is returned when a mutation references a property
	// that is not part of the schema.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrNotGroupable is returned when a record move is attempted without a
	// grouping property.
	ErrNotGroupable = errors.New("no groupable property in schema")
	// ErrUnknownGroup is returned when a record move targets a bucket that
	// does not exist.
	ErrUnknownGroup = errors.New("unknown group")
)
