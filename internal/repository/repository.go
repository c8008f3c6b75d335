// Package repository contains data access layer abstractions for the mock
// Hermes backend. Implementations live in subpackages (postgres).
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilter is returned for a filter key a search does not support.
	ErrInvalidFilter = errors.New("invalid filter")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Filter is one "key:value" search constraint.
type Filter struct {
	Key   string
	Value string
}
