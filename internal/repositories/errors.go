package repositories

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a record id does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a conditional stock decrement matches no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)
