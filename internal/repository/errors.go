// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios without string matching.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat code does not exist for the
// given show.
var ErrSeatNotFound = errors.New("seat not found")

// ErrOrderNotFound is returned when an order ID has no matching row.
var ErrOrderNotFound = errors.New("order not found")

// ErrSessionNotFound is returned when a user has no session row.
var ErrSessionNotFound = errors.New("session not found")
