package store

import (
	"fmt"

	"gmao-backend/internal/workorder"
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// InvalidInputError reports a rejected request field before any mutation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a work order status edge that is not in the
// transition table. Allowed carries the edges the caller may take instead.
type InvalidTransitionError struct {
	From    workorder.Status
	To      workorder.Status
	Allowed []workorder.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// InsufficientStockError reports a deduction beyond the on-hand quantity.
type InsufficientStockError struct {
	PieceID   int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for piece %d (available: %d, requested: %d)",
		e.PieceID, e.Available, e.Requested)
}

// ConflictError reports a mutation blocked by a referencing entity.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
