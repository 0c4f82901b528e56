package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain. Structured error types below wrap these
// so callers can match with errors.Is and still read the details via
// errors.As.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPartialCommit     = errors.New("partial commit failure")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports one product that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientStockBatchError aggregates every shortage found during the
// validation phase so the caller sees the full list at once.
type InsufficientStockBatchError struct {
	Items []InsufficientStockError `json:"items"`
}

func (e *InsufficientStockBatchError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Items))
}

func (e *InsufficientStockBatchError) Unwrap() error { return ErrInsufficientStock }

// PartialCommitFailureError reports a reservation that failed after earlier
// reservations in the same approval had already been applied. Released
// lists the product ids whose reservations were compensated.
type PartialCommitFailureError struct {
	FailedProductID uint
	Released        []uint
	Cause           error
}

func (e *PartialCommitFailureError) Error() string {
	return fmt.Sprintf("commit failed at product %d (released %d earlier reservation(s)): %v",
		e.FailedProductID, len(e.Released), e.Cause)
}

func (e *PartialCommitFailureError) Unwrap() error { return ErrPartialCommit }

// InvalidTransitionError reports an illegal status edge.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition quote from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// InvalidArgumentError reports malformed input on a named field.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }
