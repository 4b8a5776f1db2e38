package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Typed failures surfaced by the workflows. The transport layer matches them
// with errors.As and maps each kind to an HTTP status; the core carries no
// user-facing text beyond the structured context below.

// NotFoundError: the referenced entity does not exist.
type NotFoundError struct {
	Entity string // "note", "customer", ...
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError: the operation is not legal for the entity's current
// lifecycle state.
type InvalidStateError struct {
	Entity string
	ID     string
	State  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s: operation not allowed", e.Entity, e.ID, e.State)
}

// InvalidAmountError: a non-positive or otherwise malformed monetary input.
type InvalidAmountError struct {
	Field  string
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount for %s: %s", e.Field, e.Amount.String())
}

// InvalidInputError: a request field whose value falls outside the accepted
// set, such as an unknown payment method.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// DuplicateNumberError: the human-assigned note number is already in use.
// Numbers are globally unique and never reused.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("note number %s already in use", e.Number)
}

// StorageError wraps an opaque persistence failure. Op names the operation
// that failed, the cause is preserved for errors.Is/As chains.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
