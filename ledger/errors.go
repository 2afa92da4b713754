/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The HTTP layer maps these onto status codes; the job orchestrator
  folds them into per-item result objects instead of propagating.

ERROR CATEGORIES:
  1. Not-found errors - referenced rows that do not exist
  2. Validation errors - input outside schema bounds, rejected before
     any store mutation
  3. Authorization errors - no resolvable caller identity
  4. Job failures - single recurring-item failures that must never
     abort the batch

USAGE:
  if ledger.IsNotFound(err) { ... 404 ... }
  var verr *ledger.ValidationError
  if errors.As(err, &verr) { ... 400 ... }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when a referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrBudgetNotFound is returned when a user has no budget row.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrUserNotFound is returned when a referenced user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoDefaultAccount is returned when an operation needs the
	// caller's default account and none is flagged.
	ErrNoDefaultAccount = errors.New("no default account")

	// ErrUnauthorized is returned when no caller identity can be resolved.
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports input outside schema bounds. It is always
// raised before any store mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// JobFailure wraps a single recurring-transaction processing failure.
// It is reported inside the item's result object, never thrown across
// the batch boundary.
type JobFailure struct {
	TransactionID TransactionID
	Err           error
}

func (e *JobFailure) Error() string {
	return fmt.Sprintf("recurring transaction %s failed: %v", e.TransactionID, e.Err)
}

func (e *JobFailure) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrBudgetNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNoDefaultAccount)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
