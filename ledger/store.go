/*
store.go - Persistence interfaces for the ledger engine

PURPOSE:
  Defines the interface between the domain logic and the database.
  The engine only ever mutates balances and transaction rows together,
  so the one capability it insists on is WithTx: an atomic unit in
  which both the read of the current balance and the writes land, or
  nothing does.

ATOMIC UNITS:
  TxStore.WithTx executes a function against a Store bound to a single
  database transaction. Every read and write made through that Store
  is part of the same atomic unit. If the function returns an error
  the unit is rolled back; no partial effect is ever visible.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (same patterns apply to PostgreSQL)

SEE ALSO:
  - service.go: The only writer of balance+row pairs
  - recurring/runner.go: Uses ListDueRecurring for the trigger scan
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the persistence surface the engine needs. Reads that back a
// balance mutation must go through the same Store instance the mutation
// uses, inside WithTx.
type Store interface {
	// Accounts
	SaveAccount(ctx context.Context, a Account) error
	GetAccount(ctx context.Context, id AccountID) (*Account, error)
	ListAccounts(ctx context.Context, userID UserID) ([]Account, error)
	DeleteAccount(ctx context.Context, id AccountID, userID UserID) error
	// GetDefaultAccount returns the user's default account, or
	// ErrNoDefaultAccount if none is flagged.
	GetDefaultAccount(ctx context.Context, userID UserID) (*Account, error)
	// ClearDefaultAccounts unsets IsDefault on every account of the user.
	ClearDefaultAccounts(ctx context.Context, userID UserID) error
	// SetAccountDefault flags one account. Returns ErrAccountNotFound
	// if the row does not exist.
	SetAccountDefault(ctx context.Context, id AccountID, userID UserID) error
	// UpdateAccountBalance overwrites the stored balance.
	UpdateAccountBalance(ctx context.Context, id AccountID, balance decimal.Decimal) error

	// Transactions
	SaveTransaction(ctx context.Context, tx Transaction) error
	// GetTransaction is owner-scoped: a transaction belonging to a
	// different user reads as ErrTransactionNotFound.
	GetTransaction(ctx context.Context, id TransactionID, userID UserID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx Transaction) error
	DeleteTransaction(ctx context.Context, id TransactionID, userID UserID) error
	ListTransactions(ctx context.Context, userID UserID, accountID AccountID) ([]Transaction, error)
	ListTransactionsInWindow(ctx context.Context, userID UserID, w Window) ([]Transaction, error)
	// ListDueRecurring returns recurring COMPLETED transactions whose
	// interval is set and which are due at now (never processed, or
	// next occurrence <= now), capped at limit.
	ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]Transaction, error)
	// SetRecurrenceProcessed stamps lastProcessed and nextOccurrence on
	// the original recurring transaction.
	SetRecurrenceProcessed(ctx context.Context, id TransactionID, processedAt, next time.Time) error

	// Budgets (one row per user, upsert semantics)
	UpsertBudget(ctx context.Context, b Budget) error
	GetBudget(ctx context.Context, userID UserID) (*Budget, error)

	// Users (provisioned by the identity webhook)
	SaveUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id UserID) (*User, error)

	// SumTransactionAmounts sums the amounts of the user's transactions
	// on one account, filtered by type, inside a window. Read-side only;
	// read skew against concurrent writers is acceptable.
	SumTransactionAmounts(ctx context.Context, userID UserID, accountID AccountID, w Window, types []TransactionType) (decimal.Decimal, error)
}

// TxStore wraps Store with transaction support. WithTx executes fn
// within a database transaction: error rolls back, nil commits.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
