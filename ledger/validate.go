/*
validate.go - Schema bounds on mutation inputs

PURPOSE:
  Input validation applied before any store mutation. Bounds mirror
  the account/transaction/budget schemas of the product's forms so the
  engine rejects anything the UI would.
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	maxOpeningBalance = decimal.NewFromInt(100_000_000)
	minTxAmount       = decimal.NewFromInt(1)
	maxTxAmount       = decimal.NewFromInt(10_000_000)
	minBudgetAmount   = decimal.NewFromInt(1)
	maxBudgetAmount   = decimal.NewFromInt(1_000_000_000)
)

// CreateAccountInput is the request shape for CreateAccount.
type CreateAccountInput struct {
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Currency  Currency
	IsDefault bool
}

func (in CreateAccountInput) validate() error {
	if len(in.Name) < 5 {
		return &ValidationError{Field: "name", Message: "must be at least 5 characters"}
	}
	if len(in.Name) > 100 {
		return &ValidationError{Field: "name", Message: "cannot exceed 100 characters"}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown account type"}
	}
	if in.Balance.IsNegative() {
		return &ValidationError{Field: "balance", Message: "cannot be negative"}
	}
	if in.Balance.GreaterThan(maxOpeningBalance) {
		return &ValidationError{Field: "balance", Message: "cannot exceed 100,000,000"}
	}
	if in.Currency != "" && !in.Currency.Valid() {
		return &ValidationError{Field: "currency", Message: "unknown currency"}
	}
	return nil
}

// TransactionInput is the request shape for CreateTransaction and
// EditTransaction. Amount is the positive magnitude; the sign is
// derived from Type.
type TransactionInput struct {
	AccountID   AccountID
	Amount      decimal.Decimal
	Currency    Currency
	Type        TransactionType
	Status      TransactionStatus
	Description string
	Date        time.Time
	Tags        []string
	IsRecurring bool
	Interval    RecurringInterval
}

func (in TransactionInput) validate() error {
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown transaction type"}
	}
	if !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown transaction status"}
	}
	if in.Amount.LessThan(minTxAmount) {
		return &ValidationError{Field: "amount", Message: "must be at least 1"}
	}
	if in.Amount.GreaterThan(maxTxAmount) {
		return &ValidationError{Field: "amount", Message: "cannot exceed 10,000,000"}
	}
	if !in.Currency.Valid() {
		return &ValidationError{Field: "currency", Message: "unknown currency"}
	}
	if len(in.Description) < 7 {
		return &ValidationError{Field: "description", Message: "must be at least 7 characters"}
	}
	if len(in.Description) > 1000 {
		return &ValidationError{Field: "description", Message: "cannot exceed 1000 characters"}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "required"}
	}
	if in.IsRecurring && !in.Interval.Valid() {
		return &ValidationError{Field: "recurring_interval", Message: "required for recurring transactions"}
	}
	if !in.IsRecurring && in.Interval != "" && !in.Interval.Valid() {
		return &ValidationError{Field: "recurring_interval", Message: "unknown interval"}
	}
	return nil
}

func validateBudgetAmount(amount decimal.Decimal) error {
	if amount.LessThan(minBudgetAmount) {
		return &ValidationError{Field: "amount", Message: "must be at least 1"}
	}
	if amount.GreaterThan(maxBudgetAmount) {
		return &ValidationError{Field: "amount", Message: "cannot exceed 1,000,000,000"}
	}
	return nil
}
