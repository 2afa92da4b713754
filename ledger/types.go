/*
Package ledger provides the core personal-finance ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  accounts, transactions, and budgets: the signed-effect calculator
  that maps a transaction to a balance delta, the recurrence scheduler
  that decides when a recurring transaction is due, and the
  transactional service that keeps account balances consistent with
  the transaction rows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A named balance container owned by a user
  - Transaction: A dated, typed movement against an account
  - Budget: The single per-user monthly spending cap
  - User: A locally provisioned identity record
  - Typed IDs: Prevent mixing account/transaction/user identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for every money value
  2. Derived sign: Transaction amounts are stored positive; the sign
     comes from the transaction type (see effect.go)
  3. Type Safety: Closed enums with exhaustive switches
  4. Explicit identity: Every operation takes the caller's UserID;
     there is no ambient "current user"

SEE ALSO:
  - effect.go: Signed balance deltas and their reversal
  - recurrence.go: Due-ness and next-occurrence scheduling
  - service.go: Atomic ledger mutations
  - store.go: Persistence interfaces
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AccountID string
type TransactionID string
type BudgetID string
type UserID string

// =============================================================================
// TRANSACTION ENUMS
// =============================================================================

// TransactionType determines the sign of a transaction's balance effect.
type TransactionType string

const (
	TxDeposit    TransactionType = "DEPOSIT"
	TxWithdrawal TransactionType = "WITHDRAWAL"
	TxTransfer   TransactionType = "TRANSFER"
	TxPayment    TransactionType = "PAYMENT"
	TxRefund     TransactionType = "REFUND"
)

// TransactionTypes lists every known type, for validation and iteration.
var TransactionTypes = []TransactionType{
	TxDeposit, TxWithdrawal, TxTransfer, TxPayment, TxRefund,
}

// ExpenseTypes are the types counted against a budget.
var ExpenseTypes = []TransactionType{TxPayment, TxWithdrawal, TxTransfer}

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxTransfer, TxPayment, TxRefund:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// RecurringInterval is the calendar cadence of a recurring transaction.
type RecurringInterval string

const (
	IntervalDaily     RecurringInterval = "DAILY"
	IntervalWeekly    RecurringInterval = "WEEKLY"
	IntervalBiweekly  RecurringInterval = "BIWEEKLY"
	IntervalMonthly   RecurringInterval = "MONTHLY"
	IntervalQuarterly RecurringInterval = "QUARTERLY"
	IntervalYearly    RecurringInterval = "YEARLY"
	IntervalOneTime   RecurringInterval = "ONE_TIME"
)

func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalBiweekly, IntervalMonthly,
		IntervalQuarterly, IntervalYearly, IntervalOneTime:
		return true
	}
	return false
}

// =============================================================================
// ACCOUNT ENUMS
// =============================================================================

type AccountType string

const (
	AccountChecking   AccountType = "CHECKING"
	AccountSavings    AccountType = "SAVINGS"
	AccountCredit     AccountType = "CREDIT"
	AccountInvestment AccountType = "INVESTMENT"
	AccountLoan       AccountType = "LOAN"
	AccountBusiness   AccountType = "BUSINESS"
	AccountRetirement AccountType = "RETIREMENT"
	AccountJoint      AccountType = "JOINT"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment,
		AccountLoan, AccountBusiness, AccountRetirement, AccountJoint:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountClosed   AccountStatus = "CLOSED"
	AccountPending  AccountStatus = "PENDING"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyJPY Currency = "JPY"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyJPY:
		return true
	}
	return false
}

// =============================================================================
// ENTITIES
// =============================================================================

// Account is a balance container. At most one account per user has
// IsDefault set; the service enforces this with a clear-all-then-set-one
// sequence inside a single store transaction.
type Account struct {
	ID        AccountID
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Currency  Currency
	Status    AccountStatus
	IsDefault bool
	UserID    UserID
	CreatedAt time.Time
}

// Transaction is a movement against an account. Amount is always
// positive; the signed effect on the account balance is derived from
// Type (see effect.go). Date is the effective date, distinct from
// CreatedAt.
type Transaction struct {
	ID          TransactionID
	Amount      decimal.Decimal
	Currency    Currency
	Type        TransactionType
	Status      TransactionStatus
	Description string
	Date        time.Time
	Tags        []string

	// Recurrence fields. Interval is required when IsRecurring is set.
	// LastProcessed and NextOccurrence stay nil until the orchestrator
	// processes the first occurrence.
	IsRecurring    bool
	Interval       RecurringInterval
	LastProcessed  *time.Time
	NextOccurrence *time.Time

	UserID    UserID
	AccountID AccountID
	CreatedAt time.Time
}

// Budget is the per-user monthly cap. The validity window is never
// user-chosen: every upsert recomputes it to the current calendar month.
type Budget struct {
	ID        BudgetID
	UserID    UserID
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	UpdatedAt time.Time
}

// User is a local identity record, provisioned by the identity-provider
// webhook. The engine never authenticates; it only resolves callers.
type User struct {
	ID         UserID
	Email      string
	Name       string
	ProfileURL string
	CreatedAt  time.Time
}
