/*
service.go - The transactional ledger core

PURPOSE:
  Every mutation that touches an account balance goes through here,
  and every balance+row pair lands inside one store transaction:

    CreateTransaction: insert row + apply forward effect
    EditTransaction:   reverse old effect + update row + apply new effect
    DeleteTransaction: delete row (+ optional reversal, policy-gated)

  Account lifecycle (create/delete/default flag) also lives here since
  the exactly-one-default invariant needs the same atomic treatment.

CONSISTENCY:
  The balance read and write happen inside the same atomic unit as the
  row write. No concurrent observer can see a transaction row without
  its balance effect, or vice versa. The store's transaction isolation
  (a single writer, for SQLite) prevents lost updates to the balance.

DELETE POLICY:
  Deleting a transaction does NOT reverse its balance effect unless
  the service is configured with ReverseOnDelete. The default keeps
  deletion an audit-trail operation; flip the flag to make deletion
  balance-correcting.

SEE ALSO:
  - effect.go: The signed delta arithmetic
  - budget.go, summary.go: Read-side companions
*/
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the transaction ledger service. All methods take the
// caller's UserID explicitly; there is no ambient identity.
type Service struct {
	store TxStore

	// ReverseOnDelete makes DeleteTransaction reverse the balance
	// effect of the deleted row. Off by default.
	ReverseOnDelete bool

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a ledger service over a transactional store.
func NewService(store TxStore) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// =============================================================================
// ACCOUNT OPERATIONS
// =============================================================================

// CreateAccount creates an account for the caller. When IsDefault is
// set, every other default flag of the caller is cleared first, inside
// the same transaction, so there is never a durable window with zero
// or two defaults.
func (s *Service) CreateAccount(ctx context.Context, userID UserID, in CreateAccountInput) (*Account, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = CurrencyUSD
	}

	account := Account{
		ID:        AccountID(uuid.NewString()),
		Name:      in.Name,
		Type:      in.Type,
		Balance:   in.Balance,
		Currency:  currency,
		Status:    AccountActive,
		IsDefault: in.IsDefault,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		if in.IsDefault {
			if err := tx.ClearDefaultAccounts(ctx, userID); err != nil {
				return err
			}
		}
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountDetails is the read side of the account list: all of the
// caller's accounts plus the id of the default one (empty if none).
type AccountDetails struct {
	Accounts         []Account
	DefaultAccountID AccountID
}

// GetAccountDetails lists the caller's accounts and identifies the default.
func (s *Service) GetAccountDetails(ctx context.Context, userID UserID) (*AccountDetails, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := &AccountDetails{Accounts: accounts}
	for _, a := range accounts {
		if a.IsDefault {
			details.DefaultAccountID = a.ID
			break
		}
	}
	return details, nil
}

// SetDefaultAccount atomically clears all of the caller's default flags
// and sets one. Fails with ErrAccountNotFound if the account does not
// exist or belongs to someone else.
func (s *Service) SetDefaultAccount(ctx context.Context, userID UserID, id AccountID) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.ClearDefaultAccounts(ctx, userID); err != nil {
			return err
		}
		return tx.SetAccountDefault(ctx, id, userID)
	})
}

// DeleteAccount removes an account. Transactions referencing it are
// removed with it by the store's foreign-key cascade.
func (s *Service) DeleteAccount(ctx context.Context, userID UserID, id AccountID) error {
	return s.store.DeleteAccount(ctx, id, userID)
}

// =============================================================================
// TRANSACTION OPERATIONS
// =============================================================================

// CreateTransaction validates the input, resolves the target account,
// and atomically inserts the row and moves the balance by the signed
// effect. On any failure inside the unit, neither persists.
func (s *Service) CreateTransaction(ctx context.Context, userID UserID, in TransactionInput) (*Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx := Transaction{
		ID:          TransactionID(uuid.NewString()),
		Amount:      in.Amount,
		Currency:    in.Currency,
		Type:        in.Type,
		Status:      in.Status,
		Description: in.Description,
		Date:        in.Date.UTC(),
		Tags:        in.Tags,
		IsRecurring: in.IsRecurring,
		Interval:    in.Interval,
		UserID:      userID,
		AccountID:   in.AccountID,
		CreatedAt:   s.now().UTC(),
	}

	err := s.store.WithTx(ctx, func(store Store) error {
		account, err := s.resolveAccount(ctx, store, userID, in.AccountID)
		if err != nil {
			return err
		}
		tx.AccountID = account.ID

		if err := store.SaveTransaction(ctx, tx); err != nil {
			return err
		}

		newBalance := Apply(tx.Type, account.Balance, tx.Amount)
		return store.UpdateAccountBalance(ctx, account.ID, newBalance)
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// EditTransaction reverses the existing transaction's effect, applies
// the new values' effect, and persists the updated row, all inside one
// atomic unit. The effect is reversed against the transaction's own
// account, so editing never leaves a stale delta behind.
func (s *Service) EditTransaction(ctx context.Context, userID UserID, id TransactionID, in TransactionInput) (*Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated Transaction
	err := s.store.WithTx(ctx, func(store Store) error {
		existing, err := store.GetTransaction(ctx, id, userID)
		if err != nil {
			return err
		}

		account, err := store.GetAccount(ctx, existing.AccountID)
		if err != nil {
			return err
		}

		balance := Reverse(existing.Type, account.Balance, existing.Amount)
		balance = Apply(in.Type, balance, in.Amount)

		updated = *existing
		updated.Amount = in.Amount
		updated.Currency = in.Currency
		updated.Type = in.Type
		updated.Status = in.Status
		updated.Description = in.Description
		updated.Date = in.Date.UTC()
		updated.Tags = in.Tags
		updated.IsRecurring = in.IsRecurring
		updated.Interval = in.Interval

		if err := store.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		return store.UpdateAccountBalance(ctx, account.ID, balance)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes the row. The balance effect is reversed
// only under the ReverseOnDelete policy; otherwise callers must be
// aware the balance is not corrected.
func (s *Service) DeleteTransaction(ctx context.Context, userID UserID, id TransactionID) error {
	if !s.ReverseOnDelete {
		return s.store.DeleteTransaction(ctx, id, userID)
	}

	return s.store.WithTx(ctx, func(store Store) error {
		existing, err := store.GetTransaction(ctx, id, userID)
		if err != nil {
			return err
		}
		account, err := store.GetAccount(ctx, existing.AccountID)
		if err != nil {
			return err
		}
		if err := store.DeleteTransaction(ctx, id, userID); err != nil {
			return err
		}
		balance := Reverse(existing.Type, account.Balance, existing.Amount)
		return store.UpdateAccountBalance(ctx, account.ID, balance)
	})
}

// ListTransactions returns the caller's transactions, optionally
// filtered to one account, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID UserID, accountID AccountID) ([]Transaction, error) {
	return s.store.ListTransactions(ctx, userID, accountID)
}

// resolveAccount resolves the target account for a mutation. An empty
// AccountID means "the caller's default account", mirroring quick-entry
// behavior; otherwise the account must exist and belong to the caller.
func (s *Service) resolveAccount(ctx context.Context, store Store, userID UserID, id AccountID) (*Account, error) {
	if id == "" {
		return store.GetDefaultAccount(ctx, userID)
	}
	account, err := store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
