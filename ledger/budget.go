/*
budget.go - Per-user monthly budget

PURPOSE:
  One budget row per user, upsert semantics. The validity window is
  never user-chosen: every upsert stamps the current calendar month.
  The read side joins the budget with the month-to-date expense total
  of the user's default account.
*/
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertBudget creates or replaces the caller's budget, recomputing the
// validity window to the current calendar month.
func (s *Service) UpsertBudget(ctx context.Context, userID UserID, amount decimal.Decimal) (*Budget, error) {
	if err := validateBudgetAmount(amount); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	window := CurrentMonthWindow(now)

	budget := Budget{
		ID:        BudgetID(uuid.NewString()),
		UserID:    userID,
		Amount:    amount,
		StartDate: window.Start,
		EndDate:   window.End,
		UpdatedAt: now,
	}
	if err := s.store.UpsertBudget(ctx, budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// BudgetStatus is the dashboard view of the budget: the row plus the
// month-to-date expense total and what remains of the cap.
type BudgetStatus struct {
	Budget         *Budget
	CurrentExpense decimal.Decimal
	Remaining      decimal.Decimal
}

// GetCurrentBudget returns the caller's budget joined with the current
// month's expense total for the given account. The account must be the
// caller's default account; a missing budget row yields a nil Budget
// with a zero expense baseline, not an error. Read-side only: reflects
// the store at query time, safe to run concurrently with writers.
func (s *Service) GetCurrentBudget(ctx context.Context, userID UserID, accountID AccountID) (*BudgetStatus, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID || !account.IsDefault {
		return nil, ErrAccountNotFound
	}

	window := CurrentMonthWindow(s.now().UTC())
	expense, err := s.store.SumTransactionAmounts(ctx, userID, accountID, window, ExpenseTypes)
	if err != nil {
		return nil, err
	}

	status := &BudgetStatus{CurrentExpense: expense}
	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return status, nil
		}
		return nil, err
	}
	status.Budget = budget
	status.Remaining = budget.Amount.Sub(expense)
	return status, nil
}
