/*
summary.go - Read-side reporting over the ledger

PURPOSE:
  Per-day income/expense/net series over a trailing window, for the
  dashboard charts. Pure aggregation: no consistency guarantee beyond
  the state of the store at query time.
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// DaySummary is one day's bucket of the daily series.
type DaySummary struct {
	Date    string // YYYY-MM-DD
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// GetDailySummary returns the caller's per-day income/expense/net over
// the trailing days-day window, oldest day first. Days without
// transactions appear with zero totals. days is clamped to [1, 365].
func (s *Service) GetDailySummary(ctx context.Context, userID UserID, days int) ([]DaySummary, error) {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	now := s.now().UTC()
	window := TrailingDays(now, days)

	txs, err := s.store.ListTransactionsInWindow(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	keys := DayKeys(now, days)
	buckets := make(map[string]*DaySummary, days)
	summaries := make([]DaySummary, days)
	for i, key := range keys {
		summaries[i] = DaySummary{
			Date:    key,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Net:     decimal.Zero,
		}
		buckets[key] = &summaries[i]
	}

	for _, tx := range txs {
		bucket, ok := buckets[DayKey(tx.Date)]
		if !ok {
			continue
		}
		switch {
		case IsIncome(tx.Type):
			bucket.Income = bucket.Income.Add(tx.Amount)
			bucket.Net = bucket.Net.Add(tx.Amount)
		case IsExpense(tx.Type):
			bucket.Expense = bucket.Expense.Add(tx.Amount)
			bucket.Net = bucket.Net.Sub(tx.Amount)
		}
	}

	return summaries, nil
}
