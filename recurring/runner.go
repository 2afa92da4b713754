/*
Package recurring implements the recurring-transaction job orchestrator.

PURPOSE:
  Two cooperating batch procedures on independent schedules:

  Trigger phase (time-driven, e.g. once per day):
    Scans for due recurring transactions (capped at 1000 per run),
    fans out one work item per transaction in chunks of 50, and
    reports how many it dispatched. Its own failures degrade to
    "zero items sent" so the next scheduled run simply catches up.

  Process phase (event-driven, one invocation per work item):
    Rate-limited per owner. Re-fetches the transaction, re-checks
    due-ness (the phases are decoupled in time), then atomically
    clones the transaction as a completed non-recurring occurrence,
    applies its balance effect, and stamps the original's
    lastProcessed/nextOccurrence. Every failure is folded into the
    item's result; one poisoned transaction never blocks the batch.

SEE ALSO:
  - ledger/recurrence.go: The due-ness and next-occurrence rules
  - scheduler.go: The ticker loop and queue worker driving both phases
*/
package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finbook/ledger-engine/ledger"
)

const (
	// TriggerBatchLimit caps a single trigger scan.
	TriggerBatchLimit = 1000
	// DispatchChunkSize bounds a single fan-out batch, to respect the
	// downstream rate limit. Not a correctness boundary.
	DispatchChunkSize = 50
)

// Store is the slice of the ledger store the orchestrator needs.
// *sqlite.Store satisfies it.
type Store interface {
	ListDueRecurring(ctx context.Context, now time.Time, limit int) ([]ledger.Transaction, error)
	GetTransaction(ctx context.Context, id ledger.TransactionID, userID ledger.UserID) (*ledger.Transaction, error)
	WithTx(ctx context.Context, fn func(ledger.Store) error) error
}

// WorkItem identifies one due transaction to process. The throttle key
// is the owner, the payload is the transaction.
type WorkItem struct {
	TransactionID ledger.TransactionID
	UserID        ledger.UserID
}

// TriggerResult reports a trigger run, for observability.
type TriggerResult struct {
	Triggered  int
	TotalFound int
	Timestamp  time.Time
}

// ProcessResult reports one work item. Success=false with a Reason is a
// non-fatal skip; with an Err it is a logged item failure. Neither ever
// propagates as an error from Process.
type ProcessResult struct {
	Success          bool
	TransactionID    ledger.TransactionID
	NewTransactionID ledger.TransactionID
	Reason           string
	Err              error
}

// Runner owns the two phases and the work queue between them.
type Runner struct {
	store    Store
	queue    chan WorkItem
	throttle *ownerThrottle
	log      zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRunner creates a runner. queueSize must hold at least one full
// trigger batch or dispatch will block until the worker drains it.
func NewRunner(store Store, log zerolog.Logger, queueSize int) *Runner {
	if queueSize < TriggerBatchLimit {
		queueSize = TriggerBatchLimit
	}
	return &Runner{
		store:    store,
		queue:    make(chan WorkItem, queueSize),
		throttle: newOwnerThrottle(10, time.Minute),
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the runner clock. Intended for tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Queue exposes the work channel to the scheduler's worker loop.
func (r *Runner) Queue() <-chan WorkItem { return r.queue }

// =============================================================================
// TRIGGER PHASE
// =============================================================================

// Trigger scans for due recurring transactions and fans them out as
// work items in chunks. It never returns an error: query or dispatch
// failures are logged and degrade to zero triggered, so the scheduler
// is free to call it blindly on every tick.
func (r *Runner) Trigger(ctx context.Context) TriggerResult {
	now := r.now().UTC()
	result := TriggerResult{Timestamp: now}

	due, err := r.store.ListDueRecurring(ctx, now, TriggerBatchLimit)
	if err != nil {
		r.log.Error().Err(err).Msg("recurring trigger: due scan failed")
		return result
	}
	result.TotalFound = len(due)
	if len(due) == 0 {
		return result
	}

	items := make([]WorkItem, len(due))
	for i, tx := range due {
		items[i] = WorkItem{TransactionID: tx.ID, UserID: tx.UserID}
	}

	for start := 0; start < len(items); start += DispatchChunkSize {
		end := start + DispatchChunkSize
		if end > len(items) {
			end = len(items)
		}
		sent, err := r.dispatch(ctx, items[start:end])
		result.Triggered += sent
		if err != nil {
			r.log.Error().Err(err).
				Int("sent", result.Triggered).
				Msg("recurring trigger: dispatch aborted")
			return result
		}
	}

	r.log.Info().
		Int("triggered", result.Triggered).
		Int("total_found", result.TotalFound).
		Msg("recurring trigger complete")
	return result
}

func (r *Runner) dispatch(ctx context.Context, chunk []WorkItem) (int, error) {
	for i, item := range chunk {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		select {
		case r.queue <- item:
		case <-ctx.Done():
			return i, ctx.Err()
		}
	}
	return len(chunk), nil
}

// =============================================================================
// PROCESS PHASE
// =============================================================================

// Process handles one work item. It blocks on the owner's rate limit,
// re-validates the item, and runs the clone+effect+stamp sequence in
// one atomic unit. All failures, including panics, come back as a
// ProcessResult; the batch driver keeps going.
func (r *Runner) Process(ctx context.Context, item WorkItem) (result ProcessResult) {
	result = ProcessResult{TransactionID: item.TransactionID}

	defer func() {
		if rec := recover(); rec != nil {
			result.Success = false
			result.Err = &ledger.JobFailure{
				TransactionID: item.TransactionID,
				Err:           fmt.Errorf("panic: %v", rec),
			}
			r.log.Error().Err(result.Err).Msg("recurring process: recovered panic")
		}
	}()

	if err := r.throttle.Wait(ctx, item.UserID); err != nil {
		result.Err = &ledger.JobFailure{TransactionID: item.TransactionID, Err: err}
		return result
	}

	now := r.now().UTC()

	// Re-fetch and re-check: due-ness may have changed since the
	// trigger phase enqueued this item.
	tx, err := r.store.GetTransaction(ctx, item.TransactionID, item.UserID)
	if err != nil {
		if ledger.IsNotFound(err) {
			result.Reason = "transaction not found or not due for processing"
			return result
		}
		result.Err = &ledger.JobFailure{TransactionID: item.TransactionID, Err: err}
		return result
	}
	if !ledger.IsDue(*tx, now) {
		result.Reason = "transaction not found or not due for processing"
		return result
	}
	if !tx.IsRecurring || tx.Status != ledger.StatusCompleted {
		result.Reason = "transaction is not a completed recurring transaction"
		return result
	}

	clone := ledger.Transaction{
		ID:          ledger.TransactionID(uuid.NewString()),
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Type:        tx.Type,
		Status:      ledger.StatusCompleted,
		Description: tx.Description + " (Recurring)",
		Date:        now,
		Tags:        tx.Tags,
		IsRecurring: false,
		UserID:      tx.UserID,
		AccountID:   tx.AccountID,
		CreatedAt:   now,
	}
	next := ledger.NextOccurrence(now, tx.Interval)

	err = r.store.WithTx(ctx, func(store ledger.Store) error {
		account, err := store.GetAccount(ctx, tx.AccountID)
		if err != nil {
			return err
		}
		if err := store.SaveTransaction(ctx, clone); err != nil {
			return err
		}
		balance := ledger.Apply(clone.Type, account.Balance, clone.Amount)
		if err := store.UpdateAccountBalance(ctx, account.ID, balance); err != nil {
			return err
		}
		return store.SetRecurrenceProcessed(ctx, tx.ID, now, next)
	})
	if err != nil {
		result.Err = &ledger.JobFailure{TransactionID: item.TransactionID, Err: err}
		r.log.Error().Err(err).
			Str("transaction_id", string(item.TransactionID)).
			Msg("recurring process failed")
		return result
	}

	result.Success = true
	result.NewTransactionID = clone.ID
	r.log.Info().
		Str("transaction_id", string(tx.ID)).
		Str("new_transaction_id", string(clone.ID)).
		Time("next_occurrence", next).
		Msg("recurring transaction processed")
	return result
}
