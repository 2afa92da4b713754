/*
recurrence.go - Due-ness and next-occurrence scheduling

PURPOSE:
  Decides whether a recurring transaction is due and computes when it
  recurs next. A recurring transaction cycles indefinitely:

    NEVER_PROCESSED -> DUE -> PROCESSED -> DUE -> PROCESSED -> ...

  There is no terminal state; the cycle ends only when IsRecurring is
  cleared or the row is deleted.

MONTH ARITHMETIC:
  NextOccurrence uses time.Time.AddDate, which normalizes overflowing
  dates instead of clamping them: Jan 31 + 1 month is Mar 2 (Mar 3 in
  leap years), not Feb 28. This matches the behavior of the standard
  library and keeps repeated application strictly increasing.

SEE ALSO:
  - recurring/runner.go: The orchestrator that consumes these rules
*/
package ledger

import "time"

// IsDue reports whether a recurring transaction's next occurrence has
// arrived. Non-recurring transactions are never due, regardless of any
// other field. A recurring transaction that has never been processed
// (LastProcessed nil) is always due.
func IsDue(tx Transaction, now time.Time) bool {
	if !tx.IsRecurring {
		return false
	}
	if tx.LastProcessed == nil {
		return true
	}
	return tx.NextOccurrence != nil && !tx.NextOccurrence.After(now)
}

// NextOccurrence adds one interval's calendar offset to current.
// Unrecognized intervals (including ONE_TIME) fall back to one month.
// The result is always strictly after current.
func NextOccurrence(current time.Time, interval RecurringInterval) time.Time {
	switch interval {
	case IntervalDaily:
		return current.AddDate(0, 0, 1)
	case IntervalWeekly:
		return current.AddDate(0, 0, 7)
	case IntervalBiweekly:
		return current.AddDate(0, 0, 14)
	case IntervalMonthly:
		return current.AddDate(0, 1, 0)
	case IntervalQuarterly:
		return current.AddDate(0, 3, 0)
	case IntervalYearly:
		return current.AddDate(1, 0, 0)
	default:
		return current.AddDate(0, 1, 0)
	}
}
