package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recurringTx(lastProcessed, nextOccurrence *time.Time) Transaction {
	return Transaction{
		ID:             "tx-1",
		IsRecurring:    true,
		Interval:       IntervalMonthly,
		LastProcessed:  lastProcessed,
		NextOccurrence: nextOccurrence,
	}
}

// =============================================================================
// DUE-NESS TESTS
// =============================================================================

func TestIsDue_NonRecurringNeverDue(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Even with a next occurrence in the past, a non-recurring
	// transaction is never due.
	past := now.AddDate(0, -1, 0)
	tx := recurringTx(&past, &past)
	tx.IsRecurring = false

	assert.False(t, IsDue(tx, now))
}

func TestIsDue_NeverProcessedIsAlwaysDue(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(recurringTx(nil, nil), now))

	// Even a future next occurrence does not defer a never-processed
	// transaction.
	future := now.AddDate(0, 1, 0)
	assert.True(t, IsDue(recurringTx(nil, &future), now))
}

func TestIsDue_ProcessedWithArrivedOccurrence(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, -1, 0)

	past := now.Add(-time.Hour)
	assert.True(t, IsDue(recurringTx(&last, &past), now), "past occurrence is due")

	exact := now
	assert.True(t, IsDue(recurringTx(&last, &exact), now), "occurrence at now is due")

	future := now.Add(time.Hour)
	assert.False(t, IsDue(recurringTx(&last, &future), now), "future occurrence is not due")
}

func TestIsDue_ProcessedWithoutNextOccurrenceIsNotDue(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(0, -1, 0)

	assert.False(t, IsDue(recurringTx(&last, nil), now))
}

// =============================================================================
// NEXT OCCURRENCE TESTS
// =============================================================================

func TestNextOccurrence_Offsets(t *testing.T) {
	current := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		interval RecurringInterval
		want     time.Time
	}{
		{IntervalDaily, current.AddDate(0, 0, 1)},
		{IntervalWeekly, current.AddDate(0, 0, 7)},
		{IntervalBiweekly, current.AddDate(0, 0, 14)},
		{IntervalMonthly, current.AddDate(0, 1, 0)},
		{IntervalQuarterly, current.AddDate(0, 3, 0)},
		{IntervalYearly, current.AddDate(1, 0, 0)},
		{IntervalOneTime, current.AddDate(0, 1, 0)},         // fallback
		{RecurringInterval("UNKNOWN"), current.AddDate(0, 1, 0)}, // fallback
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NextOccurrence(current, tc.interval), "interval %s", tc.interval)
	}
}

func TestNextOccurrence_MonthEndNormalizes(t *testing.T) {
	// AddDate semantics: Jan 31 + 1 month overflows into March rather
	// than clamping to Feb 28.
	jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	next := NextOccurrence(jan31, IntervalMonthly)

	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), next)
}

func TestNextOccurrence_StrictlyIncreasing(t *testing.T) {
	// Repeated application must never stall, for every interval.
	intervals := []RecurringInterval{
		IntervalDaily, IntervalWeekly, IntervalBiweekly,
		IntervalMonthly, IntervalQuarterly, IntervalYearly, IntervalOneTime,
	}
	for _, interval := range intervals {
		current := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 24; i++ {
			next := NextOccurrence(current, interval)
			assert.True(t, next.After(current), "interval %s step %d", interval, i)
			current = next
		}
	}
}
