package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentMonthWindow(t *testing.T) {
	// GIVEN: It is mid-month
	now := time.Date(2026, time.March, 17, 14, 30, 0, 0, time.UTC)

	// WHEN: Computing the budget window
	w := CurrentMonthWindow(now)

	// THEN: Window runs from the 1st through now
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, now, w.End)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)))
}

func TestTrailingDays_OneDayIsToday(t *testing.T) {
	now := time.Date(2026, time.March, 17, 14, 30, 0, 0, time.UTC)

	w := TrailingDays(now, 1)

	assert.Equal(t, time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, now, w.End)
}

func TestTrailingDays_SpansMonthBoundary(t *testing.T) {
	// GIVEN: March 3, asking for the last 7 days
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	// WHEN
	w := TrailingDays(now, 7)

	// THEN: Window starts Feb 25 (7 calendar days inclusive of today)
	assert.Equal(t, time.Date(2026, time.February, 25, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestDayKeys_OldestFirstNoGaps(t *testing.T) {
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	keys := DayKeys(now, 7)

	assert.Equal(t, []string{
		"2026-02-25", "2026-02-26", "2026-02-27", "2026-02-28",
		"2026-03-01", "2026-03-02", "2026-03-03",
	}, keys)
}

func TestDayKey_UsesUTC(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC the same day; 00:30 in UTC+2 is the
	// previous UTC day. Bucketing must follow UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	early := time.Date(2026, time.March, 3, 0, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-02", DayKey(early))
}
