/*
window.go - Calendar windows for budget and reporting queries

PURPOSE:
  Computes the two windows the read side cares about: the current
  calendar month (budget validity) and an N-day trailing window
  (daily summaries). All windows are UTC.
*/
package ledger

import "time"

// Window is a closed [Start, End] time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// CurrentMonthWindow returns the first instant of now's calendar month
// through now. This is the only window budgets are ever valid for.
func CurrentMonthWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now}
}

// TrailingDays returns the window covering the last n calendar days,
// inclusive of today. n=1 is just today.
func TrailingDays(now time.Time, n int) Window {
	now = now.UTC()
	start := StartOfDay(now).AddDate(0, 0, -(n - 1))
	return Window{Start: start, End: now}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats a time as the YYYY-MM-DD bucket key used by summaries.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayKeys returns the ordered day keys of an n-day trailing window,
// oldest first. Used to zero-fill summary series.
func DayKeys(now time.Time, n int) []string {
	keys := make([]string, n)
	start := StartOfDay(now.UTC()).AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		keys[i] = DayKey(start.AddDate(0, 0, i))
	}
	return keys
}
