/*
history.go - Historical series reconstruction

PURPOSE:
  Rebuilds a regular monthly step-function series per account from sparse
  dated value observations. Each month's value is the most recent observation
  on or before the end of that month ("last observation carried forward"),
  or zero if the account had not yet been observed. This is a step function,
  not interpolation.

EMPTY INPUT:
  With no observations at all, the series falls back to a default window of
  the 6 months up to and including the current month, zero-filled, so charts
  keep a stable non-empty shape.
*/
package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// defaultHistoryMonths is the window length used when no observations exist.
const defaultHistoryMonths = 6

// HistoryRow is one calendar month of the reconstructed series. Values holds
// each account's value as of the end of that month, keyed by account id.
type HistoryRow struct {
	Label  string
	Key    MonthKey
	Values map[int64]decimal.Decimal
}

// HistoricalSeries reconstructs one row per calendar month spanning from the
// earliest observed date across all accounts to now.
func HistoricalSeries(accounts []Account, records []ValueRecord, now time.Time) []HistoryRow {
	var start time.Time
	if len(records) == 0 {
		start = now.AddDate(0, -(defaultHistoryMonths - 1), 0)
	} else {
		start = records[0].Date
		for _, r := range records[1:] {
			if r.Date.Before(start) {
				start = r.Date
			}
		}
	}

	// Chronological order, ties broken by insertion order (ascending id) so
	// the carried-forward value is the last inserted record of the day.
	sorted := make([]ValueRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	labels := MonthsBetween(start, now)
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	rows := make([]HistoryRow, 0, len(labels))
	for _, label := range labels {
		key := KeyFor(cur)
		cutoff := endOfMonth(key)

		values := make(map[int64]decimal.Decimal, len(accounts))
		for _, a := range accounts {
			values[a.ID] = valueAsOf(sorted, a.ID, cutoff)
		}

		rows = append(rows, HistoryRow{Label: label, Key: key, Values: values})
		cur = cur.AddDate(0, 1, 0)
	}
	return rows
}

// valueAsOf returns the value of the last record for the account dated on or
// before the cutoff, or zero if no such record exists.
func valueAsOf(sorted []ValueRecord, accountID int64, cutoff time.Time) decimal.Decimal {
	value := decimal.Zero
	for _, r := range sorted {
		if r.AccountID != accountID {
			continue
		}
		if r.Date.After(cutoff) {
			break
		}
		value = r.Value
	}
	return value
}

// =============================================================================
// LATEST VALUES - Current totals from the newest observation per account
// =============================================================================

// LatestValues returns each account's most recent observed value, or zero for
// accounts with no observations.
func LatestValues(accounts []Account, records []ValueRecord) map[int64]decimal.Decimal {
	sorted := make([]ValueRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	latest := make(map[int64]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		latest[a.ID] = decimal.Zero
	}
	for _, r := range sorted {
		if _, ok := latest[r.AccountID]; ok {
			latest[r.AccountID] = r.Value
		}
	}
	return latest
}

// CurrentTotal returns the sum of all accounts' latest observed values.
func CurrentTotal(accounts []Account, records []ValueRecord) decimal.Decimal {
	total := decimal.Zero
	for _, v := range LatestValues(accounts, records) {
		total = total.Add(v)
	}
	return total
}
