package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRAILING-WINDOW CHANGE
// =============================================================================

// DefaultChangeWindow is the trailing window used for the per-account change
// metric.
const DefaultChangeWindow = 30 * 24 * time.Hour

// WindowChange is the change in an account's value over a trailing window.
// Percent is defined only when PercentOK is true: a missing or zero baseline
// makes the percentage unrepresentable, which is distinct from a zero change.
type WindowChange struct {
	Change    decimal.Decimal
	Percent   decimal.Decimal
	PercentOK bool
}

// ChangeOverWindow compares the account's latest observation against the last
// observation dated on or before now minus the window.
//
// With no observation that old, the comparison baseline falls back to the
// latest observation itself, yielding a zero change rather than an undefined
// one. With no observations at all the change is zero and no percentage
// exists.
func ChangeOverWindow(records []ValueRecord, accountID int64, now time.Time, window time.Duration) WindowChange {
	recs := make([]ValueRecord, 0)
	for _, r := range records {
		if r.AccountID == accountID {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})

	if len(recs) == 0 {
		return WindowChange{Change: decimal.Zero}
	}

	latest := recs[len(recs)-1]
	cutoff := now.Add(-window)

	var prior *ValueRecord
	for i := len(recs) - 1; i >= 0; i-- {
		if !recs[i].Date.After(cutoff) {
			prior = &recs[i]
			break
		}
	}

	if prior == nil {
		// Nothing old enough to compare against: zero change, no percentage.
		return WindowChange{Change: decimal.Zero}
	}

	change := latest.Value.Sub(prior.Value)
	if prior.Value.IsZero() {
		return WindowChange{Change: change}
	}
	return WindowChange{
		Change:    change,
		Percent:   change.Div(prior.Value).Mul(decimal.NewFromInt(100)),
		PercentOK: true,
	}
}
