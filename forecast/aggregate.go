/*
aggregate.go - Contribution classification

PURPOSE:
  Classifies a set of declared future contributions into per-account
  recurring monthly rates and a month-keyed map of one-off amounts. These
  normalized structures feed the projection and target calculations.

UPSERT TOLERANCE:
  The external store upserts recurring contributions (at most one per
  account), but that is a store contract, not an invariant of this package.
  Everything here sums duplicates defensively.

ONE-OFF PLACEMENT:
  One-offs without a date cannot be placed on the timeline and are excluded
  from the month map. One-offs without an account ARE included in the
  system-wide map: they affect the total projection even though no
  per-account view can attribute them.
*/
package forecast

import "github.com/shopspring/decimal"

// MonthlyRate returns the recurring monthly contribution rate for one
// account: the sum of Amount over all recurring contributions attributed to
// it. Zero if there are none.
func MonthlyRate(contribs []FutureContribution, accountID int64) decimal.Decimal {
	rate := decimal.Zero
	for _, c := range contribs {
		if c.Recurring && c.AccountID != nil && *c.AccountID == accountID {
			rate = rate.Add(c.Amount)
		}
	}
	return rate
}

// TotalMonthlyRate returns the system-wide recurring monthly rate: the sum of
// all recurring contribution amounts regardless of account.
func TotalMonthlyRate(contribs []FutureContribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contribs {
		if c.Recurring {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// AccountRates returns the recurring monthly rate for every account in the
// list. Accounts without recurring contributions map to zero.
func AccountRates(accounts []Account, contribs []FutureContribution) map[int64]decimal.Decimal {
	rates := make(map[int64]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		rates[a.ID] = decimal.Zero
	}
	for _, c := range contribs {
		if !c.Recurring || c.AccountID == nil {
			continue
		}
		if r, ok := rates[*c.AccountID]; ok {
			rates[*c.AccountID] = r.Add(c.Amount)
		}
	}
	return rates
}

// AdjustedTotalRate returns the system-wide monthly rate with per-account
// what-if overrides applied: each account contributes its override amount if
// one is present, otherwise its own recurring rate. Overrides for unknown
// accounts are ignored.
func AdjustedTotalRate(accounts []Account, contribs []FutureContribution, overrides map[int64]decimal.Decimal) decimal.Decimal {
	rates := AccountRates(accounts, contribs)
	total := decimal.Zero
	for _, a := range accounts {
		if override, ok := overrides[a.ID]; ok {
			total = total.Add(override)
		} else {
			total = total.Add(rates[a.ID])
		}
	}
	return total
}

// OneOffsByMonth buckets all dated one-off contributions by calendar month.
// The amounts for each month are summed. Undated one-offs are excluded.
func OneOffsByMonth(contribs []FutureContribution) map[MonthKey]decimal.Decimal {
	byMonth := make(map[MonthKey]decimal.Decimal)
	for _, c := range contribs {
		if c.Recurring || c.Date == nil {
			continue
		}
		k := KeyFor(*c.Date)
		byMonth[k] = byMonth[k].Add(c.Amount)
	}
	return byMonth
}
