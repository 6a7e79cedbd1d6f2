/*
projection.go - Cumulative balance trajectories

PURPOSE:
  Produces a cumulative balance trajectory over a sequence of future months
  under a baseline monthly rate and an optional adjusted ("what-if") rate.

KEY INSIGHT:
  One-off inflows are not subject to what-if overrides, so the same one-off
  amount is added to BOTH running totals. The two series differ only by the
  recurring rate applied each month.

ROUNDING:
  Totals are rounded to the nearest integer currency unit at emission time,
  never on the per-month increment, so rounding error stays within +/-0.5
  per emitted row and does not compound in the running totals.
*/
package forecast

import "github.com/shopspring/decimal"

// Horizons is the set of selectable projection lengths, in months.
var Horizons = []int{6, 12, 18, 24, 36, 60}

// DefaultHorizon is the projection length used when none is requested.
const DefaultHorizon = 12

// ValidHorizon reports whether n is one of the selectable projection lengths.
func ValidHorizon(n int) bool {
	for _, h := range Horizons {
		if n == h {
			return true
		}
	}
	return false
}

// ProjectionInput contains all inputs for a projection run.
type ProjectionInput struct {
	// Current sum of all accounts' latest values.
	StartingTotal decimal.Decimal

	// The months to project over, in order (see NextMonths).
	Months []Month

	// System-wide recurring monthly rates. AdjustedRate equals BaselineRate
	// when no what-if override is active.
	BaselineRate decimal.Decimal
	AdjustedRate decimal.Decimal

	// Month-keyed one-off inflows (see OneOffsByMonth). Months absent from
	// the map contribute zero.
	OneOffs map[MonthKey]decimal.Decimal
}

// ProjectionRow is one emitted month of the trajectory. Baseline and Adjusted
// are running totals rounded to the nearest integer currency unit.
type ProjectionRow struct {
	Label    string
	Baseline decimal.Decimal
	Adjusted decimal.Decimal
}

// HasOverride reports whether the input carries an active what-if adjustment:
// true iff the adjusted rate differs numerically from the baseline rate.
func (in ProjectionInput) HasOverride() bool {
	return !in.AdjustedRate.Equal(in.BaselineRate)
}

// Project walks the month sequence keeping two running totals, both seeded
// with the starting total. Each month adds rate plus that month's one-off sum
// to the corresponding total. With non-negative rates and one-offs both
// series are monotonically non-decreasing.
func Project(in ProjectionInput) []ProjectionRow {
	rows := make([]ProjectionRow, 0, len(in.Months))

	baseline := in.StartingTotal
	adjusted := in.StartingTotal

	for _, m := range in.Months {
		oneOff := in.OneOffs[m.Key()]
		baseline = baseline.Add(in.BaselineRate).Add(oneOff)
		adjusted = adjusted.Add(in.AdjustedRate).Add(oneOff)

		rows = append(rows, ProjectionRow{
			Label:    m.Label,
			Baseline: baseline.Round(0),
			Adjusted: adjusted.Round(0),
		})
	}
	return rows
}
