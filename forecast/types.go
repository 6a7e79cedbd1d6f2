/*
Package forecast provides the savings forecasting and time-series
reconstruction engine.

PURPOSE:
  This package turns irregular, sparse observations (account value snapshots,
  recurring and one-off contribution declarations) into regular monthly
  series, cumulative projections, and target-date estimates.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A savings pot identified by an integer id
  - ValueRecord: An observed balance snapshot for an account on a date
  - FutureContribution: A declared future inflow (recurring monthly or one-off)
  - Settings: The single "total target" scalar goal

DESIGN PRINCIPLES:
  1. Purity: every function here is a pure function of its inputs; no state
     outlives a single call
  2. Precision: uses decimal.Decimal to avoid floating-point errors in money
  3. Totality: undefined results are sentinels (ok=false, zero values),
     never errors or panics

SEE ALSO:
  - month.go: Calendar-month sequences and the canonical month key
  - aggregate.go: Contribution classification into monthly rates
  - projection.go: Cumulative balance trajectories
  - history.go: Last-observation-carried-forward reconstruction
*/
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITIES - Immutable value types, ids assigned by the external store
// =============================================================================

// Account is a savings account. Identity is the id; the name is display-only.
type Account struct {
	ID   int64
	Name string
}

// ValueRecord is an observed snapshot of an account's balance on a date.
// Multiple records per account are allowed, with no uniqueness constraint on
// the date. Ordering is by date; ties break by insertion order (ascending id).
type ValueRecord struct {
	ID        int64
	AccountID int64
	Value     decimal.Decimal
	Date      time.Time
}

// FutureContribution is a declared future inflow.
//
// Recurring == true:  Amount is a standing monthly amount for AccountID,
//                     conceptually active from now indefinitely.
// Recurring == false: Amount is a single future inflow on Date. A nil
//                     AccountID means the inflow is unallocated; a nil Date
//                     means it cannot be placed on the timeline.
type FutureContribution struct {
	ID        int64
	AccountID *int64
	Amount    decimal.Decimal
	Date      *time.Time
	Recurring bool
}

// Settings holds the single scalar goal for the sum of all accounts' latest
// values. A nil TotalTarget means no goal is set.
type Settings struct {
	TotalTarget *decimal.Decimal
}
