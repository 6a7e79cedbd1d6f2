package forecast

import "github.com/shopspring/decimal"

// =============================================================================
// TARGET ESTIMATION
// =============================================================================

// MonthsToTarget estimates how many months of contributions at the given
// monthly rate are needed to grow current up to target.
//
// ok is false when no estimate exists: target is nil or non-positive, the
// goal is already met (target <= current), or the rate is non-positive (no
// progress possible). Otherwise the estimate is ceil((target-current)/rate),
// always >= 1.
func MonthsToTarget(current decimal.Decimal, target *decimal.Decimal, monthlyRate decimal.Decimal) (months int, ok bool) {
	if target == nil || !target.IsPositive() {
		return 0, false
	}
	if target.LessThanOrEqual(current) {
		return 0, false
	}
	if !monthlyRate.IsPositive() {
		return 0, false
	}
	remaining := target.Sub(current)
	return int(remaining.Div(monthlyRate).Ceil().IntPart()), true
}

// TargetEstimate compares months-to-target under the baseline and adjusted
// rates. MonthsSooner is positive when the adjustment reaches the goal
// sooner, and only meaningful when both estimates exist.
type TargetEstimate struct {
	BaselineMonths int
	BaselineOK     bool
	AdjustedMonths int
	AdjustedOK     bool
	MonthsSooner   int
}

// CompareToTarget estimates months-to-target independently for both rates and
// reports the difference.
func CompareToTarget(current decimal.Decimal, target *decimal.Decimal, baselineRate, adjustedRate decimal.Decimal) TargetEstimate {
	est := TargetEstimate{}
	est.BaselineMonths, est.BaselineOK = MonthsToTarget(current, target, baselineRate)
	est.AdjustedMonths, est.AdjustedOK = MonthsToTarget(current, target, adjustedRate)
	if est.BaselineOK && est.AdjustedOK {
		est.MonthsSooner = est.BaselineMonths - est.AdjustedMonths
	}
	return est
}
