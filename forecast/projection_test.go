package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearth/savings-engine/forecast"
)

// =============================================================================
// HORIZONS
// =============================================================================

func TestValidHorizon(t *testing.T) {
	for _, h := range forecast.Horizons {
		if !forecast.ValidHorizon(h) {
			t.Errorf("expected %d to be a valid horizon", h)
		}
	}
	for _, h := range []int{0, -6, 7, 13, 120} {
		if forecast.ValidHorizon(h) {
			t.Errorf("expected %d to be rejected", h)
		}
	}
	if !forecast.ValidHorizon(forecast.DefaultHorizon) {
		t.Error("default horizon must itself be valid")
	}
}

// =============================================================================
// PROJECTION
// =============================================================================

func TestProject_Monotonic(t *testing.T) {
	// GIVEN: Non-negative rates and one-offs
	// WHEN: Projecting 24 months
	// THEN: Both running totals are monotonically non-decreasing

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := forecast.Project(forecast.ProjectionInput{
		StartingTotal: dec(10000),
		Months:        forecast.NextMonths(24, from),
		BaselineRate:  dec(333.33),
		AdjustedRate:  dec(500),
		OneOffs: map[forecast.MonthKey]decimal.Decimal{
			{Year: 2026, Month: time.June}: dec(2000),
		},
	})

	if len(rows) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Baseline.LessThan(rows[i-1].Baseline) {
			t.Errorf("baseline decreased at row %d: %s -> %s", i, rows[i-1].Baseline, rows[i].Baseline)
		}
		if rows[i].Adjusted.LessThan(rows[i-1].Adjusted) {
			t.Errorf("adjusted decreased at row %d: %s -> %s", i, rows[i-1].Adjusted, rows[i].Adjusted)
		}
	}
}

func TestProject_OneOffAppliesToBothSeries(t *testing.T) {
	// One-off inflows are real money regardless of what-if rates, so the
	// baseline/adjusted gap must stay exactly (adjusted-baseline)*n.
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := forecast.Project(forecast.ProjectionInput{
		StartingTotal: dec(1000),
		Months:        forecast.NextMonths(3, from),
		BaselineRate:  dec(100),
		AdjustedRate:  dec(150),
		OneOffs: map[forecast.MonthKey]decimal.Decimal{
			{Year: 2026, Month: time.April}: dec(5000),
		},
	})

	wantBaseline := []int64{1100, 6200, 6300}
	wantAdjusted := []int64{1150, 6300, 6450}
	for i := range rows {
		if rows[i].Baseline.IntPart() != wantBaseline[i] {
			t.Errorf("row %d baseline: expected %d, got %s", i, wantBaseline[i], rows[i].Baseline)
		}
		if rows[i].Adjusted.IntPart() != wantAdjusted[i] {
			t.Errorf("row %d adjusted: expected %d, got %s", i, wantAdjusted[i], rows[i].Adjusted)
		}
	}
}

func TestProject_RoundsAtEmissionOnly(t *testing.T) {
	// GIVEN: A fractional rate of 10.4/month from zero
	// WHEN: Projecting 3 months
	// THEN: Emitted values are round(10.4), round(20.8), round(31.2) - the
	//       running total keeps full precision, so errors do not compound

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := forecast.Project(forecast.ProjectionInput{
		StartingTotal: decimal.Zero,
		Months:        forecast.NextMonths(3, from),
		BaselineRate:  dec(10.4),
		AdjustedRate:  dec(10.4),
	})

	want := []int64{10, 21, 31}
	for i := range rows {
		if rows[i].Baseline.IntPart() != want[i] {
			t.Errorf("row %d: expected %d, got %s", i, want[i], rows[i].Baseline)
		}
	}
}

func TestProject_EmptyMonths(t *testing.T) {
	rows := forecast.Project(forecast.ProjectionInput{StartingTotal: dec(500)})
	if len(rows) != 0 {
		t.Errorf("expected no rows for empty month sequence, got %d", len(rows))
	}
}

func TestHasOverride(t *testing.T) {
	in := forecast.ProjectionInput{BaselineRate: dec(100), AdjustedRate: dec(100)}
	if in.HasOverride() {
		t.Error("equal rates must not report an override")
	}
	in.AdjustedRate = dec(100.01)
	if !in.HasOverride() {
		t.Error("differing rates must report an override")
	}
	// Numeric equality, not representation equality.
	in.AdjustedRate = decimal.RequireFromString("100.00")
	if in.HasOverride() {
		t.Error("100 and 100.00 are the same rate")
	}
}

// =============================================================================
// END TO END
// =============================================================================

func TestForecastScenario(t *testing.T) {
	// GIVEN: Two accounts, a 13/month recurring contribution, a 69 one-off in
	//        April 2026, a current total of 49, and a target of 420
	// WHEN: Running the full pipeline for a 1-month horizon starting in April
	// THEN: Rate is 13, target is 29 months away, April closes at 131

	accounts := []forecast.Account{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	contribs := []forecast.FutureContribution{
		{ID: 1, AccountID: i64(1), Amount: dec(13), Recurring: true},
		{ID: 2, AccountID: i64(2), Amount: dec(69), Recurring: false, Date: datePtr(2026, time.April, 15)},
	}

	rate := forecast.TotalMonthlyRate(contribs)
	if !rate.Equal(dec(13)) {
		t.Fatalf("expected rate 13, got %s", rate)
	}
	if adjusted := forecast.AdjustedTotalRate(accounts, contribs, nil); !adjusted.Equal(rate) {
		t.Errorf("expected adjusted rate to match baseline with no overrides, got %s", adjusted)
	}
	rates := forecast.AccountRates(accounts, contribs)
	if !rates[1].Equal(dec(13)) || !rates[2].IsZero() {
		t.Errorf("expected per-account rates 13/0, got %v", rates)
	}

	target := dec(420)
	months, ok := forecast.MonthsToTarget(dec(49), &target, rate)
	if !ok || months != 29 {
		t.Errorf("expected 29 months to target, got %d (ok=%v)", months, ok)
	}

	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	rows := forecast.Project(forecast.ProjectionInput{
		StartingTotal: dec(49),
		Months:        forecast.NextMonths(1, now),
		BaselineRate:  rate,
		AdjustedRate:  rate,
		OneOffs:       forecast.OneOffsByMonth(contribs),
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Label != "Apr 26" {
		t.Errorf("expected label Apr 26, got %q", rows[0].Label)
	}
	if rows[0].Baseline.IntPart() != 131 {
		t.Errorf("expected April total 131, got %s", rows[0].Baseline)
	}
}
