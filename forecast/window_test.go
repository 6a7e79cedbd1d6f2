package forecast_test

import (
	"testing"
	"time"

	"github.com/hearth/savings-engine/forecast"
)

// =============================================================================
// TRAILING-WINDOW CHANGE
// =============================================================================

func TestChangeOverWindow(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	t.Run("normal change with percentage", func(t *testing.T) {
		// GIVEN: An observation 40 days ago at 100 and a fresh one at 150
		// WHEN: Measuring over a 30-day window
		// THEN: Change is 50, percentage is 50
		records := []forecast.ValueRecord{
			record(1, 1, 100, 2026, time.July, 21),
			record(2, 1, 150, 2026, time.August, 28),
		}
		c := forecast.ChangeOverWindow(records, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.Equal(dec(50)) {
			t.Errorf("expected change 50, got %s", c.Change)
		}
		if !c.PercentOK || !c.Percent.Equal(dec(50)) {
			t.Errorf("expected 50%%, got %s (ok=%v)", c.Percent, c.PercentOK)
		}
	})

	t.Run("only recent records", func(t *testing.T) {
		// Nothing old enough to compare against: zero change, no percentage.
		records := []forecast.ValueRecord{
			record(1, 1, 120, 2026, time.August, 25),
		}
		c := forecast.ChangeOverWindow(records, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.IsZero() {
			t.Errorf("expected zero change, got %s", c.Change)
		}
		if c.PercentOK {
			t.Error("expected no percentage without a prior baseline")
		}
	})

	t.Run("zero baseline", func(t *testing.T) {
		// The change exists but a percentage of zero does not.
		records := []forecast.ValueRecord{
			record(1, 1, 0, 2026, time.June, 1),
			record(2, 1, 500, 2026, time.August, 28),
		}
		c := forecast.ChangeOverWindow(records, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.Equal(dec(500)) {
			t.Errorf("expected change 500, got %s", c.Change)
		}
		if c.PercentOK {
			t.Error("expected no percentage over a zero baseline")
		}
	})

	t.Run("no records", func(t *testing.T) {
		c := forecast.ChangeOverWindow(nil, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.IsZero() || c.PercentOK {
			t.Errorf("expected zero change and no percentage, got %+v", c)
		}
	})

	t.Run("decline", func(t *testing.T) {
		records := []forecast.ValueRecord{
			record(1, 1, 1000, 2026, time.June, 1),
			record(2, 1, 900, 2026, time.August, 28),
		}
		c := forecast.ChangeOverWindow(records, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.Equal(dec(-100)) {
			t.Errorf("expected change -100, got %s", c.Change)
		}
		if !c.PercentOK || !c.Percent.Equal(dec(-10)) {
			t.Errorf("expected -10%%, got %s (ok=%v)", c.Percent, c.PercentOK)
		}
	})

	t.Run("other accounts ignored", func(t *testing.T) {
		records := []forecast.ValueRecord{
			record(1, 2, 10000, 2026, time.June, 1),
			record(2, 2, 20000, 2026, time.August, 28),
		}
		c := forecast.ChangeOverWindow(records, 1, now, forecast.DefaultChangeWindow)
		if !c.Change.IsZero() || c.PercentOK {
			t.Errorf("expected no change for an account with no records, got %+v", c)
		}
	})
}
