package forecast

import "time"

// =============================================================================
// MONTH - Calendar-month descriptor used to index projections
// =============================================================================

// Month describes one calendar month. Label is a short human-readable string
// for display only; lookups always go through Key.
type Month struct {
	Label string
	Year  int
	Month time.Month
}

// MonthKey is the canonical composite key for month-keyed aggregates.
// A structured key avoids the lexical ambiguities of string concatenation
// (month "10" vs "2") and locale-dependent label collisions.
type MonthKey struct {
	Year  int
	Month time.Month
}

// Key returns the canonical lookup key for this month.
func (m Month) Key() MonthKey {
	return MonthKey{Year: m.Year, Month: m.Month}
}

// KeyFor returns the month key containing the given time.
func KeyFor(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// =============================================================================
// MONTH SEQUENCES
// =============================================================================

// NextMonths returns n month descriptors starting at from's calendar month.
// Element i is from's month plus i, with the year rolled over by standard
// 12-month arithmetic. n <= 0 returns an empty sequence.
func NextMonths(n int, from time.Time) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, 0, n)
	for i := 0; i < n; i++ {
		d := time.Date(from.Year(), from.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		months = append(months, Month{
			Label: d.Format("Jan 06"),
			Year:  d.Year(),
			Month: d.Month(),
		})
	}
	return months
}

// MonthsBetween returns "Jan 2006" labels for every calendar month from start
// to end, inclusive of both endpoints' months, ascending. If start and end
// fall in the same month the result has exactly one element. start after end
// returns an empty sequence.
func MonthsBetween(start, end time.Time) []string {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var labels []string
	for !cur.After(last) {
		labels = append(labels, cur.Format("Jan 2006"))
		cur = cur.AddDate(0, 1, 0)
	}
	return labels
}

// endOfMonth returns the last instant (day granularity: 23:59:59) of the
// month containing the key.
func endOfMonth(k MonthKey) time.Time {
	firstOfNext := time.Date(k.Year, k.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.Add(-time.Second)
}
