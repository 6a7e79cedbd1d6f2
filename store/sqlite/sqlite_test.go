package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth/savings-engine/forecast"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestAccounts_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, "Easy Access Saver")
	require.NoError(t, err)
	assert.Equal(t, "Easy Access Saver", a.Name)
	assert.NotZero(t, a.ID)

	b, err := s.CreateAccount(ctx, "Fixed Rate Bond")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	renamed, err := s.RenameAccount(ctx, a.ID, "Instant Access")
	require.NoError(t, err)
	assert.Equal(t, "Instant Access", renamed.Name)
	assert.Equal(t, a.ID, renamed.ID)

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Instant Access", got.Name)

	require.NoError(t, s.DeleteAccount(ctx, b.ID))
	accounts, err = s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccounts_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetAccount(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RenameAccount(ctx, 42, "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteAccount(ctx, 42), ErrNotFound)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	// Deleting an account removes its value records and contributions in the
	// same transaction.
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, "Doomed")
	require.NoError(t, err)
	keep, err := s.CreateAccount(ctx, "Survivor")
	require.NoError(t, err)

	_, err = s.CreateValueRecord(ctx, forecast.ValueRecord{AccountID: a.ID, Value: dec(1000), Date: date(2026, time.July, 1)})
	require.NoError(t, err)
	_, err = s.CreateValueRecord(ctx, forecast.ValueRecord{AccountID: keep.ID, Value: dec(500), Date: date(2026, time.July, 1)})
	require.NoError(t, err)
	_, err = s.CreateFutureContribution(ctx, forecast.FutureContribution{AccountID: &a.ID, Amount: dec(100), Recurring: true})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, a.ID))

	values, err := s.ListValueRecords(ctx)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, keep.ID, values[0].AccountID)

	contribs, err := s.ListFutureContributions(ctx)
	require.NoError(t, err)
	assert.Empty(t, contribs)
}

// =============================================================================
// VALUE RECORDS
// =============================================================================

func TestValueRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, "Saver")
	require.NoError(t, err)

	// Inserted out of chronological order on purpose.
	later, err := s.CreateValueRecord(ctx, forecast.ValueRecord{AccountID: a.ID, Value: dec(1500.50), Date: date(2026, time.May, 1)})
	require.NoError(t, err)
	earlier, err := s.CreateValueRecord(ctx, forecast.ValueRecord{AccountID: a.ID, Value: dec(1000), Date: date(2026, time.January, 1)})
	require.NoError(t, err)

	records, err := s.ListValueRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, earlier.ID, records[0].ID, "list must be date-ordered")
	assert.Equal(t, later.ID, records[1].ID)
	assert.True(t, records[1].Value.Equal(dec(1500.50)), "decimal must round-trip exactly, got %s", records[1].Value)
	assert.Equal(t, date(2026, time.January, 1), records[0].Date)

	require.NoError(t, s.DeleteValueRecord(ctx, later.ID))
	records, err = s.ListValueRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.ErrorIs(t, s.DeleteValueRecord(ctx, later.ID), ErrNotFound)
}

func TestCreateValueRecord_UnknownAccount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateValueRecord(context.Background(), forecast.ValueRecord{AccountID: 42, Value: dec(100), Date: date(2026, time.July, 1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// FUTURE CONTRIBUTIONS
// =============================================================================

func TestContributions_RecurringUpsert(t *testing.T) {
	// A new recurring contribution for an account replaces its existing
	// recurring rows; one-off rows are untouched.
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, "Saver")
	require.NoError(t, err)

	_, err = s.CreateFutureContribution(ctx, forecast.FutureContribution{AccountID: &a.ID, Amount: dec(200), Recurring: true})
	require.NoError(t, err)

	d := date(2026, time.September, 1)
	oneOff, err := s.CreateFutureContribution(ctx, forecast.FutureContribution{AccountID: &a.ID, Amount: dec(5000), Date: &d})
	require.NoError(t, err)

	_, err = s.CreateFutureContribution(ctx, forecast.FutureContribution{AccountID: &a.ID, Amount: dec(350), Recurring: true})
	require.NoError(t, err)

	contribs, err := s.ListFutureContributions(ctx)
	require.NoError(t, err)
	require.Len(t, contribs, 2)

	var recurring, single *forecast.FutureContribution
	for i := range contribs {
		if contribs[i].Recurring {
			recurring = &contribs[i]
		} else {
			single = &contribs[i]
		}
	}
	require.NotNil(t, recurring)
	require.NotNil(t, single)
	assert.True(t, recurring.Amount.Equal(dec(350)), "got %s", recurring.Amount)
	assert.Equal(t, oneOff.ID, single.ID)
}

func TestContributions_NullableFields(t *testing.T) {
	// An unallocated, undated one-off round-trips its nils.
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateFutureContribution(ctx, forecast.FutureContribution{Amount: dec(750)})
	require.NoError(t, err)
	assert.Nil(t, created.AccountID)
	assert.Nil(t, created.Date)

	contribs, err := s.ListFutureContributions(ctx)
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Nil(t, contribs[0].AccountID)
	assert.Nil(t, contribs[0].Date)
	assert.True(t, contribs[0].Amount.Equal(dec(750)))

	require.NoError(t, s.DeleteFutureContribution(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteFutureContribution(ctx, created.ID), ErrNotFound)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// First read creates the default row with no target.
	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, settings.TotalTarget)

	require.NoError(t, s.UpdateTarget(ctx, dec(50000)))
	settings, err = s.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings.TotalTarget)
	assert.True(t, settings.TotalTarget.Equal(dec(50000)))

	// Updating again overwrites rather than accumulating rows.
	require.NoError(t, s.UpdateTarget(ctx, dec(75000)))
	settings, err = s.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, settings.TotalTarget)
	assert.True(t, settings.TotalTarget.Equal(dec(75000)))
}

// =============================================================================
// RESET
// =============================================================================

func TestReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccount(ctx, "Saver")
	require.NoError(t, err)
	_, err = s.CreateValueRecord(ctx, forecast.ValueRecord{AccountID: a.ID, Value: dec(100), Date: date(2026, time.July, 1)})
	require.NoError(t, err)
	_, err = s.CreateFutureContribution(ctx, forecast.FutureContribution{AccountID: &a.ID, Amount: dec(50), Recurring: true})
	require.NoError(t, err)
	require.NoError(t, s.UpdateTarget(ctx, dec(1000)))

	require.NoError(t, s.Reset(ctx))

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	values, err := s.ListValueRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
	contribs, err := s.ListFutureContributions(ctx)
	require.NoError(t, err)
	assert.Empty(t, contribs)

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, settings.TotalTarget, "reset returns settings to the no-target default")
}
