// Package store provides an in-memory Reader implementation for testing/dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hearth/savings-engine/forecast"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	nextID        int64
	accounts      []forecast.Account
	values        []forecast.ValueRecord
	contributions []forecast.FutureContribution
	settings      forecast.Settings
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// -----------------------------------------------------------------------------
// Reads (forecast.Reader)
// -----------------------------------------------------------------------------

func (m *Memory) ListAccounts(_ context.Context) ([]forecast.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]forecast.Account, len(m.accounts))
	copy(out, m.accounts)
	return out, nil
}

func (m *Memory) ListValueRecords(_ context.Context) ([]forecast.ValueRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]forecast.ValueRecord, len(m.values))
	copy(out, m.values)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) ListFutureContributions(_ context.Context) ([]forecast.FutureContribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]forecast.FutureContribution, len(m.contributions))
	copy(out, m.contributions)
	return out, nil
}

func (m *Memory) GetSettings(_ context.Context) (forecast.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

// -----------------------------------------------------------------------------
// Writes (mirror of the sqlite store surface)
// -----------------------------------------------------------------------------

func (m *Memory) CreateAccount(_ context.Context, name string) (forecast.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := forecast.Account{ID: m.allocID(), Name: name}
	m.accounts = append(m.accounts, a)
	return a, nil
}

func (m *Memory) CreateValueRecord(_ context.Context, rec forecast.ValueRecord) (forecast.ValueRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.allocID()
	m.values = append(m.values, rec)
	return rec, nil
}

// CreateFutureContribution applies the recurring upsert contract: a recurring
// contribution for an account replaces any existing recurring rows for it.
func (m *Memory) CreateFutureContribution(_ context.Context, c forecast.FutureContribution) (forecast.FutureContribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.Recurring && c.AccountID != nil {
		kept := m.contributions[:0]
		for _, existing := range m.contributions {
			if existing.Recurring && existing.AccountID != nil && *existing.AccountID == *c.AccountID {
				continue
			}
			kept = append(kept, existing)
		}
		m.contributions = kept
	}

	c.ID = m.allocID()
	m.contributions = append(m.contributions, c)
	return c, nil
}

func (m *Memory) UpdateTarget(_ context.Context, target decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.TotalTarget = &target
	return nil
}
