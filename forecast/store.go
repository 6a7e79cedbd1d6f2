/*
store.go - Read-side collaborator interface and snapshot gathering

PURPOSE:
  Defines the interface between the forecasting engine and the external data
  store, and the "gather, then compute" phase separation: callers fetch all
  required snapshots first, then invoke the pure calculation functions with
  the assembled Snapshot.

READ-ONLY CONTRACT:
  The engine only ever reads. Write operations (create/update/delete of
  accounts, values, contributions, target) live on the concrete store and are
  driven by the API layer, never by this package.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - forecast/store: In-memory store for tests
*/
package forecast

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Reader is the read-only data-access collaborator.
type Reader interface {
	// ListAccounts returns all accounts.
	ListAccounts(ctx context.Context) ([]Account, error)

	// ListValueRecords returns all value records ordered by date.
	ListValueRecords(ctx context.Context) ([]ValueRecord, error)

	// ListFutureContributions returns all future contributions.
	ListFutureContributions(ctx context.Context) ([]FutureContribution, error)

	// GetSettings returns the application settings.
	GetSettings(ctx context.Context) (Settings, error)
}

// Snapshot is the immutable input bundle for one computation pass.
type Snapshot struct {
	Accounts      []Account
	Values        []ValueRecord
	Contributions []FutureContribution
	Settings      Settings
}

// Gather fetches the four snapshots concurrently and returns them once all
// reads complete. The engine imposes no ordering between the fetches.
func Gather(ctx context.Context, r Reader) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Accounts, err = r.ListAccounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Values, err = r.ListValueRecords(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Contributions, err = r.ListFutureContributions(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Settings, err = r.GetSettings(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
