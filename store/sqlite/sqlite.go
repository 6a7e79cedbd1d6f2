/*
Package sqlite provides the SQLite-backed store for accounts, value records,
future contributions, and settings.

PURPOSE:
  Implements the persistence layer behind the savings tracker: the read side
  consumed by the forecast engine (forecast.Reader) and the write-through
  operations driven by the API handlers. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  accounts:             Savings accounts (id, name)
  value_records:        Observed balance snapshots, ordered by date
  future_contributions: Planned inflows (recurring monthly or one-off)
  settings:             Single-row app settings (total target)

UPSERT CONTRACT:
  A recurring contribution for an account replaces any existing recurring
  rows for that account (delete-then-insert in one transaction). The forecast
  engine does not rely on this - it sums duplicates defensively - but the
  store keeps the table tidy so totals stay intuitive.

CASCADE DELETES:
  Deleting an account removes its value records and contributions in the
  same transaction.

MIGRATIONS:
  Schema is managed with golang-migrate over embedded SQL files, applied on
  New(). The migrate instance shares the store's connection so ":memory:"
  databases work in tests.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block.

USAGE:
  store, err := sqlite.New("./data/savings.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := forecast.Gather(ctx, store)

SEE ALSO:
  - forecast/store.go: Reader interface and Gather
  - forecast/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hearth/savings-engine/forecast"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const dateLayout = "2006-01-02"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store implements forecast.Reader plus all write-through operations.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies all pending schema migrations.
func (s *Store) migrate() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// ListAccounts returns all accounts in creation order.
func (s *Store) ListAccounts(ctx context.Context) ([]forecast.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []forecast.Account
	for rows.Next() {
		var a forecast.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount returns one account, or ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, id int64) (forecast.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAccount(ctx, id)
}

func (s *Store) getAccount(ctx context.Context, id int64) (forecast.Account, error) {
	var a forecast.Account
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name)
	if err == sql.ErrNoRows {
		return forecast.Account{}, ErrNotFound
	}
	if err != nil {
		return forecast.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// CreateAccount inserts an account and returns it with its assigned id.
func (s *Store) CreateAccount(ctx context.Context, name string) (forecast.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO accounts (name) VALUES (?)`, name)
	if err != nil {
		return forecast.Account{}, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return forecast.Account{}, fmt.Errorf("create account: %w", err)
	}
	return forecast.Account{ID: id, Name: name}, nil
}

// RenameAccount updates an account's display name.
func (s *Store) RenameAccount(ctx context.Context, id int64, name string) (forecast.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return forecast.Account{}, fmt.Errorf("rename account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forecast.Account{}, ErrNotFound
	}
	return forecast.Account{ID: id, Name: name}, nil
}

// DeleteAccount removes an account together with its value records and
// contributions.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getAccount(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM value_records WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete account values: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM future_contributions WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete account contributions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return tx.Commit()
}

// =============================================================================
// VALUE RECORDS
// =============================================================================

// ListValueRecords returns all value records ordered by date, ties by
// insertion order.
func (s *Store) ListValueRecords(ctx context.Context) ([]forecast.ValueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, value, date FROM value_records ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list value records: %w", err)
	}
	defer rows.Close()

	var records []forecast.ValueRecord
	for rows.Next() {
		var (
			r        forecast.ValueRecord
			valueStr string
			dateStr  string
		)
		if err := rows.Scan(&r.ID, &r.AccountID, &valueStr, &dateStr); err != nil {
			return nil, fmt.Errorf("scan value record: %w", err)
		}
		if r.Value, err = decimal.NewFromString(valueStr); err != nil {
			return nil, fmt.Errorf("parse value: %w", err)
		}
		if r.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CreateValueRecord inserts a value record. The referenced account must
// exist.
func (s *Store) CreateValueRecord(ctx context.Context, rec forecast.ValueRecord) (forecast.ValueRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getAccount(ctx, rec.AccountID); err != nil {
		return forecast.ValueRecord{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO value_records (account_id, value, date) VALUES (?, ?, ?)`,
		rec.AccountID, rec.Value.String(), rec.Date.Format(dateLayout))
	if err != nil {
		return forecast.ValueRecord{}, fmt.Errorf("create value record: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return forecast.ValueRecord{}, fmt.Errorf("create value record: %w", err)
	}
	return rec, nil
}

// DeleteValueRecord removes one value record.
func (s *Store) DeleteValueRecord(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM value_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete value record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// FUTURE CONTRIBUTIONS
// =============================================================================

// ListFutureContributions returns all contributions ordered by date, with
// undated rows first (SQLite sorts NULL lowest).
func (s *Store) ListFutureContributions(ctx context.Context) ([]forecast.FutureContribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, amount, date, recurring FROM future_contributions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var contribs []forecast.FutureContribution
	for rows.Next() {
		var (
			c         forecast.FutureContribution
			accountID sql.NullInt64
			amountStr string
			dateStr   sql.NullString
		)
		if err := rows.Scan(&c.ID, &accountID, &amountStr, &dateStr, &c.Recurring); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		if accountID.Valid {
			id := accountID.Int64
			c.AccountID = &id
		}
		if c.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if dateStr.Valid {
			d, err := time.Parse(dateLayout, dateStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse date: %w", err)
			}
			c.Date = &d
		}
		contribs = append(contribs, c)
	}
	return contribs, rows.Err()
}

// CreateFutureContribution inserts a contribution. A recurring contribution
// for an account first removes any existing recurring rows for that account,
// in the same transaction, so saving a monthly amount replaces the previous
// one instead of accumulating.
func (s *Store) CreateFutureContribution(ctx context.Context, c forecast.FutureContribution) (forecast.FutureContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.AccountID != nil {
		if _, err := s.getAccount(ctx, *c.AccountID); err != nil {
			return forecast.FutureContribution{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return forecast.FutureContribution{}, fmt.Errorf("create contribution: %w", err)
	}
	defer tx.Rollback()

	if c.Recurring && c.AccountID != nil {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM future_contributions WHERE account_id = ? AND recurring = 1`,
			*c.AccountID)
		if err != nil {
			return forecast.FutureContribution{}, fmt.Errorf("replace recurring contribution: %w", err)
		}
	}

	var dateVal any
	if c.Date != nil {
		dateVal = c.Date.Format(dateLayout)
	}
	var accountVal any
	if c.AccountID != nil {
		accountVal = *c.AccountID
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO future_contributions (account_id, amount, date, recurring) VALUES (?, ?, ?, ?)`,
		accountVal, c.Amount.String(), dateVal, c.Recurring)
	if err != nil {
		return forecast.FutureContribution{}, fmt.Errorf("create contribution: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return forecast.FutureContribution{}, fmt.Errorf("create contribution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return forecast.FutureContribution{}, fmt.Errorf("create contribution: %w", err)
	}
	return c, nil
}

// DeleteFutureContribution removes one contribution.
func (s *Store) DeleteFutureContribution(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM future_contributions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contribution: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the app settings, creating the default row on first
// read.
func (s *Store) GetSettings(ctx context.Context) (forecast.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT total_target FROM settings ORDER BY id LIMIT 1`).Scan(&target)
	if err == sql.ErrNoRows {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO settings (total_target) VALUES (NULL)`); err != nil {
			return forecast.Settings{}, fmt.Errorf("init settings: %w", err)
		}
		return forecast.Settings{}, nil
	}
	if err != nil {
		return forecast.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	var settings forecast.Settings
	if target.Valid {
		t, err := decimal.NewFromString(target.String)
		if err != nil {
			return forecast.Settings{}, fmt.Errorf("parse target: %w", err)
		}
		settings.TotalTarget = &t
	}
	return settings, nil
}

// UpdateTarget sets the total savings target, creating the settings row if
// needed.
func (s *Store) UpdateTarget(ctx context.Context, target decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE settings SET total_target = ? WHERE id = (SELECT id FROM settings ORDER BY id LIMIT 1)`,
		target.String())
	if err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO settings (total_target) VALUES (?)`, target.String()); err != nil {
			return fmt.Errorf("init settings: %w", err)
		}
	}
	return nil
}

// =============================================================================
// DEV / TEST HELPERS
// =============================================================================

// Reset wipes all data. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"value_records", "future_contributions", "accounts", "settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
