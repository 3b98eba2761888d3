/*
Package sqlite provides the SQLite-backed worker registry behind the stub
directory server.

PURPOSE:
  The real worker directory is an opaque external service; the leave
  service itself persists nothing. For local development and demos, the
  bundled directory stand-in (cmd/directory) serves lookups from this
  store.

KEY TABLE:
  workers: worker_id (5-digit key), name, dept, role, balance (nullable -
  a NULL balance means the worker has no tracked leave balance, which is a
  valid state, not a missing one).

WAL MODE:
  Opened with WAL so concurrent lookup reads never block the occasional
  seed/upsert write.

USAGE:
  store, err := sqlite.New("./directory.db")   // or ":memory:"
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
)

// Store is the worker registry.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS workers (
			worker_id  TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			dept       TEXT NOT NULL DEFAULT '',
			role       TEXT NOT NULL DEFAULT '',
			balance    TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// =============================================================================
// WORKER RECORDS
// =============================================================================

// UpsertWorker inserts or replaces a worker record.
func (s *Store) UpsertWorker(ctx context.Context, p directory.Profile) error {
	if !leave.ValidWorkerID(p.WorkerID) {
		return fmt.Errorf("worker ID %q is not 5 digits", p.WorkerID)
	}

	var balance sql.NullString
	if p.Balance != nil {
		balance = sql.NullString{String: p.Balance.String(), Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (worker_id, name, dept, role, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET
			name = excluded.name,
			dept = excluded.dept,
			role = excluded.role,
			balance = excluded.balance
	`, p.WorkerID, p.Name, p.Department, p.Role, balance, time.Now().UTC())
	return err
}

// GetWorker returns the record for a worker ID, or (nil, nil) when no
// record exists.
func (s *Store) GetWorker(ctx context.Context, workerID string) (*directory.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT worker_id, name, dept, role, balance
		FROM workers WHERE worker_id = ?
	`, workerID)

	var p directory.Profile
	var balance sql.NullString
	err := row.Scan(&p.WorkerID, &p.Name, &p.Department, &p.Role, &balance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if balance.Valid {
		d, err := decimal.NewFromString(balance.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance for %s: %w", p.WorkerID, err)
		}
		p.Balance = &d
	}
	return &p, nil
}

// ListWorkers returns every record, ordered by worker ID.
func (s *Store) ListWorkers(ctx context.Context) ([]directory.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id, name, dept, role, balance
		FROM workers ORDER BY worker_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []directory.Profile
	for rows.Next() {
		var p directory.Profile
		var balance sql.NullString
		if err := rows.Scan(&p.WorkerID, &p.Name, &p.Department, &p.Role, &balance); err != nil {
			return nil, err
		}
		if balance.Valid {
			d, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt balance for %s: %w", p.WorkerID, err)
			}
			p.Balance = &d
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Reset wipes all worker records.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM workers`)
	return err
}

// =============================================================================
// SEED DATA
// =============================================================================

// Seed loads a small demo roster so the form can be exercised end to end
// without a real directory.
func (s *Store) Seed(ctx context.Context) error {
	balance := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	workers := []directory.Profile{
		{WorkerID: "14070", Name: "陳小美", Department: "Production", Role: "Operator", Balance: balance("7")},
		{WorkerID: "14071", Name: "林志明", Department: "Quality", Role: "Inspector", Balance: balance("12.5")},
		{WorkerID: "20001", Name: "Nguyễn Thị Hoa", Department: "Assembly", Role: "Technician", Balance: balance("3")},
		{WorkerID: "20002", Name: "Trần Văn Nam", Department: "Assembly", Role: "Technician"}, // no tracked balance
		{WorkerID: "30015", Name: "王大同", Department: "Administration", Role: "Clerk", Balance: balance("30")},
	}

	for _, w := range workers {
		if err := s.UpsertWorker(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
