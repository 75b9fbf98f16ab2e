package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite store and runs migrations.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	// Each ":memory:" store gets its own named database. Shared cache lets
	// every pooled connection of this store see the same data.
	if dsn == ":memory:" {
		dsn = "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	}

	if dir := sqliteDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrent read/write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// sqliteDir returns the directory holding a file-backed database, or "" for
// in-memory databases and bare file names.
func sqliteDir(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	return dir
}

// AUTOINCREMENT keeps ids of deleted plans from being handed out again.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS price_plan (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_name TEXT,
			call_price REAL,
			sms_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_plan_name ON price_plan(plan_name)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n  SQL: %s", err, m)
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Price plans ---

func (s *SQLiteStore) ListPricePlans(ctx context.Context) ([]PricePlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanPricePlans(rows)
}

func (s *SQLiteStore) CreatePricePlan(ctx context.Context, plan *PricePlan) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO price_plan (plan_name, call_price, sms_price) VALUES (?, ?, ?)",
		plan.PlanName, plan.CallPrice, plan.SMSPrice,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	plan.ID = id
	return nil
}

func (s *SQLiteStore) UpdatePricePlanByName(ctx context.Context, name string, callPrice, smsPrice float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE price_plan SET call_price = ?, sms_price = ? WHERE plan_name = ?",
		callPrice, smsPrice, name,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) DeletePricePlan(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM price_plan WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) GetPricePlanByName(ctx context.Context, name string) (*PricePlan, error) {
	return scanPricePlan(s.db.QueryRowContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan WHERE plan_name = ? ORDER BY id LIMIT 1",
		name,
	))
}

func (s *SQLiteStore) GetPricePlan(ctx context.Context, id int64) (*PricePlan, error) {
	return scanPricePlan(s.db.QueryRowContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan WHERE id = ?", id,
	))
}
