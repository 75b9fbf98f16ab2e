package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a new PostgreSQL store and runs migrations.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS price_plan (
			id BIGSERIAL PRIMARY KEY,
			plan_name TEXT,
			call_price DOUBLE PRECISION,
			sms_price DOUBLE PRECISION
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

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Price plans ---

func (s *PostgresStore) ListPricePlans(ctx context.Context) ([]PricePlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanPricePlans(rows)
}

func (s *PostgresStore) CreatePricePlan(ctx context.Context, plan *PricePlan) error {
	// Postgres has no LastInsertId; use RETURNING.
	return s.db.QueryRowContext(ctx,
		"INSERT INTO price_plan (plan_name, call_price, sms_price) VALUES ($1, $2, $3) RETURNING id",
		plan.PlanName, plan.CallPrice, plan.SMSPrice,
	).Scan(&plan.ID)
}

func (s *PostgresStore) UpdatePricePlanByName(ctx context.Context, name string, callPrice, smsPrice float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE price_plan SET call_price = $1, sms_price = $2 WHERE plan_name = $3",
		callPrice, smsPrice, name,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresStore) DeletePricePlan(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM price_plan WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresStore) GetPricePlanByName(ctx context.Context, name string) (*PricePlan, error) {
	return scanPricePlan(s.db.QueryRowContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan WHERE plan_name = $1 ORDER BY id LIMIT 1",
		name,
	))
}

func (s *PostgresStore) GetPricePlan(ctx context.Context, id int64) (*PricePlan, error) {
	return scanPricePlan(s.db.QueryRowContext(ctx,
		"SELECT id, plan_name, call_price, sms_price FROM price_plan WHERE id = $1", id,
	))
}
