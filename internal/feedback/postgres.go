package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS feedback (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	experience  TEXT NOT NULL,
	suggestions TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps feedback in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for url, pings it and ensures the schema exists.
func Connect(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore { return &PostgresStore{pool: pool} }

// EnsureSchema creates the feedback table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, f Feedback) (Feedback, error) {
	f, err := Normalize(f)
	if err != nil {
		return Feedback{}, err
	}
	f = stamp(f, time.Now())
	_, err = s.pool.Exec(ctx,
		`INSERT INTO feedback (id, name, email, experience, suggestions, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Name, f.Email, f.Experience, f.Suggestions, f.CreatedAt)
	if err != nil {
		return Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Feedback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, experience, suggestions, created_at FROM feedback ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Feedback, error) {
		var f Feedback
		err := row.Scan(&f.ID, &f.Name, &f.Email, &f.Experience, &f.Suggestions, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }
