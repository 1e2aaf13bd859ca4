package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var l3Migrations embed.FS

// PostgresL3Store is the optional L3 precomputed-bucket store (spec.md
// §4.4). A nil *PostgresL3Store is never passed to NewTier; the "no L3"
// case is expressed by passing a nil L3Store instead.
type PostgresL3Store struct {
	db *sql.DB
}

// OpenPostgresL3Store connects to dsn, verifies connectivity, and applies
// the l3_cache_entries schema migration (grounded on the teacher's
// internal/platform/database.Open connect-then-ping idiom).
func OpenPostgresL3Store(ctx context.Context, dsn string) (*PostgresL3Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required for L3 cache")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrateL3Schema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresL3Store{db: db}, nil
}

func migrateL3Schema(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres migration driver: %w", err)
	}
	src, err := iofs.New(l3Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration runner: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply L3 cache migrations: %w", err)
	}
	return nil
}

func (s *PostgresL3Store) Get(ctx context.Context, bucketKey string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM l3_cache_entries WHERE bucket_key = $1`, bucketKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *PostgresL3Store) Set(ctx context.Context, bucketKey string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO l3_cache_entries (bucket_key, payload, stored_at)
		VALUES ($1, $2, now())
		ON CONFLICT (bucket_key) DO UPDATE SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at
	`, bucketKey, value)
	return err
}

// Close releases the underlying connection pool.
func (s *PostgresL3Store) Close() error {
	return s.db.Close()
}
