package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/kailas-cloud/millsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a SQL store.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Store implements db.Store over database/sql (PostgreSQL or SQLite).
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewStore opens a SQL store. The connection is established lazily; use
// WaitForReady to block until the database answers.
func NewStore(cfg Config) (*Store, error) {
	d := db.Dialect(cfg.Driver)
	if d != db.DialectPostgres && d != db.DialectSQLite {
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	switch {
	case d == db.DialectSQLite && strings.Contains(cfg.DSN, ":memory:"):
		// every connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Store{db: conn, dialect: d}, nil
}

// Dialect returns the bind dialect of the store.
func (s *Store) Dialect() db.Dialect { return s.dialect }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) rebind(query string) string {
	return db.Rebind(s.dialect, query)
}

func wrap(op string, err error) error {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return err
	}
	return &db.Error{Op: op, Err: err}
}
