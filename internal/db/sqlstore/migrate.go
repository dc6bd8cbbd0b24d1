package sqlstore

import (
	"context"
	"strings"

	"github.com/kailas-cloud/millsearch/internal/db"
)

var columnTypes = map[db.Dialect]map[string]string{
	db.DialectPostgres: {
		"pk": "BIGSERIAL PRIMARY KEY", "bigint": "BIGINT", "int": "INTEGER",
		"real": "DOUBLE PRECISION", "ts": "TIMESTAMPTZ",
	},
	db.DialectSQLite: {
		"pk": "INTEGER PRIMARY KEY AUTOINCREMENT", "bigint": "INTEGER", "int": "INTEGER",
		"real": "REAL", "ts": "TIMESTAMP",
	},
}

const schemaTemplate = `CREATE TABLE IF NOT EXISTS listings (
	id {pk},
	seller_id {bigint} NOT NULL DEFAULT 0,
	company TEXT,
	make TEXT NOT NULL,
	grade TEXT,
	brand TEXT,
	category TEXT,
	gsm {int},
	deckle_mm {real},
	grain_mm {real},
	description TEXT NOT NULL DEFAULT '',
	price {real},
	show_price BOOLEAN NOT NULL DEFAULT TRUE,
	quantity {real},
	unit TEXT,
	location TEXT,
	status TEXT NOT NULL DEFAULT 'active',
	created_at {ts} NOT NULL,
	updated_at {ts} NOT NULL
)`

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings (status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_gsm ON listings (gsm)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_seller ON listings (seller_id)`,
}

// Migrate creates the listings table and its indexes when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range append([]string{s.schema()}, indexStatements...) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}

func (s *Store) schema() string {
	types := columnTypes[s.dialect]
	pairs := make([]string, 0, len(types)*2)
	for k, v := range types {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(schemaTemplate)
}
