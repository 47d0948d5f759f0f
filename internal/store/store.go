// Package store is the persistence façade for the crawler: one connection
// to a local relational store, shared by every fetch worker, exposing
// single-row queries and statement execution over the "sites" and
// "domains" tables. It does not
// abstract SQL; SiteRecord and DomainRecord compose SQL statements and bind
// parameters through it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
)

// dialect distinguishes the placeholder syntax a backend expects: SQLite
// (and most database/sql drivers) accept positional "?" placeholders
// unmodified, but pgx's stdlib driver requires native "$1, $2, ..."
// placeholders -- database/sql does not rewrite them for you.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

const schema = `
CREATE TABLE IF NOT EXISTS sites (
    url TEXT PRIMARY KEY,
    crawl_time TEXT NOT NULL,
    links_to TEXT
);
CREATE TABLE IF NOT EXISTS domains (
    domain TEXT PRIMARY KEY,
    crawl_time TEXT NOT NULL,
    robots TEXT
);
`

// Store owns one connection to the on-disk relational store. Safe for
// concurrent use by multiple fetch workers: reads run concurrently and
// database/sql serializes writes internally.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open opens (creating if missing) the SQLite file "{name}.db" and runs
// Setup against it.
func Open(name string) (*Store, error) {
	db, err := sql.Open("sqlite", name+".db")
	if err != nil {
		return nil, crawlerr.New(crawlerr.Storage, "open "+name+".db", err)
	}

	s := &Store{db: db, dialect: dialectSQLite}
	if err := s.Setup(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Setup ensures the sites and domains tables exist.
func (s *Store) Setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(schema)); err != nil {
		return crawlerr.New(crawlerr.Storage, "setup schema", err)
	}
	return nil
}

// QueryRow prepares and runs a single-row query, binding args. query is
// always written with "?" placeholders; QueryRow rebinds them to the
// dialect the Store was opened against.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// Exec runs a statement to completion, binding args. Same placeholder
// rebinding as QueryRow.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return crawlerr.New(crawlerr.Storage, "exec", err)
	}
	return nil
}

// rebind rewrites "?" placeholders into "$1, $2, ..." when the Store is
// backed by Postgres; every caller of QueryRow/Exec writes "?"-style
// queries and lets the Store translate them per backend.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
