package store

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
)

// IsPostgresDSN reports whether name looks like a postgres connection
// string rather than a SQLite filename stem.
func IsPostgresDSN(name string) bool {
	return strings.HasPrefix(name, "postgres://") || strings.HasPrefix(name, "postgresql://")
}

// OpenFor opens a Store for name, dispatching to OpenPostgres if name looks
// like a Postgres DSN and to Open (the default "{name}.db" SQLite file)
// otherwise.
func OpenFor(name string) (*Store, error) {
	if IsPostgresDSN(name) {
		return OpenPostgres(name)
	}
	return Open(name)
}

// OpenPostgres opens a Store backed by a Postgres server via pgx's
// database/sql driver, for operators who'd rather run the Store against a
// shared server than a single local file. Implements the same Store
// contract as Open.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, crawlerr.New(crawlerr.Storage, "open postgres store", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, crawlerr.New(crawlerr.Storage, "ping postgres store", err)
	}

	s := &Store{db: db, dialect: dialectPostgres}
	if err := s.Setup(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
