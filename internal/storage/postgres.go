package storage

import (
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const defaultPostgresDSN = "postgres://localhost/mendel?sslmode=disable"

type PostgresStore struct {
	sqlStore
}

// NewPostgresStore falls back to a local database when dsn is empty.
func NewPostgresStore(dsn string) *PostgresStore {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	return &PostgresStore{sqlStore: sqlStore{
		dialect: dialect{driver: "pgx", numbered: true, payloadType: "BYTEA"},
		dsn:     dsn,
	}}
}
