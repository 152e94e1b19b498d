package storage

import (
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	sqlStore
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{sqlStore: sqlStore{
		dialect: dialect{driver: "sqlite", payloadType: "BLOB"},
		dsn:     path,
	}}
}
