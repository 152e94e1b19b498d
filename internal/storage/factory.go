package storage

import (
	"fmt"
	"os"
)

const (
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindS3       = "s3"
)

// Options carries backend-specific settings; only the fields of the
// selected kind are read.
type Options struct {
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// DefaultStoreKind honours MENDEL_STORE and otherwise picks memory.
func DefaultStoreKind() string {
	if kind := os.Getenv("MENDEL_STORE"); kind != "" {
		return kind
	}
	return KindMemory
}

func NewStore(kind string, opts Options) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return NewSQLiteStore(opts.SQLitePath), nil
	case KindPostgres:
		return NewPostgresStore(opts.PostgresDSN), nil
	case KindS3:
		return NewS3Store(opts.S3), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
