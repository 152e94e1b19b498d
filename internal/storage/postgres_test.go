package storage

import "testing"

func TestPostgresStoreNumbersPlaceholders(t *testing.T) {
	store := NewPostgresStore("")
	if store.dsn != defaultPostgresDSN {
		t.Fatalf("unexpected default dsn: %s", store.dsn)
	}

	got := store.q(`SELECT payload FROM genomes WHERE id = ? AND species = ?`)
	want := `SELECT payload FROM genomes WHERE id = $1 AND species = $2`
	if got != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", got, want)
	}

	sqlite := NewSQLiteStore("x.db")
	if q := sqlite.q(`WHERE id = ?`); q != `WHERE id = ?` {
		t.Fatalf("sqlite query should keep ? placeholders: %s", q)
	}
}
