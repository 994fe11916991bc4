// Package dbtest opens an in-memory SQLite database carrying the same tables
// as the MySQL migrations, for repository and service tests.
package dbtest

import (
	"database/sql"
	_ "embed"
	"strings"
	"testing"

	_ "github.com/glebarez/go-sqlite"
)

//go:embed schema.sql
var schema string

// Open returns a fresh database with the schema applied and foreign keys
// enforced. It is closed when the test ends.
func Open(tb testing.TB) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = db.Close() })

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			tb.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return db
}

// Count returns the number of rows in table matching where (may be empty).
func Count(tb testing.TB, db *sql.DB, table, where string, args ...any) int {
	tb.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(q, args...).Scan(&n); err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Exec runs a statement and fails the test on error.
func Exec(tb testing.TB, db *sql.DB, q string, args ...any) sql.Result {
	tb.Helper()
	res, err := db.Exec(q, args...)
	if err != nil {
		tb.Fatalf("exec %q: %v", q, err)
	}
	return res
}
