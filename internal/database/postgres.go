package database

import (
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// pgSanitizeString strips null bytes (0x00) from a string. SQLite stores these
// fine but PostgreSQL rejects them with "invalid byte sequence for encoding UTF8".
func pgSanitizeString(s string) string {
	if strings.ContainsRune(s, '\x00') {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return s
}

// OpenPostgres opens an existing PostgreSQL worklist database.
func OpenPostgres(connStr string) (*SQLStore, error) {
	return openStore(&PostgresDialect{}, connStr)
}

// CreatePostgres creates the worklist schema on a PostgreSQL database.
// The database itself must already exist; this creates the tables and indexes.
func CreatePostgres(connStr string) (*SQLStore, error) {
	return createStore(&PostgresDialect{}, connStr)
}
