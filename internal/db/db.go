// internal/db/db.go
package db

import (
	"database/sql"
	_ "embed"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Open connects to Postgres and verifies the connection. The handle is
// opened once at process start and passed to every repository; there is
// no package-global connection.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// EnsureSchema applies the embedded schema. Safe to run multiple times.
func EnsureSchema(conn *sql.DB) error {
	_, err := conn.Exec(schemaSQL)
	return err
}
