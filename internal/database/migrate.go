package database

import (
	"context"
	"database/sql"

	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the embedded schema.  All statements use IF NOT EXISTS
// so running it on every startup is safe.  Requires the connection to be
// opened with multiStatements enabled (see Open).
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
