package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS oval;
CREATE TABLE IF NOT EXISTS oval.snapshots (
    id          TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    revision    INTEGER NOT NULL,
    issues      INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL,
    content     BYTEA NOT NULL,
    UNIQUE (document_id, revision)
)`

// EnsureSchema creates the snapshot table when it does not exist yet.
func EnsureSchema(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
