// Package dbutil provisions the proving engine's proof-store schema when the
// deployment points DATABASE_URL at a postgres server. For the sqlite default
// the engine owns its database file inside the persistent data directory and
// nothing is provisioned here.
package dbutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// Schema contract owned by the proving engine: apps registered by operators,
// proofs keyed by (app_id, task_id) with an optional payload.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS apps (
		app_id  TEXT PRIMARY KEY,
		program BYTEA NOT NULL,
		pk      BYTEA NOT NULL,
		vk      BYTEA NOT NULL,
		info    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS proofs (
		app_id     TEXT NOT NULL REFERENCES apps (app_id),
		task_id    TEXT NOT NULL,
		proof      BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (app_id, task_id)
	)`,
}

// IsPostgres reports whether databaseURL names a postgres server rather than
// the engine-embedded sqlite default.
func IsPostgres(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") ||
		strings.HasPrefix(databaseURL, "postgresql://")
}

// EnsureSchema connects to the configured postgres server and applies the
// proof-store DDL. All statements are CREATE IF NOT EXISTS, so re-runs on a
// provisioned database change nothing.
func EnsureSchema(ctx context.Context, databaseURL string, log *slog.Logger) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidCatalogName {
			return fmt.Errorf("%w: database named in DATABASE_URL does not exist, create it first", interfaces.ErrDatabaseUnavailable)
		}
		return fmt.Errorf("%w: could not connect to DATABASE_URL: %v", interfaces.ErrDatabaseUnavailable, err)
	}
	defer conn.Close(ctx)

	for _, ddl := range schemaDDL {
		if _, err := conn.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("%w: could not apply proof-store schema: %v", interfaces.ErrDatabaseUnavailable, err)
		}
	}

	log.Info("Proof-store schema ready", slog.String("tables", "apps, proofs"))
	return nil
}
