package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: Trade lists are read per participant, newest first.
	`CREATE INDEX IF NOT EXISTS idx_trades_proposer ON trades(proposer_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_receiver ON trades(receiver_id, created_at)`,
	// Migration 2: Expired revocations are pruned by expiry.
	`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expiry ON revoked_tokens(expires_at)`,
}

// Migrate creates the schema and runs the database migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
