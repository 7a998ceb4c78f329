package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    nickname      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    trust_score   TEXT NOT NULL DEFAULT '36.5',
    address       TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    owner_id    TEXT NOT NULL REFERENCES users(id),
    series_name TEXT NOT NULL,
    item_name   TEXT NOT NULL,
    image_url   TEXT,
    image       BLOB,
    image_mime  TEXT,
    status      TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE', 'TRADING', 'COMPLETED')),
    type        TEXT NOT NULL CHECK (type IN ('HAVE', 'WISH')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_match
    ON items(type, series_name, item_name, status) WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_items_owner
    ON items(owner_id, type) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS trades (
    id                 INTEGER PRIMARY KEY,
    proposer_id        TEXT NOT NULL REFERENCES users(id),
    receiver_id        TEXT NOT NULL REFERENCES users(id),
    proposer_item_id   INTEGER NOT NULL REFERENCES items(id),
    receiver_item_id   INTEGER NOT NULL REFERENCES items(id),
    status             TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'SHIPPING', 'FINISHED', 'CANCELLED')),
    proposer_tracking  TEXT,
    receiver_tracking  TEXT,
    proposer_confirmed INTEGER NOT NULL DEFAULT 0,
    receiver_confirmed INTEGER NOT NULL DEFAULT 0,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
