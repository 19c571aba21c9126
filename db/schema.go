// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The SQL is kept to the dialect subset shared by SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Entries
CREATE TABLE IF NOT EXISTS entry (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL UNIQUE,
    media_kind TEXT NOT NULL CHECK (media_kind IN ('audio', 'video')),
    blob_key TEXT NOT NULL DEFAULT '',
    remote_id TEXT NOT NULL DEFAULT '',
    remote_url TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL DEFAULT '',
    content_type TEXT NOT NULL DEFAULT '',
    size_bytes INTEGER NOT NULL DEFAULT 0,
    judge_a INTEGER CHECK (judge_a BETWEEN 0 AND 25),
    judge_b INTEGER CHECK (judge_b BETWEEN 0 AND 25),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entry_phone ON entry(phone);
CREATE INDEX IF NOT EXISTS idx_entry_created_at ON entry(created_at);
`
