// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

CreateSchema is idempotent and dialect-portable: the SQL store runs on
either PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite) per the
DATABASE_TYPE setting, so the schema sticks to the shared subset.

The entry table holds one row per submission. The two judge marks are
nullable integer columns with range checks; NULL means "not judged yet".
Media bytes are not stored in the database - blob_key points into the
on-disk media directory.
*/
package db
