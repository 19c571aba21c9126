// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the stage-score API server.

stage-score runs a small contest: contestants upload one audio or video
submission each, two judges independently score every entry (0-25 each),
and the listing ranks entries by combined total.

# Starting the Server

The server reads configuration from environment variables (a local .env
is loaded when present) or CLI flags:

	DATABASE_URL=contest.db ADMIN_PIN=... JUDGE_A_PIN=... JUDGE_B_PIN=... ROLE_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 8080 -d contest.db -t sqlite

# Configuration

Required settings:

  - ADMIN_PIN / JUDGE_A_PIN / JUDGE_B_PIN: login secrets for the three
    privileged roles
  - ROLE_TOKEN_SALT: secret for the signed role cookie
  - DATABASE_URL (-d): SQL connection string (db store mode)

Optional settings:

  - PORT (-p): server port (default: 8080)
  - STORE_MODE (-store): db, remote, or sheets (default: db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REMOTE_STORE_URL: spreadsheet-backed endpoint for remote mode
  - SPREADSHEET_ID / GOOGLE_SERVICE_ACCOUNT_JSON: sheets mode
  - MEDIA_DIR: uploaded media directory (default: media)
  - JUDGE_A_NAME / JUDGE_B_NAME: display names in status text

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (session, entries, upload, judging, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, rate limiting
  - models: Request/response and domain types
  - ranking: Pure entry ordering and status derivation
  - store: EntryStore backends (SQL, remote endpoint, Google Sheets)
  - auth: Role tokens and PIN login
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
