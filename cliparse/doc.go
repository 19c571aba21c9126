// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Every flag falls back to an environment variable, so the server can run
from a .env file alone.

# Config Fields

  - Port: Server listen port (default: 8080)
  - StoreMode: Entry store backend: db, remote, or sheets (default: db)
  - DatabaseURL / DatabaseType: SQL connection (sqlite or postgres)
  - RemoteURL: spreadsheet-backed HTTP endpoint for remote mode
  - SpreadsheetID / GOOGLE_SERVICE_ACCOUNT_JSON: sheets mode
  - MediaDir: directory for uploaded media blobs
  - AdminPin / JudgeAPin / JudgeBPin: login secrets (required)
  - RoleTokenSalt: secret for role cookie HMAC (required)
  - MaxUploadBytes, ConfirmInterval, ConfirmTimeout(+Video): upload limits
    and confirmation-polling bounds
*/
package cliparse
