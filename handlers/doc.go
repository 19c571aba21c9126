// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the stage-score API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - SessionHandler: PIN login, logout, current role
  - EntryHandler: ranked listing, entry detail, media streaming
  - UploadHandler: the submission flow (validate, read, submit, confirm)
  - JudgingHandler: mark submission by judge identity
  - AdminHandler: entry edit and delete

Handlers are created via constructor functions that accept a
store.EntryStore and Config:

	uploadHandler := handlers.NewUploadHandler(st, cfg)

# Role Resolution

ResolveRole runs on every request: a valid ?role= query parameter
overrides and re-persists the signed role cookie; otherwise the cookie
decides; otherwise the caller is public. Upload is refused to privileged
roles, edit/delete require admin, and marks require a judge identity.

# Upload Flow

The upload runs an explicit state machine
(validating -> reading -> submitting -> confirming) and reports the
terminal state in the response. Failures surface the triggering message
verbatim with progress reset to zero; nothing partial survives, so the
flow is always retryable from scratch.
*/
package handlers
