// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store abstracts the entry collection behind the EntryStore
interface and provides three backends:

  - SQLStore: database/sql (PostgreSQL or SQLite) rows plus a MediaDir of
    on-disk blobs keyed by entry id. Row and blob lifecycles are tied
    together.
  - RemoteStore: HTTP client for the opaque spreadsheet-backed endpoint
    (GET list envelope, form-encoded action POSTs). POST responses may be
    unreadable, so mutations confirm themselves by polling List.
  - SheetsStore: the Google Sheets API directly (read-all, append-row,
    update-cell, delete-row), with blobs in the MediaDir.

# Confirmation Polling

WaitForEntry / WaitForAbsence implement the bounded read-after-write
loop: check immediately, then on a fixed interval up to a ceiling.
Create correlates on trimmed phone (ids may be assigned server-side);
edits and marks correlate on id plus the expected field value.

# Errors

ErrNotFound, ErrDuplicatePhone, and ErrConfirmationTimeout are sentinel
values; TransportError and BlobError wrap backend faults. Disk-full blob
failures are flagged so the UI can give an actionable message.
*/
package store
