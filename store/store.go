// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/stage-score/models"
)

var (
	// ErrNotFound reports an operation against an entry id absent from
	// the current list snapshot.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicatePhone reports a create that would violate the
	// one-submission-per-phone rule.
	ErrDuplicatePhone = errors.New("this phone number already has an entry")

	// ErrConfirmationTimeout reports a write that was accepted but never
	// observed within the polling ceiling. The write may still have
	// succeeded later; bounded wait is traded for that false-negative risk.
	ErrConfirmationTimeout = errors.New("the write was not confirmed in time")
)

// TransportError wraps a network failure or malformed response from a
// backing store. Transport faults always degrade to an error value,
// never an unhandled fault.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BlobError wraps a local media storage failure. Full marks the
// quota-exceeded / disk-full case, which gets a more actionable message
// than a generic failure.
type BlobError struct {
	Op   string
	Full bool
	Err  error
}

func (e *BlobError) Error() string {
	if e.Full {
		return fmt.Sprintf("media %s: storage is full - free up space or raise the quota: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("media %s: %v", e.Op, e.Err)
}

func (e *BlobError) Unwrap() error { return e.Err }

// EntryStore abstracts the entry collection. List always returns the full
// current collection - callers never see partial pages. Implementations:
// SQLStore (database + disk blobs), RemoteStore (opaque spreadsheet-backed
// HTTP endpoint), SheetsStore (Google Sheets API).
type EntryStore interface {
	List(ctx context.Context) ([]models.Entry, error)
	Create(ctx context.Context, draft models.EntryDraft) (id string, err error)
	Edit(ctx context.Context, id, name, phone string) error
	Delete(ctx context.Context, id string) error
	SetMark(ctx context.Context, id string, judge models.Judge, value int) error
}
