// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"time"

	"github.com/danielhkuo/stage-score/models"
)

// ListFunc reads the full entry collection.
type ListFunc func(ctx context.Context) ([]models.Entry, error)

// WaitForEntry polls the list until some entry satisfies match, checking
// once immediately and then on every interval tick up to the timeout.
// Transient list failures do not abort the loop - the next tick retries.
// Returns ErrConfirmationTimeout when the ceiling passes without a match,
// or the context error if the caller cancels first.
func WaitForEntry(ctx context.Context, list ListFunc, interval, timeout time.Duration, match func(models.Entry) bool) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check := func() (bool, error) {
		entries, err := list(ctx)
		if err != nil {
			return false, err
		}
		for _, e := range entries {
			if match(e) {
				return true, nil
			}
		}
		return false, nil
	}

	if found, _ := check(); found {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return ctx.Err()
			}
			return ErrConfirmationTimeout
		case <-ticker.C:
			if found, _ := check(); found {
				return nil
			}
		}
	}
}

// PhoneMatch is the create-confirmation predicate: trimmed-phone
// equality. Correlation is by phone rather than id because the backend
// may assign ids server-side.
func PhoneMatch(phone string) func(models.Entry) bool {
	want := strings.TrimSpace(phone)
	return func(e models.Entry) bool {
		return strings.TrimSpace(e.Phone) == want
	}
}

// IDMatch matches an entry by id. Used to confirm edits and marks.
func IDMatch(id string, check func(models.Entry) bool) func(models.Entry) bool {
	return func(e models.Entry) bool {
		return e.ID == id && (check == nil || check(e))
	}
}

// WaitForAbsence polls until no entry satisfies match (delete
// confirmation), with the same bounds as WaitForEntry.
func WaitForAbsence(ctx context.Context, list ListFunc, interval, timeout time.Duration, match func(models.Entry) bool) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	gone := func() bool {
		entries, err := list(ctx)
		if err != nil {
			return false
		}
		for _, e := range entries {
			if match(e) {
				return false
			}
		}
		return true
	}

	if gone() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ErrConfirmationTimeout
		case <-ticker.C:
			if gone() {
				return nil
			}
		}
	}
}
