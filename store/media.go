// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// MediaDir is the on-disk blob store for uploaded media, keyed by entry
// id. Each entry owns at most one blob; saving under an existing key
// overwrites it, and deleting an entry must delete its blob.
type MediaDir struct {
	root string
}

// NewMediaDir opens (creating if needed) the media directory.
func NewMediaDir(root string) (*MediaDir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &BlobError{Op: "init", Full: isDiskFull(err), Err: err}
	}
	return &MediaDir{root: root}, nil
}

// Save writes the blob under key, replacing any previous content.
func (m *MediaDir) Save(key string, data []byte) error {
	path, err := m.path(key)
	if err != nil {
		return err
	}
	// Write to a temp file first so a failed write never leaves a
	// truncated blob under the real key.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return &BlobError{Op: "save", Full: isDiskFull(err), Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &BlobError{Op: "save", Full: isDiskFull(err), Err: err}
	}
	return nil
}

// Open returns a reader over the blob. The caller closes it.
func (m *MediaDir) Open(key string) (*os.File, error) {
	path, err := m.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &BlobError{Op: "open", Err: err}
	}
	return f, nil
}

// Delete removes the blob. Deleting a missing blob is not an error, so
// entry deletion stays idempotent.
func (m *MediaDir) Delete(key string) error {
	path, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &BlobError{Op: "delete", Err: err}
	}
	return nil
}

func (m *MediaDir) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", &BlobError{Op: "key", Err: fmt.Errorf("invalid blob key %q", key)}
	}
	return filepath.Join(m.root, key), nil
}

func isDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}
