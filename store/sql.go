// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/stage-score/models"
)

// SQLStore keeps entries in a SQL database (PostgreSQL or SQLite) and
// media blobs in a MediaDir. Row and blob are kept consistent: creating
// writes the blob before the row and rolls the blob back if the insert
// fails; deleting removes both.
type SQLStore struct {
	db    *sql.DB
	media *MediaDir
}

func NewSQL(db *sql.DB, media *MediaDir) *SQLStore {
	return &SQLStore{db: db, media: media}
}

// Media exposes the blob store so the media-serving handler can stream
// from it directly.
func (s *SQLStore) Media() *MediaDir { return s.media }

const entryColumns = `id, name, phone, media_kind, blob_key, remote_id, remote_url, filename, content_type, judge_a, judge_b, created_at`

func (s *SQLStore) List(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entry
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, &TransportError{Op: "list", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	return entries, nil
}

func (s *SQLStore) Create(ctx context.Context, draft models.EntryDraft) (string, error) {
	id := uuid.NewString()
	phone := strings.TrimSpace(draft.Phone)

	// Best-effort pre-check; the UNIQUE constraint is the backstop for
	// two concurrent submissions with the same phone.
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM entry WHERE TRIM(phone) = $1)`, phone).Scan(&exists)
	if err != nil {
		return "", &TransportError{Op: "create", Err: err}
	}
	if exists {
		return "", ErrDuplicatePhone
	}

	if err := s.media.Save(id, draft.Data); err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entry (id, name, phone, media_kind, blob_key, filename, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, strings.TrimSpace(draft.Name), phone, draft.Kind, id,
		draft.Filename, draft.ContentType, len(draft.Data), time.Now().UTC())

	if err != nil {
		if delErr := s.media.Delete(id); delErr != nil {
			slog.Warn("failed to roll back blob after insert failure", "id", id, "error", delErr)
		}
		if isUniqueViolation(err) {
			return "", ErrDuplicatePhone
		}
		return "", &TransportError{Op: "create", Err: err}
	}
	return id, nil
}

func (s *SQLStore) Edit(ctx context.Context, id, name, phone string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE entry SET name = $1, phone = $2 WHERE id = $3
	`, strings.TrimSpace(name), strings.TrimSpace(phone), id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePhone
		}
		return &TransportError{Op: "edit", Err: err}
	}
	return checkFound(res, "edit")
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	var blobKey string
	err := s.db.QueryRowContext(ctx, `SELECT blob_key FROM entry WHERE id = $1`, id).Scan(&blobKey)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM entry WHERE id = $1`, id)
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}
	if err := checkFound(res, "delete"); err != nil {
		return err
	}

	// The row is gone; a dangling blob must not survive it.
	if blobKey != "" {
		if err := s.media.Delete(blobKey); err != nil {
			slog.Warn("entry deleted but blob removal failed", "id", id, "error", err)
		}
	}
	return nil
}

func (s *SQLStore) SetMark(ctx context.Context, id string, judge models.Judge, value int) error {
	col := "judge_a"
	if judge == models.JudgeB {
		col = "judge_b"
	}
	res, err := s.db.ExecContext(ctx, `UPDATE entry SET `+col+` = $1 WHERE id = $2`, value, id)
	if err != nil {
		return &TransportError{Op: "mark", Err: err}
	}
	return checkFound(res, "mark")
}

func checkFound(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var judgeA, judgeB sql.NullInt64
	err := row.Scan(
		&e.ID, &e.Name, &e.Phone, &e.Media.Kind, &e.Media.BlobKey,
		&e.Media.RemoteID, &e.Media.RemoteURL, &e.Media.Filename,
		&e.Media.ContentType, &judgeA, &judgeB, &e.CreatedAt,
	)
	if err != nil {
		return models.Entry{}, err
	}
	if judgeA.Valid {
		v := int(judgeA.Int64)
		e.Marks.JudgeA = &v
	}
	if judgeB.Valid {
		v := int(judgeB.Int64)
		e.Marks.JudgeB = &v
	}
	return e, nil
}

// isUniqueViolation matches the duplicate-key error text of both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
