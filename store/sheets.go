// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/danielhkuo/stage-score/models"
)

// Sheet layout: one "Entries" sheet with a header row.
// A=id B=name C=phone D=filename E=content_type F=kind G=judge_a H=judge_b I=created_at
const (
	sheetEntries = "Entries"
	rangeAll     = sheetEntries + "!A:I"
)

// SheetsStore keeps the entry list directly in a Google spreadsheet and
// media blobs in the local MediaDir. The sheet is the system of record;
// the blob key always equals the entry id.
type SheetsStore struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	media         *MediaDir
}

func NewSheets(ctx context.Context, serviceAccountJSONPath, spreadsheetID string, media *MediaDir) (*SheetsStore, error) {
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsStore{srv: srv, spreadsheetID: spreadsheetID, media: media}, nil
}

// Media exposes the blob store for the media-serving handler.
func (s *SheetsStore) Media() *MediaDir { return s.media }

func (s *SheetsStore) List(ctx context.Context) ([]models.Entry, error) {
	values, err := s.readAll(ctx)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}

	entries := []models.Entry{}
	// header row at index 0
	for i := 1; i < len(values); i++ {
		row := values[i]
		if len(row) < 1 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}
		e := models.Entry{
			ID:    cell(row, 0),
			Name:  cell(row, 1),
			Phone: cell(row, 2),
			Media: models.MediaRef{
				Kind:        cell(row, 5),
				BlobKey:     cell(row, 0),
				Filename:    cell(row, 3),
				ContentType: cell(row, 4),
			},
			Marks: models.Marks{
				JudgeA: parseMark(cell(row, 6)),
				JudgeB: parseMark(cell(row, 7)),
			},
		}
		if e.Media.Kind != models.KindAudio && e.Media.Kind != models.KindVideo {
			e.Media.Kind = models.KindAudio
		}
		if t, err := time.Parse(time.RFC3339, cell(row, 8)); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *SheetsStore) Create(ctx context.Context, draft models.EntryDraft) (string, error) {
	phone := strings.TrimSpace(draft.Phone)

	entries, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	match := PhoneMatch(phone)
	for _, e := range entries {
		if match(e) {
			return "", ErrDuplicatePhone
		}
	}

	id := uuid.NewString()
	if err := s.media.Save(id, draft.Data); err != nil {
		return "", err
	}

	err = s.appendRow(ctx, []interface{}{
		id, strings.TrimSpace(draft.Name), phone,
		draft.Filename, draft.ContentType, draft.Kind,
		"", "", time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		if delErr := s.media.Delete(id); delErr != nil {
			slog.Warn("failed to roll back blob after append failure", "id", id, "error", delErr)
		}
		return "", &TransportError{Op: "create", Err: err}
	}
	return id, nil
}

func (s *SheetsStore) Edit(ctx context.Context, id, name, phone string) error {
	rowNum, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{{
		strings.TrimSpace(name), strings.TrimSpace(phone),
	}}}
	a1 := fmt.Sprintf("%s!B%d:C%d", sheetEntries, rowNum, rowNum)
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, a1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return &TransportError{Op: "edit", Err: err}
	}
	return nil
}

func (s *SheetsStore) Delete(ctx context.Context, id string) error {
	rowNum, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}
	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return &TransportError{Op: "delete", Err: err}
	}

	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			DeleteDimension: &sheetsv4.DeleteDimensionRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1),
					EndIndex:   int64(rowNum),
				},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &TransportError{Op: "delete", Err: err}
	}

	if err := s.media.Delete(id); err != nil {
		slog.Warn("entry deleted but blob removal failed", "id", id, "error", err)
	}
	return nil
}

func (s *SheetsStore) SetMark(ctx context.Context, id string, judge models.Judge, value int) error {
	rowNum, err := s.findRow(ctx, id)
	if err != nil {
		return err
	}
	col := "G"
	if judge == models.JudgeB {
		col = "H"
	}
	if err := s.updateCell(ctx, fmt.Sprintf("%s%d", col, rowNum), value); err != nil {
		return &TransportError{Op: "mark", Err: err}
	}
	return nil
}

func (s *SheetsStore) readAll(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, rangeAll).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *SheetsStore) appendRow(ctx context.Context, row []interface{}) error {
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{row}}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, rangeAll, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (s *SheetsStore) updateCell(ctx context.Context, a1 string, value interface{}) error {
	vr := &sheetsv4.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, sheetEntries+"!"+a1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// findRow returns the 1-indexed sheet row holding the entry.
func (s *SheetsStore) findRow(ctx context.Context, id string) (int, error) {
	values, err := s.readAll(ctx)
	if err != nil {
		return 0, &TransportError{Op: "find", Err: err}
	}
	for i := 1; i < len(values); i++ {
		if cell(values[i], 0) == id {
			return i + 1, nil // sheet rows are 1-indexed
		}
	}
	return 0, ErrNotFound
}

func (s *SheetsStore) sheetID(ctx context.Context) (int64, error) {
	resp, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetEntries {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", sheetEntries)
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}

func parseMark(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < models.MinMark || v > models.MaxMark {
		return nil
	}
	return &v
}
