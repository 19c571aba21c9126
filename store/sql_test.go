// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
	"github.com/danielhkuo/stage-score/testutil"
)

func TestSQLCreateAndList(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	id, err := st.Create(ctx, models.EntryDraft{
		Name:        "  Amy  ",
		Phone:       " 12345678 ",
		Filename:    "song.mp3",
		ContentType: "audio/mpeg",
		Kind:        models.KindAudio,
		Data:        []byte("audio-bytes"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned an empty id")
	}

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.ID != id {
		t.Errorf("ID = %q, want %q", e.ID, id)
	}
	if e.Name != "Amy" {
		t.Errorf("Name = %q, want trimmed 'Amy'", e.Name)
	}
	if e.Phone != "12345678" {
		t.Errorf("Phone = %q, want trimmed '12345678'", e.Phone)
	}
	if e.Media.Kind != models.KindAudio {
		t.Errorf("Kind = %q", e.Media.Kind)
	}
	if !e.Media.Local() {
		t.Error("Entry should have a local blob")
	}
	if e.Marks.JudgeA != nil || e.Marks.JudgeB != nil {
		t.Error("New entry should have no marks")
	}
}

func TestSQLCreateStoresBlob(t *testing.T) {
	st := testutil.SetupTestStore(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	f, err := st.Media().Open(id)
	if err != nil {
		t.Fatalf("Open blob failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("Read blob failed: %v", err)
	}
	if string(data) != "test-audio-bytes" {
		t.Errorf("Blob content = %q", data)
	}
}

func TestSQLDuplicatePhone(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	testutil.CreateTestEntry(t, st, "Amy", "12345678")

	// Same phone with surrounding whitespace is still a duplicate.
	_, err := st.Create(ctx, models.EntryDraft{
		Name:        "Bob",
		Phone:       " 12345678 ",
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Kind:        models.KindVideo,
		Data:        []byte("video-bytes"),
	})
	if !errors.Is(err, store.ErrDuplicatePhone) {
		t.Errorf("Expected ErrDuplicatePhone, got %v", err)
	}

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Duplicate create should not add a row, got %d entries", len(entries))
	}
}

func TestSQLEdit(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	if err := st.Edit(ctx, id, "Amy Chen", "87654321"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	entries, _ := st.List(ctx)
	if entries[0].Name != "Amy Chen" || entries[0].Phone != "87654321" {
		t.Errorf("Edit not applied: %q / %q", entries[0].Name, entries[0].Phone)
	}
}

func TestSQLEditNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	err := st.Edit(context.Background(), "missing-id", "Amy", "12345678")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLEditDuplicatePhone(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.CreateTestEntry(t, st, "Amy", "12345678")
	id := testutil.CreateTestEntry(t, st, "Bob", "87654321")

	err := st.Edit(context.Background(), id, "Bob", "12345678")
	if !errors.Is(err, store.ErrDuplicatePhone) {
		t.Errorf("Expected ErrDuplicatePhone, got %v", err)
	}
}

func TestSQLSetMarkSlots(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	if err := st.SetMark(ctx, id, models.JudgeA, 20); err != nil {
		t.Fatalf("SetMark A failed: %v", err)
	}

	entries, _ := st.List(ctx)
	if got := entries[0].Marks.JudgeA; got == nil || *got != 20 {
		t.Errorf("JudgeA mark = %v, want 20", got)
	}
	if entries[0].Marks.JudgeB != nil {
		t.Error("JudgeB mark should be untouched")
	}

	// Overwriting the same slot replaces the value.
	if err := st.SetMark(ctx, id, models.JudgeA, 15); err != nil {
		t.Fatalf("SetMark A overwrite failed: %v", err)
	}
	if err := st.SetMark(ctx, id, models.JudgeB, 25); err != nil {
		t.Fatalf("SetMark B failed: %v", err)
	}

	entries, _ = st.List(ctx)
	if got := entries[0].Marks.JudgeA; got == nil || *got != 15 {
		t.Errorf("JudgeA mark = %v, want 15", got)
	}
	if got := entries[0].Marks.JudgeB; got == nil || *got != 25 {
		t.Errorf("JudgeB mark = %v, want 25", got)
	}
	if !entries[0].Marks.FullyJudged() {
		t.Error("Entry with both marks should be fully judged")
	}
}

func TestSQLSetMarkNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	err := st.SetMark(context.Background(), "missing-id", models.JudgeA, 10)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLDelete(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	if err := st.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entries, _ := st.List(ctx)
	if len(entries) != 0 {
		t.Errorf("Expected no entries after delete, got %d", len(entries))
	}

	// The blob goes with the row.
	_, err := st.Media().Open(id)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected blob to be removed, Open returned %v", err)
	}
}

func TestSQLDeleteNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	err := st.Delete(context.Background(), "missing-id")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLListOrder(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.CreateTestEntry(t, st, "Zoe", "11111111")
	testutil.CreateTestEntry(t, st, "Amy", "22222222")
	testutil.CreateTestEntry(t, st, "Bob", "33333333")

	entries, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// Submission order, not alphabetical.
	want := []string{"Zoe", "Amy", "Bob"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List order = %v, want %v", names, want)
		}
	}
}
