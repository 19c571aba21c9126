// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
	"github.com/danielhkuo/stage-score/testutil"
)

func adminFixture(t *testing.T) (*AdminHandler, *store.SQLStore) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	return NewAdminHandler(st, testutil.GetTestConfig()), st
}

func editRequest(t *testing.T, h *AdminHandler, id, role, name, phone string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := testutil.GetTestConfig()

	req := testutil.MakeRequest("PUT", "/entries/"+id, models.EditEntryRequest{Name: name, Phone: phone}, nil)
	req.SetPathValue("id", id)
	if role != models.RolePublic {
		req.AddCookie(testutil.RoleCookie(role, cfg))
	}
	w := httptest.NewRecorder()
	h.Edit(w, req)
	return w
}

func deleteRequest(t *testing.T, h *AdminHandler, id, role string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := testutil.GetTestConfig()

	req := httptest.NewRequest("DELETE", "/entries/"+id, nil)
	req.SetPathValue("id", id)
	if role != models.RolePublic {
		req.AddCookie(testutil.RoleCookie(role, cfg))
	}
	w := httptest.NewRecorder()
	h.Delete(w, req)
	return w
}

func TestAdminEdit(t *testing.T) {
	h, st := adminFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	w := editRequest(t, h, id, models.RoleAdmin, "Amy Chen", "87654321")
	testutil.AssertStatus(t, w, http.StatusNoContent)

	entries, _ := st.List(context.Background())
	if entries[0].Name != "Amy Chen" || entries[0].Phone != "87654321" {
		t.Errorf("Edit not applied: %+v", entries[0])
	}
}

func TestAdminEditForbidden(t *testing.T) {
	h, st := adminFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	for _, role := range []string{models.RolePublic, models.RoleJudgeA, models.RoleJudgeB} {
		t.Run(role, func(t *testing.T) {
			w := editRequest(t, h, id, role, "Eve", "99999999")
			testutil.AssertStatus(t, w, http.StatusForbidden)
		})
	}

	entries, _ := st.List(context.Background())
	if entries[0].Name != "Amy" {
		t.Error("Forbidden edit must not change the entry")
	}
}

func TestAdminEditValidation(t *testing.T) {
	h, st := adminFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	tests := []struct {
		name  string
		cName string
		phone string
	}{
		{"empty name", "", "12345678"},
		{"whitespace name", "   ", "12345678"},
		{"bad phone", "Amy", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := editRequest(t, h, id, models.RoleAdmin, tt.cName, tt.phone)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestAdminEditNotFound(t *testing.T) {
	h, _ := adminFixture(t)

	w := editRequest(t, h, "missing-id", models.RoleAdmin, "Amy", "12345678")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAdminEditDuplicatePhone(t *testing.T) {
	h, st := adminFixture(t)
	testutil.CreateTestEntry(t, st, "Amy", "12345678")
	id := testutil.CreateTestEntry(t, st, "Bob", "87654321")

	w := editRequest(t, h, id, models.RoleAdmin, "Bob", "12345678")
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestAdminDelete(t *testing.T) {
	h, st := adminFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	w := deleteRequest(t, h, id, models.RoleAdmin)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	entries, _ := st.List(context.Background())
	if len(entries) != 0 {
		t.Errorf("Expected no entries after delete, got %d", len(entries))
	}
	if _, err := st.Media().Open(id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected the blob to be gone, Open returned %v", err)
	}
}

func TestAdminDeleteForbidden(t *testing.T) {
	h, st := adminFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	for _, role := range []string{models.RolePublic, models.RoleJudgeA, models.RoleJudgeB} {
		t.Run(role, func(t *testing.T) {
			w := deleteRequest(t, h, id, role)
			testutil.AssertStatus(t, w, http.StatusForbidden)
		})
	}

	entries, _ := st.List(context.Background())
	if len(entries) != 1 {
		t.Error("Forbidden delete must not remove the entry")
	}
}

func TestAdminDeleteNotFound(t *testing.T) {
	h, _ := adminFixture(t)

	w := deleteRequest(t, h, "missing-id", models.RoleAdmin)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
