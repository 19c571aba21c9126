// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
	"github.com/danielhkuo/stage-score/testutil"
)

func judgingFixture(t *testing.T) (*JudgingHandler, *store.SQLStore) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	return NewJudgingHandler(st, testutil.GetTestConfig()), st
}

func submitMark(t *testing.T, h *JudgingHandler, id, role, value string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := testutil.GetTestConfig()

	req := testutil.MakeRequest("POST", "/entries/"+id+"/mark", models.SubmitMarkRequest{Value: value}, nil)
	req.SetPathValue("id", id)
	if role != models.RolePublic {
		req.AddCookie(testutil.RoleCookie(role, cfg))
	}
	w := httptest.NewRecorder()
	h.SubmitMark(w, req)
	return w
}

func TestSubmitMark(t *testing.T) {
	h, st := judgingFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	w := submitMark(t, h, id, models.RoleJudgeA, "20")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitMarkResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.MyMark != 20 {
		t.Errorf("MyMark = %d, want 20", resp.MyMark)
	}
	if resp.Status != "Waiting for other judge" {
		t.Errorf("Status = %q", resp.Status)
	}

	entries, _ := st.List(context.Background())
	if got := entries[0].Marks.JudgeA; got == nil || *got != 20 {
		t.Errorf("Stored JudgeA mark = %v, want 20", got)
	}
	if entries[0].Marks.JudgeB != nil {
		t.Error("JudgeB slot must stay untouched")
	}
}

func TestSubmitMarkCompletesJudging(t *testing.T) {
	h, st := judgingFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")
	testutil.SetTestMarks(t, st, id, testutil.IntPtr(20), nil)

	w := submitMark(t, h, id, models.RoleJudgeB, "15")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitMarkResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "Total: 35/50 (James: 20, Ananth: 15)" {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestSubmitMarkOverwrites(t *testing.T) {
	h, st := judgingFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")
	testutil.SetTestMarks(t, st, id, testutil.IntPtr(10), nil)

	w := submitMark(t, h, id, models.RoleJudgeA, "25")
	testutil.AssertStatus(t, w, http.StatusOK)

	entries, _ := st.List(context.Background())
	if got := entries[0].Marks.JudgeA; got == nil || *got != 25 {
		t.Errorf("Mark = %v, want overwritten to 25", got)
	}
}

func TestSubmitMarkBoundaryValues(t *testing.T) {
	for _, value := range []string{"0", "25", " 13 "} {
		t.Run(value, func(t *testing.T) {
			h, st := judgingFixture(t)
			id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

			w := submitMark(t, h, id, models.RoleJudgeA, value)
			testutil.AssertStatus(t, w, http.StatusOK)

			entries, _ := st.List(context.Background())
			if entries[0].Marks.JudgeA == nil {
				t.Error("Mark should be stored")
			}
		})
	}
}

func TestSubmitMarkRejectsInvalidValues(t *testing.T) {
	h, st := judgingFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	for _, value := range []string{"-1", "26", "12.5", "abc", "", "1e2"} {
		t.Run("value "+value, func(t *testing.T) {
			w := submitMark(t, h, id, models.RoleJudgeA, value)
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != "Please enter a number between 0 and 25." {
				t.Errorf("Message = %q", resp.Message)
			}
		})
	}

	// Nothing reached the store.
	entries, _ := st.List(context.Background())
	if !entries[0].Marks.Unjudged() {
		t.Error("Rejected values must not be stored")
	}
}

func TestSubmitMarkForbiddenForNonJudges(t *testing.T) {
	h, st := judgingFixture(t)
	id := testutil.CreateTestEntry(t, st, "Amy", "12345678")

	for _, role := range []string{models.RolePublic, models.RoleAdmin} {
		t.Run(role, func(t *testing.T) {
			w := submitMark(t, h, id, role, "20")
			testutil.AssertStatus(t, w, http.StatusForbidden)
		})
	}
}

func TestSubmitMarkEntryNotFound(t *testing.T) {
	h, _ := judgingFixture(t)

	w := submitMark(t, h, "missing-id", models.RoleJudgeA, "20")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
