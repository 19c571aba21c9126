// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/stage-score/auth"
	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/db"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
)

// SetupTestStore creates a fresh in-memory SQLite store with the full
// schema and a throwaway media directory.
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	dbConn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second pool connection would get its own empty memory database.
	dbConn.SetMaxOpenConns(1)
	t.Cleanup(func() { dbConn.Close() })

	if err := db.CreateSchema(dbConn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	media, err := store.NewMediaDir(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create media dir: %v", err)
	}

	return store.NewSQL(dbConn, media)
}

// GetTestConfig returns a standard test configuration with fast
// confirmation-polling bounds.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                8080,
		DatabaseType:        "sqlite",
		StoreMode:           cliparse.StoreDB,
		MediaDir:            "media",
		AdminPin:            "test-admin-pin",
		JudgeAPin:           "test-judge-a-pin",
		JudgeBPin:           "test-judge-b-pin",
		RoleTokenSalt:       "test-role-salt",
		JudgeAName:          "James",
		JudgeBName:          "Ananth",
		MaxUploadBytes:      1 << 20,
		ConfirmInterval:     10 * time.Millisecond,
		ConfirmTimeout:      500 * time.Millisecond,
		ConfirmTimeoutVideo: time.Second,
	}
}

// CreateTestEntry creates an entry with a small audio payload and
// returns its id.
func CreateTestEntry(t *testing.T, st *store.SQLStore, name, phone string) string {
	t.Helper()

	id, err := st.Create(context.Background(), models.EntryDraft{
		Name:        name,
		Phone:       phone,
		Filename:    "song.mp3",
		ContentType: "audio/mpeg",
		Kind:        models.KindAudio,
		Data:        []byte("test-audio-bytes"),
	})
	if err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}
	return id
}

// SetTestMarks applies judge marks to an entry; nil leaves a slot unset.
func SetTestMarks(t *testing.T, st *store.SQLStore, id string, judgeA, judgeB *int) {
	t.Helper()

	if judgeA != nil {
		if err := st.SetMark(context.Background(), id, models.JudgeA, *judgeA); err != nil {
			t.Fatalf("Failed to set judge A mark: %v", err)
		}
	}
	if judgeB != nil {
		if err := st.SetMark(context.Background(), id, models.JudgeB, *judgeB); err != nil {
			t.Fatalf("Failed to set judge B mark: %v", err)
		}
	}
}

// IntPtr returns a pointer to v, for building optional marks.
func IntPtr(v int) *int { return &v }

// RoleCookie returns a signed role cookie for test requests.
func RoleCookie(role string, cfg cliparse.Config) *http.Cookie {
	return &http.Cookie{Name: "role", Value: auth.SignRole(role, cfg.RoleTokenSalt)}
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeUploadRequest builds a multipart submission request.
func MakeUploadRequest(t *testing.T, name, phone, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", name); err != nil {
		t.Fatalf("Failed to write name field: %v", err)
	}
	if err := mw.WriteField("phone", phone); err != nil {
		t.Fatalf("Failed to write phone field: %v", err)
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
			t.Fatalf("Failed to write file data: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/entries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
