// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/stage-score/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "Entry not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Not Found" {
		t.Errorf("Error = %q, want 'Not Found'", body.Error)
	}
	if body.Message != "Entry not found" {
		t.Errorf("Message = %q", body.Message)
	}
}

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run on preflight")
	})

	req := httptest.NewRequest("OPTIONS", "/entries", nil)
	req.Header.Set("Origin", "https://contest.example.com")
	w := httptest.NewRecorder()

	CORS(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://contest.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSPassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/entries", nil)
	w := httptest.NewRecorder()

	CORS(inner).ServeHTTP(w, req)

	if !called {
		t.Error("inner handler was not called for a normal request")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1234", "1.2.3.4"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "4.3.2.1"}, "9.9.9.9:1234", "4.3.2.1"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	lim := NewIPRateLimiter(rate.Limit(0), 2) // burst of 2, no refill

	handler := lim.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest("POST", "/entries", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler(w, req)
		return w.Code
	}

	// First two from the same IP pass, the third is throttled.
	if code := do("1.1.1.1:50"); code != http.StatusOK {
		t.Errorf("first request: %d", code)
	}
	if code := do("1.1.1.1:50"); code != http.StatusOK {
		t.Errorf("second request: %d", code)
	}
	if code := do("1.1.1.1:50"); code != http.StatusTooManyRequests {
		t.Errorf("third request: %d, want 429", code)
	}

	// A different IP has its own budget.
	if code := do("2.2.2.2:50"); code != http.StatusOK {
		t.Errorf("other IP: %d", code)
	}
}
