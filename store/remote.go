// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/stage-score/models"
)

// RemoteStore talks to the opaque spreadsheet-backed endpoint:
// GET returns {ok, entries, error}; mutations are form-encoded POSTs with
// an action field. The endpoint's POST responses may be unreadable (the
// transport behaves like a no-cors browser fetch), so every mutation
// falls back to confirmation polling against List when it cannot trust
// the POST's own success signal.
type RemoteStore struct {
	endpoint string
	client   *http.Client

	interval     time.Duration
	timeout      time.Duration
	timeoutVideo time.Duration
}

// RemoteConfig bounds the confirmation polling loop.
type RemoteConfig struct {
	Interval     time.Duration
	Timeout      time.Duration
	TimeoutVideo time.Duration
}

func NewRemote(endpoint string, cfg RemoteConfig) *RemoteStore {
	return &RemoteStore{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: 60 * time.Second},
		interval:     cfg.Interval,
		timeout:      cfg.Timeout,
		timeoutVideo: cfg.TimeoutVideo,
	}
}

// gasResponse is the loosely-typed backend JSON envelope.
type gasResponse struct {
	OK      bool        `json:"ok"`
	Error   string      `json:"error"`
	Entries []wireEntry `json:"entries"`
}

// wireEntry tolerates the backend's optional fields and null-as-unset
// marks. The judge slots arrive as j1/j2.
type wireEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	FileID  string `json:"fileId"`
	FileURL string `json:"fileUrl"`
	Type    string `json:"type"`
	Created string `json:"createdAt"`
	Marks   struct {
		J1 *int `json:"j1"`
		J2 *int `json:"j2"`
	} `json:"marks"`
}

func (w wireEntry) toEntry() models.Entry {
	kind := w.Type
	if kind != models.KindAudio && kind != models.KindVideo {
		kind = models.KindAudio
	}
	e := models.Entry{
		ID:    w.ID,
		Name:  w.Name,
		Phone: w.Phone,
		Media: models.MediaRef{
			Kind:      kind,
			RemoteID:  w.FileID,
			RemoteURL: w.FileURL,
		},
		Marks: models.Marks{JudgeA: w.Marks.J1, JudgeB: w.Marks.J2},
	}
	if t, err := time.Parse(time.RFC3339, w.Created); err == nil {
		e.CreatedAt = t
	}
	return e
}

func (s *RemoteStore) List(ctx context.Context) ([]models.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	var payload gasResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &TransportError{Op: "list", Err: fmt.Errorf("bad JSON from server: %w", err)}
	}
	if !payload.OK {
		return nil, &TransportError{Op: "list", Err: errors.New(serverMessage(payload))}
	}

	entries := make([]models.Entry, 0, len(payload.Entries))
	for _, w := range payload.Entries {
		entries = append(entries, w.toEntry())
	}
	return entries, nil
}

func (s *RemoteStore) Create(ctx context.Context, draft models.EntryDraft) (string, error) {
	phone := strings.TrimSpace(draft.Phone)

	resp, err := s.postForm(ctx, url.Values{
		"action":   {"upload_b64"},
		"name":     {strings.TrimSpace(draft.Name)},
		"phone":    {phone},
		"filename": {draft.Filename},
		"type":     {draft.ContentType},
		"data":     {base64.StdEncoding.EncodeToString(draft.Data)},
	})
	if err != nil {
		return "", err
	}
	if resp != nil && !resp.OK {
		return "", &TransportError{Op: "create", Err: errors.New(serverMessage(*resp))}
	}

	// The id is assigned server-side, so confirmation correlates on the
	// trimmed phone instead.
	timeout := s.timeout
	if draft.Kind == models.KindVideo {
		timeout = s.timeoutVideo
	}
	if err := WaitForEntry(ctx, s.List, s.interval, timeout, PhoneMatch(phone)); err != nil {
		return "", err
	}

	entries, err := s.List(ctx)
	if err == nil {
		match := PhoneMatch(phone)
		for _, e := range entries {
			if match(e) {
				return e.ID, nil
			}
		}
	}
	return "", nil
}

func (s *RemoteStore) Edit(ctx context.Context, id, name, phone string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	resp, err := s.postForm(ctx, url.Values{
		"action": {"edit"},
		"id":     {id},
		"name":   {name},
		"phone":  {phone},
	})
	if err != nil {
		return err
	}
	if resp != nil {
		if !resp.OK {
			return remoteFailure("edit", *resp)
		}
		return nil
	}
	// Opaque response: confirm by observing the new field values.
	return WaitForEntry(ctx, s.List, s.interval, s.timeout, IDMatch(id, func(e models.Entry) bool {
		return strings.TrimSpace(e.Name) == name && strings.TrimSpace(e.Phone) == phone
	}))
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	resp, err := s.postForm(ctx, url.Values{
		"action": {"delete"},
		"id":     {id},
	})
	if err != nil {
		return err
	}
	if resp != nil {
		if !resp.OK {
			return remoteFailure("delete", *resp)
		}
		return nil
	}
	return WaitForAbsence(ctx, s.List, s.interval, s.timeout, IDMatch(id, nil))
}

func (s *RemoteStore) SetMark(ctx context.Context, id string, judge models.Judge, value int) error {
	resp, err := s.postForm(ctx, url.Values{
		"action": {"mark"},
		"id":     {id},
		"judge":  {wireJudge(judge)},
		"value":  {strconv.Itoa(value)},
	})
	if err != nil {
		return err
	}
	if resp != nil {
		if !resp.OK {
			return remoteFailure("mark", *resp)
		}
		return nil
	}
	return WaitForEntry(ctx, s.List, s.interval, s.timeout, IDMatch(id, func(e models.Entry) bool {
		m := e.Marks.Get(judge)
		return m != nil && *m == value
	}))
}

// wireJudge maps a judge slot to the backend's j1/j2 naming.
func wireJudge(judge models.Judge) string {
	if judge == models.JudgeB {
		return "j2"
	}
	return "j1"
}

// postForm sends a form-encoded mutation. A nil response with nil error
// means the POST went through but its body was unreadable or not JSON -
// the caller must confirm by polling.
func (s *RemoteStore) postForm(ctx context.Context, form url.Values) (*gasResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Op: form.Get("action"), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: form.Get("action"), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		slog.Debug("unreadable POST response, falling back to confirmation polling",
			"action", form.Get("action"), "error", err)
		return nil, nil
	}
	var payload gasResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Debug("non-JSON POST response, falling back to confirmation polling",
			"action", form.Get("action"))
		return nil, nil
	}
	return &payload, nil
}

func remoteFailure(op string, resp gasResponse) error {
	msg := serverMessage(resp)
	if strings.Contains(strings.ToLower(msg), "not found") {
		return ErrNotFound
	}
	return &TransportError{Op: op, Err: errors.New(msg)}
}

func serverMessage(resp gasResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	return "server reported failure"
}
