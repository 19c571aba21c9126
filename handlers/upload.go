// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
)

// Upload flow states
const (
	StateValidating = "validating"
	StateReading    = "reading"
	StateSubmitting = "submitting"
	StateConfirming = "confirming"
	StateSucceeded  = "succeeded"
	StateFailed     = "failed"
)

// flowError carries the state a failed upload died in plus the HTTP code
// to report. The message is surfaced to the user verbatim.
type flowError struct {
	state string
	code  int
	err   error
}

func (e *flowError) Error() string { return e.err.Error() }

type UploadHandler struct {
	st  store.EntryStore
	cfg cliparse.Config
}

func NewUploadHandler(st store.EntryStore, cfg cliparse.Config) *UploadHandler {
	return &UploadHandler{st: st, cfg: cfg}
}

// Create handles POST /entries
// Runs the full upload flow: validating -> reading -> submitting ->
// confirming. Any failure resets progress to zero and leaves no partial
// state, so the whole flow is retryable from scratch.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)
	if models.IsPrivileged(role) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Judges and admins cannot submit entries")
		return
	}

	// Multipart overhead on top of the media ceiling.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+1<<20)

	id, err := h.run(r)
	if err != nil {
		var fe *flowError
		code := http.StatusBadRequest
		state := StateValidating
		if errors.As(err, &fe) {
			code = fe.code
			state = fe.state
		}
		slog.Warn("upload failed", "state", state, "error", err)
		middleware.JSONResponse(w, code, models.UploadResponse{
			State:    StateFailed,
			Message:  err.Error(),
			Progress: 0,
		})
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{
		ID:       id,
		State:    StateSucceeded,
		Message:  "Upload successful!",
		Progress: 100,
		Redirect: "/entries",
	})
}

func (h *UploadHandler) run(r *http.Request) (string, error) {
	ctx := r.Context()

	// validating
	draft, file, err := h.validate(r)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// reading: pull the media bytes fully into memory with observable
	// percentage progress before anything touches the store.
	data, err := readAllProgress(file, draft.size, func(pct int) {
		slog.Debug("reading file", "phone", draft.Phone, "percent", pct)
	})
	if err != nil {
		return "", &flowError{state: StateReading, code: http.StatusBadRequest,
			err: fmt.Errorf("could not read the selected file: %w", err)}
	}
	draft.Data = data

	// submitting
	id, err := h.st.Create(ctx, draft.EntryDraft)
	if err != nil {
		return "", h.submitError(err)
	}

	// confirming: read-after-write against the list. Synchronous stores
	// pass on the immediate first check; the remote backend keeps being
	// polled up to the media-kind ceiling.
	timeout := h.cfg.ConfirmTimeout
	if draft.Kind == models.KindVideo {
		timeout = h.cfg.ConfirmTimeoutVideo
	}
	err = store.WaitForEntry(ctx, h.st.List, h.cfg.ConfirmInterval, timeout, store.PhoneMatch(draft.Phone))
	if err != nil {
		return "", &flowError{state: StateConfirming, code: http.StatusGatewayTimeout,
			err: errors.New("Upload did not complete. Please try again.")}
	}

	slog.Info("entry created", "id", id, "name", draft.Name, "kind", draft.Kind, "size", draft.size)
	return id, nil
}

type validatedDraft struct {
	models.EntryDraft
	size int64
}

func (h *UploadHandler) validate(r *http.Request) (validatedDraft, io.ReadCloser, error) {
	fail := func(msg string) (validatedDraft, io.ReadCloser, error) {
		return validatedDraft{}, nil, &flowError{state: StateValidating,
			code: http.StatusBadRequest, err: errors.New(msg)}
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fail(fmt.Sprintf("File too large. Please upload under %s.",
				humanize.Bytes(uint64(h.cfg.MaxUploadBytes))))
		}
		return fail("Invalid upload form")
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		return fail("Please enter your name.")
	}

	phone := strings.TrimSpace(r.FormValue("phone"))
	if !validPhone(phone) {
		return fail("Please enter a valid phone number.")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return fail("Please select an audio or video file.")
	}

	contentType := header.Header.Get("Content-Type")
	var kind string
	switch {
	case strings.HasPrefix(contentType, "audio"):
		kind = models.KindAudio
	case strings.HasPrefix(contentType, "video"):
		kind = models.KindVideo
	default:
		file.Close()
		return fail("File must be audio or video.")
	}

	if header.Size > h.cfg.MaxUploadBytes {
		file.Close()
		return fail(fmt.Sprintf("File too large. Please upload under %s.",
			humanize.Bytes(uint64(h.cfg.MaxUploadBytes))))
	}

	// Duplicate phone is rejected before any write reaches the store.
	entries, err := h.st.List(r.Context())
	if err != nil {
		file.Close()
		return validatedDraft{}, nil, &flowError{state: StateValidating,
			code: http.StatusBadGateway, err: errors.New("Could not check existing entries. Please try again.")}
	}
	match := store.PhoneMatch(phone)
	for _, e := range entries {
		if match(e) {
			file.Close()
			return validatedDraft{}, nil, &flowError{state: StateValidating,
				code: http.StatusConflict,
				err:  errors.New("This phone number already has an entry. Please use a different number.")}
		}
	}

	return validatedDraft{
		EntryDraft: models.EntryDraft{
			Name:        name,
			Phone:       phone,
			Filename:    header.Filename,
			ContentType: contentType,
			Kind:        kind,
		},
		size: header.Size,
	}, file, nil
}

func (h *UploadHandler) submitError(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicatePhone):
		return &flowError{state: StateSubmitting, code: http.StatusConflict,
			err: errors.New("This phone number already has an entry. Please use a different number.")}
	case errors.Is(err, store.ErrConfirmationTimeout):
		return &flowError{state: StateConfirming, code: http.StatusGatewayTimeout,
			err: errors.New("Upload did not complete. Please try again.")}
	default:
		return &flowError{state: StateSubmitting, code: http.StatusBadGateway, err: err}
	}
}

// readAllProgress reads everything from r, reporting percentage progress
// as it goes. total <= 0 disables percentage reporting.
func readAllProgress(r io.Reader, total int64, onProgress func(pct int)) ([]byte, error) {
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, 256<<10)
	var read int64
	lastPct := -1
	started := time.Now()
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			read += int64(n)
			if total > 0 && onProgress != nil {
				pct := int(read * 100 / total)
				if pct > 100 {
					pct = 100
				}
				if pct != lastPct {
					lastPct = pct
					onProgress(pct)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	slog.Debug("file read complete", "bytes", read, "duration_ms", time.Since(started).Milliseconds())
	return buf.Bytes(), nil
}
