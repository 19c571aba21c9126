// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Role constants
const (
	RolePublic = "public"
	RoleAdmin  = "admin"
	RoleJudgeA = "judgeA"
	RoleJudgeB = "judgeB"
)

// Judge identifies one of the two scoring slots on an entry.
type Judge string

const (
	JudgeA Judge = "judgeA"
	JudgeB Judge = "judgeB"
)

// Mark bounds (inclusive)
const (
	MinMark = 0
	MaxMark = 25
)

// MaxTotal is the highest possible combined score.
const MaxTotal = 2 * MaxMark

// Media kind constants
const (
	KindAudio = "audio"
	KindVideo = "video"
)

// IsPrivileged reports whether the role is admin or either judge.
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleJudgeA || role == RoleJudgeB
}

// IsJudge reports whether the role is one of the two judge identities.
func IsJudge(role string) bool {
	return role == RoleJudgeA || role == RoleJudgeB
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch s {
	case RolePublic, RoleAdmin, RoleJudgeA, RoleJudgeB:
		return true
	}
	return false
}

// JudgeForRole maps a judge role to its scoring slot.
func JudgeForRole(role string) (Judge, bool) {
	switch role {
	case RoleJudgeA:
		return JudgeA, true
	case RoleJudgeB:
		return JudgeB, true
	}
	return "", false
}

// Marks holds the two independent judge scores. A nil pointer means the
// slot has not been scored yet.
type Marks struct {
	JudgeA *int `json:"judgeA"`
	JudgeB *int `json:"judgeB"`
}

// Get returns the mark for the given judge slot.
func (m Marks) Get(j Judge) *int {
	if j == JudgeA {
		return m.JudgeA
	}
	return m.JudgeB
}

// FullyJudged reports whether both slots are set.
func (m Marks) FullyJudged() bool {
	return m.JudgeA != nil && m.JudgeB != nil
}

// Unjudged reports whether neither slot is set.
func (m Marks) Unjudged() bool {
	return m.JudgeA == nil && m.JudgeB == nil
}

// Total returns the combined score. ok is false unless both marks are set.
func (m Marks) Total() (total int, ok bool) {
	if !m.FullyJudged() {
		return 0, false
	}
	return *m.JudgeA + *m.JudgeB, true
}

// MediaRef is the typed media reference attached to an entry. Exactly one
// of BlobKey, RemoteID, or RemoteURL is set, decided at creation time, so
// no URL sniffing is ever needed at render time.
type MediaRef struct {
	Kind        string `json:"kind"` // "audio" or "video"
	BlobKey     string `json:"-"`    // key into the local media directory
	RemoteID    string `json:"remote_id,omitempty"`
	RemoteURL   string `json:"remote_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Local reports whether the media bytes live in the local media directory.
func (m MediaRef) Local() bool { return m.BlobKey != "" }

// Entry is one contestant submission.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Media     MediaRef  `json:"media"`
	CreatedAt time.Time `json:"created_at"`
	Marks     Marks     `json:"marks"`
}

// EntryDraft carries everything needed to create an entry. The media bytes
// are fully read before the draft reaches a store.
type EntryDraft struct {
	Name        string
	Phone       string
	Filename    string
	ContentType string
	Kind        string // "audio" or "video"
	Data        []byte
}

// Request types

type LoginRequest struct {
	Pin string `json:"pin"`
}

type EditEntryRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SubmitMarkRequest struct {
	Value string `json:"value"` // parsed strictly as an integer in [0,25]
}

// Response types

type SessionResponse struct {
	Role       string `json:"role"`
	Privileged bool   `json:"privileged"`
	JudgeName  string `json:"judge_name,omitempty"`
}

// EntryView is an entry as disclosed to a particular viewer. Marks are
// redacted according to the viewer's role: judges see the per-judge
// breakdown and their own value, everyone else sees at most the total.
type EntryView struct {
	Position  int       `json:"position"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Kind      string    `json:"kind"`
	MediaURL  string    `json:"media_url"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Total     *int      `json:"total,omitempty"`
	Marks     *Marks    `json:"marks,omitempty"`   // judges only, both set
	MyMark    *int      `json:"my_mark,omitempty"` // viewer's own slot, judges only
}

type ListEntriesResponse struct {
	Entries []EntryView `json:"entries"`
}

type UploadResponse struct {
	ID       string `json:"id,omitempty"`
	State    string `json:"state"` // "succeeded" or "failed"
	Message  string `json:"message"`
	Progress int    `json:"progress"` // percent, reset to 0 on failure
	Redirect string `json:"redirect,omitempty"`
}

type SubmitMarkResponse struct {
	Status string `json:"status"`
	MyMark int    `json:"my_mark"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
