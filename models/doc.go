// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Entry: one contestant submission (name, phone, media reference, marks)
  - Marks: the two independent judge scores; nil means unset
  - MediaRef: typed media reference (local blob, remote id, or remote URL)
  - EntryDraft: creation payload with fully-read media bytes

# Roles

Four roles exist: public, admin, judgeA, judgeB. Role helpers
(IsPrivileged, IsJudge, JudgeForRole) centralize the gating logic.

# Views

EntryView is the redacted, viewer-scoped projection of an Entry. Judges
receive the per-judge breakdown and their own mark; public and admin
viewers receive at most the aggregate total. That asymmetry is a
deliberate disclosure boundary and is enforced here rather than in the UI.
*/
package models
