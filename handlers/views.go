// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/ranking"
)

// Contestant phone numbers: 8-15 characters of digits, +, -, and spaces.
var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{8,15}$`)

func validPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func judgeNames(cfg cliparse.Config) ranking.JudgeNames {
	return ranking.JudgeNames{A: cfg.JudgeAName, B: cfg.JudgeBName}
}

// buildView projects an entry for a viewer, applying the disclosure
// rules: judges get the breakdown (once complete) and their own mark;
// public and admin viewers get only the total, and only when fully
// judged.
func buildView(e models.Entry, position int, viewerRole string, cfg cliparse.Config) models.EntryView {
	v := models.EntryView{
		Position:  position,
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Kind:      e.Media.Kind,
		MediaURL:  mediaURL(e, cfg),
		CreatedAt: e.CreatedAt,
		Status:    ranking.StatusFor(e, viewerRole, judgeNames(cfg)),
	}

	if total, ok := e.Marks.Total(); ok {
		v.Total = &total
	}

	if judge, ok := models.JudgeForRole(viewerRole); ok {
		v.MyMark = e.Marks.Get(judge)
		if e.Marks.FullyJudged() {
			m := e.Marks
			v.Marks = &m
		}
	}

	return v
}

// mediaURL resolves the playable URL from the typed media reference.
// No string sniffing: the variant was decided at creation time. Local
// blobs are served by this service, prefixed with the public base URL
// when one is configured.
func mediaURL(e models.Entry, cfg cliparse.Config) string {
	switch {
	case e.Media.Local():
		return cfg.BasePublicURL + "/entries/" + url.PathEscape(e.ID) + "/media"
	case e.Media.RemoteID != "":
		return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(e.Media.RemoteID)
	default:
		return e.Media.RemoteURL
	}
}
