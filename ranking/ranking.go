// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielhkuo/stage-score/models"
)

// Status labels
const (
	StatusNotJudged = "Not judged yet"
	StatusWaiting   = "Waiting for other judge"
	StatusPartial   = "Partial judgement"
)

// JudgeNames carries the display names used in judge-facing status text.
type JudgeNames struct {
	A string
	B string
}

// Rank returns a new slice sorted for display:
//
//  1. Fully-judged entries first, higher total first, ties by
//     case-insensitive name.
//  2. Everything else (zero or one mark - no distinction between them)
//     by case-insensitive name.
//
// The input is never mutated. Sorting is stable, so entries with equal
// names and totals keep their original relative order.
func Rank(entries []models.Entry) []models.Entry {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)

	// Collators are not safe for concurrent use; one per call.
	col := newCollator()

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ta, bothA := a.Marks.Total()
		tb, bothB := b.Marks.Total()

		if bothA != bothB {
			return bothA
		}
		if bothA && bothB && ta != tb {
			return ta > tb
		}
		return col.CompareString(a.Name, b.Name) < 0
	})

	return sorted
}

// CompareNames is the tie-break comparison used by Rank: locale-aware and
// case-insensitive (accent- and case-folding, "loose" sensitivity).
func CompareNames(a, b string) int {
	return newCollator().CompareString(a, b)
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Loose)
}

// StatusFor derives the human-readable judging status of an entry as seen
// by the given viewer role. Judges see the per-judge breakdown once both
// marks are in, and see their own pending state; public and admin viewers
// see only the aggregate. A judge whose own mark is unset is told
// "Not judged yet" even when the other judge has already scored - the
// other judge's pending mark must not leak.
func StatusFor(e models.Entry, viewerRole string, names JudgeNames) string {
	m := e.Marks

	if judge, ok := models.JudgeForRole(viewerRole); ok {
		mine := m.Get(judge)
		other := m.Get(otherJudge(judge))
		switch {
		case mine == nil:
			return StatusNotJudged
		case other == nil:
			return StatusWaiting
		default:
			return fmt.Sprintf("Total: %d/%d (%s: %d, %s: %d)",
				*m.JudgeA+*m.JudgeB, models.MaxTotal,
				names.A, *m.JudgeA, names.B, *m.JudgeB)
		}
	}

	switch {
	case m.Unjudged():
		return StatusNotJudged
	case !m.FullyJudged():
		return StatusPartial
	default:
		total, _ := m.Total()
		return fmt.Sprintf("Total: %d/%d", total, models.MaxTotal)
	}
}

func otherJudge(j models.Judge) models.Judge {
	if j == models.JudgeA {
		return models.JudgeB
	}
	return models.JudgeA
}
