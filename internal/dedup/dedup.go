// Package dedup collapses opportunities that reached us through more than one
// source into a single surviving record.
package dedup

import (
	"strings"

	"github.com/brassloom/brassloom/internal/model"
)

// Dedupe removes duplicates from records, preserving input order for the
// survivors. Two records are duplicates when they share a native source
// identifier, or failing that, when their normalized title and agency match.
// The survivor is whichever record carries more populated fields; ties keep
// the first-seen record, which is why callers must pass records in canonical
// source order.
func Dedupe(records []model.Opportunity) []model.Opportunity {
	out := make([]model.Opportunity, 0, len(records))
	byNativeID := make(map[string]int)
	byTitleAgency := make(map[string]int)

	for _, rec := range records {
		idx := -1
		if rec.NativeID != "" {
			if i, ok := byNativeID[rec.NativeID]; ok {
				idx = i
			}
		}
		key := titleAgencyKey(rec)
		if idx < 0 {
			if i, ok := byTitleAgency[key]; ok {
				idx = i
			}
		}

		if idx < 0 {
			out = append(out, rec)
			idx = len(out) - 1
		} else if richer(rec, out[idx]) {
			out[idx] = rec
		}

		if rec.NativeID != "" {
			if _, ok := byNativeID[rec.NativeID]; !ok {
				byNativeID[rec.NativeID] = idx
			}
		}
		if _, ok := byTitleAgency[key]; !ok {
			byTitleAgency[key] = idx
		}
	}
	return out
}

// richer reports whether a carries strictly more signal than b: a present
// close_date wins, then the longer summary. Equal signal keeps b (first seen).
func richer(a, b model.Opportunity) bool {
	if (a.CloseDate != nil) != (b.CloseDate != nil) {
		return a.CloseDate != nil
	}
	return len(a.Summary) > len(b.Summary)
}

// titleAgencyKey is the fallback duplicate key: case-insensitive title and
// agency with runs of whitespace collapsed.
func titleAgencyKey(rec model.Opportunity) string {
	return collapseSpace(strings.ToLower(rec.Title)) + "\x00" + collapseSpace(strings.ToLower(rec.Agency))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
