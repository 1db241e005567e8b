package dedup

import (
	"testing"

	"github.com/brassloom/brassloom/internal/model"
)

func closeDate() *model.Date {
	d := model.NewDate(2026, 4, 15)
	return &d
}

func TestDedupeByNativeID(t *testing.T) {
	records := []model.Opportunity{
		{ID: "grants_gov:PD-26-01", NativeID: "PD-26-01", Title: "STEM Grant", Source: model.SourceGrantsGov},
		{ID: "nsf_funding:PD-26-01", NativeID: "PD-26-01", Title: "STEM Grant (NSF listing)", Source: model.SourceNSFFunding, CloseDate: closeDate()},
	}

	out := Dedupe(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 record after dedupe, got %d", len(out))
	}
	// The feed listing carries a close_date, so it survives.
	if out[0].Source != model.SourceNSFFunding {
		t.Fatalf("survivor source = %s, want nsf_funding (richer record)", out[0].Source)
	}
}

func TestDedupeByTitleAgencyFallback(t *testing.T) {
	records := []model.Opportunity{
		{NativeID: "a-1", Title: "Broadening  Participation\tAward", Agency: "NSF", Summary: "short"},
		{NativeID: "b-2", Title: "broadening participation award", Agency: "nsf", Summary: "a much longer synopsis of the program"},
	}

	out := Dedupe(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 record after title+agency dedupe, got %d", len(out))
	}
	if out[0].NativeID != "b-2" {
		t.Fatalf("survivor = %s, want b-2 (longer summary)", out[0].NativeID)
	}
}

func TestDedupeTieKeepsFirstSeen(t *testing.T) {
	records := []model.Opportunity{
		{NativeID: "x", Title: "Equal Records", Agency: "NIH", Summary: "same"},
		{NativeID: "x", Title: "Equal Records", Agency: "NIH", Summary: "copy"},
	}

	out := Dedupe(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Summary != "same" {
		t.Fatalf("survivor summary = %q, want first-seen record", out[0].Summary)
	}
}

func TestDedupeDistinctRecordsSurvive(t *testing.T) {
	records := []model.Opportunity{
		{NativeID: "1", Title: "Grant A", Agency: "NSF"},
		{NativeID: "2", Title: "Grant B", Agency: "NSF"},
		{NativeID: "3", Title: "Grant A", Agency: "NIH"}, // same title, different agency
	}

	out := Dedupe(records)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	for i, want := range []string{"1", "2", "3"} {
		if out[i].NativeID != want {
			t.Fatalf("out[%d] = %s, want %s (input order preserved)", i, out[i].NativeID, want)
		}
	}
}

func TestDedupeEmptyNativeIDNotAKey(t *testing.T) {
	records := []model.Opportunity{
		{Title: "Grant A", Agency: "NSF"},
		{Title: "Grant B", Agency: "NIH"},
	}

	out := Dedupe(records)
	if len(out) != 2 {
		t.Fatalf("records without native IDs must not collide, got %d", len(out))
	}
}
