package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brassloom/brassloom/internal/model"
)

const grantsGovFixture = `{
  "opportunities": [
    {
      "opportunityNumber": "PD-26-1234",
      "title": "HBCU STEM Infrastructure Grant",
      "agency": "National Science Foundation",
      "openDate": "%s",
      "closeDate": "%s",
      "url": "https://www.grants.gov/search-results-detail/1234",
      "synopsis": "Supports research infrastructure at HBCUs.",
      "cfdaList": [{"cfdaNumber": "47.076"}],
      "eligibility": [{"eligibilityName": "Historically Black Colleges"}]
    },
    {
      "opportunityId": 98765,
      "title": "Old Posting",
      "agency": "NIH",
      "openDate": "2020-01-01",
      "url": "https://www.grants.gov/search-results-detail/98765"
    }
  ]
}`

func TestGrantsGovFetchParsesAndWindows(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	closing := time.Now().AddDate(0, 0, 20).Format("2006-01-02")

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("keyword")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fmt.Sprintf(grantsGovFixture, recent, closing)))
	}))
	defer srv.Close()

	f := &GrantsGovFetcher{BaseURL: srv.URL, Keywords: []string{"HBCU", "MSI"}}
	records, err := f.Fetch(context.Background(), 60)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if gotQuery != `"HBCU" OR "MSI"` {
		t.Fatalf("keyword query = %q", gotQuery)
	}

	// The 2020 posting falls outside the 60-day window.
	if len(records) != 1 {
		t.Fatalf("expected 1 record within window, got %d", len(records))
	}
	rec := records[0]
	if rec.NativeID != "PD-26-1234" {
		t.Fatalf("native id = %q, want opportunityNumber", rec.NativeID)
	}
	if rec.Title != "HBCU STEM Infrastructure Grant" || rec.Agency != "National Science Foundation" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Close != closing || rec.Posted != recent {
		t.Fatalf("dates not mapped: posted=%q close=%q", rec.Posted, rec.Close)
	}
	if rec.Extra["assistance_listing"] != "47.076" {
		t.Fatalf("assistance_listing = %v", rec.Extra["assistance_listing"])
	}
	if rec.Extra["eligibility"] != "Historically Black Colleges" {
		t.Fatalf("eligibility = %v", rec.Extra["eligibility"])
	}
}

func TestGrantsGovFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := &GrantsGovFetcher{BaseURL: srv.URL}
	if _, err := f.Fetch(context.Background(), 60); err == nil {
		t.Fatalf("expected error on 502 response")
	}
}

func TestGrantsGovFetchMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	f := &GrantsGovFetcher{BaseURL: srv.URL}
	if _, err := f.Fetch(context.Background(), 60); err == nil {
		t.Fatalf("expected error on malformed payload")
	}
}

func TestGrantsGovSource(t *testing.T) {
	f := &GrantsGovFetcher{}
	if f.Source() != model.SourceGrantsGov {
		t.Fatalf("source = %s", f.Source())
	}
}

func TestPostedWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		posted string
		want   bool
	}{
		{"2026-02-25", true},
		{"2025-01-01", false},
		{"", true},        // missing date: keep
		{"not-a-date", true}, // unparsable: keep, normalizer's problem
		{"2026-02-25T00:00:00", true},
	}
	for _, c := range cases {
		if got := postedWithinWindow(c.posted, 30, now); got != c.want {
			t.Fatalf("postedWithinWindow(%q) = %v, want %v", c.posted, got, c.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("abcdef", 4); got != "abcd" {
		t.Fatalf("truncateRunes = %q, want abcd", got)
	}
	if got := truncateRunes("short", 100); got != "short" {
		t.Fatalf("truncateRunes should keep short strings: %q", got)
	}
}
