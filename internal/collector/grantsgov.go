package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/model"
)

const (
	grantsGovBaseURL       = "https://www.grants.gov/api/v2/search/search2"
	grantsGovMaxBodyBytes  = 4 << 20 // 4MB
	grantsGovSynopsisLimit = 1500
)

// GrantsGovFetcher queries the Grants.gov Search2 API (no API key required).
type GrantsGovFetcher struct {
	// BaseURL overrides the Search2 endpoint; used in tests.
	BaseURL string
	// Keywords are OR-joined into the search query so the API does a first
	// relevance pass before our own scoring.
	Keywords []string
	Client   *http.Client
}

func (g *GrantsGovFetcher) Name() string {
	return "grants_gov_search2"
}

func (g *GrantsGovFetcher) Source() model.Source {
	return model.SourceGrantsGov
}

type grantsGovResponse struct {
	Opportunities []grantsGovOpportunity `json:"opportunities"`
}

type grantsGovOpportunity struct {
	OpportunityID     json.Number `json:"opportunityId"`
	OpportunityNumber string      `json:"opportunityNumber"`
	Title             string      `json:"title"`
	Agency            string      `json:"agency"`
	OpenDate          string      `json:"openDate"`
	CloseDate         string      `json:"closeDate"`
	URL               string      `json:"url"`
	Synopsis          string      `json:"synopsis"`
	Category          []string    `json:"category"`
	CFDAList          []struct {
		CFDANumber string `json:"cfdaNumber"`
	} `json:"cfdaList"`
	Eligibility []struct {
		EligibilityName string `json:"eligibilityName"`
	} `json:"eligibility"`
}

func (g *GrantsGovFetcher) Fetch(ctx context.Context, windowDays int) ([]RawRecord, error) {
	log.Println("fetch Grants.gov Search2...")

	base := g.BaseURL
	if base == "" {
		base = grantsGovBaseURL
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	quoted := make([]string, 0, len(g.Keywords))
	for _, kw := range g.Keywords {
		quoted = append(quoted, `"`+kw+`"`)
	}
	params := url.Values{
		"startRecordNum": {"0"},
		"oppStatuses":    {"forecasted|posted"},
		"sortBy":         {"openDate|desc"},
		"keyword":        {strings.Join(quoted, " OR ")},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("grantsgov: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grantsgov: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("grantsgov: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, grantsGovMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("grantsgov: read response: %w", err)
	}

	var payload grantsGovResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("grantsgov: unmarshal response: %w", err)
	}

	now := time.Now()
	out := make([]RawRecord, 0, len(payload.Opportunities))
	for _, opp := range payload.Opportunities {
		if !postedWithinWindow(opp.OpenDate, windowDays, now) {
			continue
		}

		nativeID := opp.OpportunityNumber
		if nativeID == "" {
			nativeID = opp.OpportunityID.String()
		}

		eligibility := make([]string, 0, len(opp.Eligibility))
		for _, e := range opp.Eligibility {
			if e.EligibilityName != "" {
				eligibility = append(eligibility, e.EligibilityName)
			}
		}
		cfda := ""
		if len(opp.CFDAList) > 0 {
			cfda = opp.CFDAList[0].CFDANumber
		}

		out = append(out, RawRecord{
			NativeID: nativeID,
			Title:    opp.Title,
			Agency:   opp.Agency,
			Link:     opp.URL,
			Posted:   opp.OpenDate,
			Close:    opp.CloseDate,
			Summary:  truncateRunes(opp.Synopsis, grantsGovSynopsisLimit),
			Extra: map[string]any{
				"assistance_listing": cfda,
				"eligibility":        strings.Join(eligibility, ", "),
				"tags":               opp.Category,
			},
		})
	}

	if len(out) == 0 {
		log.Println("grantsgov: no opportunities within window")
	}
	return out, nil
}

// postedWithinWindow keeps records posted at most windowDays ago. A missing or
// unparsable date keeps the record; the normalizer deals with it later.
func postedWithinWindow(posted string, windowDays int, now time.Time) bool {
	if posted == "" || windowDays <= 0 {
		return true
	}
	if len(posted) > 10 {
		posted = posted[:10]
	}
	t, err := time.Parse("2006-01-02", posted)
	if err != nil {
		return true
	}
	return now.Sub(t) <= time.Duration(windowDays)*24*time.Hour
}

func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
