package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/brassloom/brassloom/internal/model"
)

const murepLandingURL = "https://www.nasa.gov/learning-resources/minority-university-research-education-project/murep-opportunities-and-resources/"

// MUREPFetcher scrapes the NASA MUREP opportunities landing page. There is no
// feed or API for MUREP, so this is a best-effort HTML pass; the page layout
// changes occasionally and a zero-record result is acceptable.
type MUREPFetcher struct {
	// PageURL overrides the landing page; used in tests.
	PageURL string
	// AllowedDomains restricts the collector; empty means nasa.gov.
	AllowedDomains []string
}

func (m *MUREPFetcher) Name() string {
	return "nasa_murep_page"
}

func (m *MUREPFetcher) Source() model.Source {
	return model.SourceNASAMUREP
}

func (m *MUREPFetcher) Fetch(ctx context.Context, _ int) ([]RawRecord, error) {
	log.Println("fetch NASA MUREP landing page...")

	pageURL := m.PageURL
	if pageURL == "" {
		pageURL = murepLandingURL
	}
	domains := m.AllowedDomains
	if len(domains) == 0 && m.PageURL == "" {
		domains = []string{"www.nasa.gov", "nasa.gov"}
	}

	opts := []colly.CollectorOption{
		colly.UserAgent("BrassLoomBot/1.0"),
	}
	if len(domains) > 0 {
		opts = append(opts, colly.AllowedDomains(domains...))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(15 * time.Second)
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < 15*time.Second {
			c.SetRequestTimeout(remaining)
		}
	}

	results := make([]RawRecord, 0, 32)
	seen := make(map[string]struct{})

	// Opportunity links sit inside the content area as anchored headings or
	// list entries; anything pointing at nspires or a solicitation page counts.
	c.OnHTML("main a[href], article a[href]", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title == "" || len(title) < 8 {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || !looksLikeMUREPOpportunity(link, title) {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}

		summary := strings.TrimSpace(e.DOM.Parent().Text())
		if summary == title {
			summary = ""
		}

		results = append(results, RawRecord{
			NativeID: link,
			Title:    title,
			Agency:   "NASA MUREP",
			Link:     link,
			Summary:  summary,
		})
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}
	c.Wait()

	if len(results) == 0 {
		log.Println("murep: no opportunity links found")
	}
	return results, nil
}

// looksLikeMUREPOpportunity filters navigation chrome out of the anchor soup.
func looksLikeMUREPOpportunity(link, title string) bool {
	l := strings.ToLower(link)
	t := strings.ToLower(title)
	if strings.Contains(l, "nspires") || strings.Contains(l, "solicitation") {
		return true
	}
	for _, marker := range []string{"opportunit", "fellowship", "scholar", "award", "grant", "internship"} {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
