package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/brassloom/brassloom/internal/model"
)

const (
	nihGuideFeedURL   = "https://grants.nih.gov/grants/guide/rss/nih-guide.xml"
	nsfFundingFeedURL = "https://www.nsf.gov/rss/rss_www_funding.xml"
)

// RSSFetcher pulls one agency feed. The NIH Guide and NSF funding feeds are
// firehoses, so entries are prefiltered against the configured keywords;
// precise scoring happens downstream against the surviving records.
type RSSFetcher struct {
	name     string
	source   model.Source
	agency   string
	feedURL  string
	keywords []string
	parser   *gofeed.Parser
}

// NewNIHGuideFetcher reads the NIH Guide FOA feed.
func NewNIHGuideFetcher(keywords []string) *RSSFetcher {
	return NewRSSFetcher("nih_guide_rss", model.SourceNIHGuide, "NIH Guide", nihGuideFeedURL, keywords)
}

// NewNSFFundingFetcher reads the NSF funding feed.
func NewNSFFundingFetcher(keywords []string) *RSSFetcher {
	return NewRSSFetcher("nsf_funding_rss", model.SourceNSFFunding, "NSF Funding", nsfFundingFeedURL, keywords)
}

func NewRSSFetcher(name string, source model.Source, agency, feedURL string, keywords []string) *RSSFetcher {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &RSSFetcher{
		name:     name,
		source:   source,
		agency:   agency,
		feedURL:  feedURL,
		keywords: lowered,
		parser:   gofeed.NewParser(),
	}
}

func (r *RSSFetcher) Name() string {
	return r.name
}

func (r *RSSFetcher) Source() model.Source {
	return r.source
}

// FeedURL reports the configured feed address; useful for logging and tests.
func (r *RSSFetcher) FeedURL() string {
	return r.feedURL
}

// WithFeedURL swaps the feed address; used in tests against httptest servers.
func (r *RSSFetcher) WithFeedURL(u string) *RSSFetcher {
	r.feedURL = u
	return r
}

// Fetch reads the whole feed; RSS sources carry no query window, filtering
// happens against the keyword list instead.
func (r *RSSFetcher) Fetch(ctx context.Context, _ int) ([]RawRecord, error) {
	log.Printf("fetch %s feed...", r.name)

	feed, err := r.parser.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed: %w", r.name, err)
	}

	out := make([]RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if !r.matchesKeywords(item) {
			continue
		}

		// gofeed already handles the zoo of RSS date formats; fall back to
		// the raw text when it could not, and let the normalizer try.
		posted := item.Published
		if item.PublishedParsed != nil {
			posted = item.PublishedParsed.UTC().Format("2006-01-02")
		}

		nativeID := item.GUID
		if nativeID == "" {
			nativeID = item.Link
		}

		out = append(out, RawRecord{
			NativeID: nativeID,
			Title:    item.Title,
			Agency:   r.agency,
			Link:     item.Link,
			Posted:   posted,
			Summary:  item.Description,
			Extra: map[string]any{
				"tags": item.Categories,
			},
		})
	}

	if len(out) == 0 {
		log.Printf("%s: no entries matched keywords", r.name)
	}
	return out, nil
}

func (r *RSSFetcher) matchesKeywords(item *gofeed.Item) bool {
	if len(r.keywords) == 0 {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Description)
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
