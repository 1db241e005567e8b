// Package harvester orchestrates the pipeline: fetch every source, normalize,
// deduplicate, score, and sort into the final ranked dataset.
package harvester

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/brassloom/brassloom/internal/collector"
	"github.com/brassloom/brassloom/internal/dedup"
	"github.com/brassloom/brassloom/internal/model"
	"github.com/brassloom/brassloom/internal/normalizer"
	"github.com/brassloom/brassloom/internal/scorer"
)

const defaultFetchTimeout = 30 * time.Second

// SourceStats counts one source's contribution to a run.
type SourceStats struct {
	Name    string       `json:"name"`
	Source  model.Source `json:"source"`
	Fetched int          `json:"fetched"`
	Failed  bool         `json:"failed"`
}

// Stats summarizes a run for observability.
type Stats struct {
	Sources           []SourceStats `json:"sources"`
	FailedSources     int           `json:"failed_sources"`
	DroppedUnparsable int           `json:"dropped_unparsable"`
	DroppedDuplicates int           `json:"dropped_duplicates"`
	Emitted           int           `json:"emitted"`
}

// Harvester runs the pipeline over a fixed set of fetchers. Fetcher order is
// canonical: it decides first-seen precedence in deduplication, so register
// the REST source before the feeds.
type Harvester struct {
	fetchers     []collector.Fetcher
	keywords     []string
	windowDays   int
	fetchTimeout time.Duration
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithFetchTimeout sets the uniform per-source fetch timeout. Default 30s.
func WithFetchTimeout(d time.Duration) Option {
	return func(h *Harvester) { h.fetchTimeout = d }
}

func New(fetchers []collector.Fetcher, keywords []string, windowDays int, opts ...Option) *Harvester {
	h := &Harvester{
		fetchers:     fetchers,
		keywords:     keywords,
		windowDays:   windowDays,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes one pipeline pass. Fetches are concurrent but land in
// per-source slots, so the canonical source order is re-imposed at the join
// barrier and the output is deterministic regardless of completion timing.
// A failed source contributes zero records; only the stats show it.
func (h *Harvester) Run(ctx context.Context, now time.Time) ([]model.Opportunity, Stats) {
	log.Printf("start harvest: %d sources, window=%dd", len(h.fetchers), h.windowDays)

	type slot struct {
		records []collector.RawRecord
		err     error
	}
	slots := make([]slot, len(h.fetchers))

	var wg sync.WaitGroup
	for i, f := range h.fetchers {
		wg.Add(1)
		go func(i int, f collector.Fetcher) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, h.fetchTimeout)
			defer cancel()
			records, err := f.Fetch(fctx, h.windowDays)
			slots[i] = slot{records: records, err: err}
		}(i, f)
	}
	wg.Wait()

	stats := Stats{Sources: make([]SourceStats, 0, len(h.fetchers))}
	normalized := make([]model.Opportunity, 0, 128)

	for i, f := range h.fetchers {
		s := SourceStats{Name: f.Name(), Source: f.Source()}
		if slots[i].err != nil {
			log.Printf("warn: fetch %s failed: %v", f.Name(), slots[i].err)
			s.Failed = true
			stats.FailedSources++
		}
		s.Fetched = len(slots[i].records)
		stats.Sources = append(stats.Sources, s)

		for _, raw := range slots[i].records {
			opp, ok := normalizer.Normalize(raw, f.Source())
			if !ok {
				stats.DroppedUnparsable++
				continue
			}
			normalized = append(normalized, opp)
		}
	}

	deduped := dedup.Dedupe(normalized)
	stats.DroppedDuplicates = len(normalized) - len(deduped)

	scored := make([]model.Opportunity, 0, len(deduped))
	for _, opp := range deduped {
		scored = append(scored, scorer.Score(opp, h.keywords, now))
	}

	sortRanked(scored)
	stats.Emitted = len(scored)

	log.Printf("harvest done: emitted=%d unparsable=%d duplicates=%d failed_sources=%d",
		stats.Emitted, stats.DroppedUnparsable, stats.DroppedDuplicates, stats.FailedSources)
	return scored, stats
}

// sortRanked orders by score descending; ties break by close_date ascending
// (absent dates after any present date), then title ascending.
func sortRanked(records []model.Opportunity) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.CloseDate != nil && b.CloseDate != nil:
			if !a.CloseDate.Equal(*b.CloseDate) {
				return a.CloseDate.Before(*b.CloseDate)
			}
		case a.CloseDate != nil:
			return true
		case b.CloseDate != nil:
			return false
		}
		return a.Title < b.Title
	})
}
