package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/collector"
	"github.com/brassloom/brassloom/internal/config"
	"github.com/brassloom/brassloom/internal/harvester"
	"github.com/brassloom/brassloom/internal/output"
	"github.com/brassloom/brassloom/internal/storage"
)

// Single-shot harvest run: fetch all sources, rank, write the dataset.
// Periodic runs are an external scheduler's job (cron invoking this binary).
func main() {
	cfg := config.Load()

	out := flag.String("out", "opportunities.json", "output dataset path")
	days := flag.Int("days", cfg.WindowDays, "posted/closing window in days")
	keywordsFlag := flag.String("keywords", strings.Join(config.DefaultKeywords, ","), "comma-separated keyword list")
	flag.Parse()

	keywords := make([]string, 0)
	for _, kw := range strings.Split(*keywordsFlag, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	// Canonical source order: the REST search first, then the feeds. The
	// deduplicator's first-seen tie-break depends on this.
	fetchers := []collector.Fetcher{
		&collector.GrantsGovFetcher{Keywords: keywords},
		collector.NewNIHGuideFetcher(keywords),
		collector.NewNSFFundingFetcher(keywords),
	}
	if cfg.EnableMUREP {
		fetchers = append(fetchers, &collector.MUREPFetcher{})
	}

	h := harvester.New(fetchers, keywords, *days, harvester.WithFetchTimeout(cfg.FetchTimeout))
	records, stats := h.Run(context.Background(), time.Now())

	if err := output.WriteDataset(*out, records); err != nil {
		log.Fatalf("write dataset failed: %v", err)
	}
	log.Printf("wrote %d items to %s", len(records), *out)

	// Optional archive: only when a DSN is configured. An archive failure
	// does not invalidate the dataset already written.
	if cfg.PostgresDSN != "" {
		store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			log.Printf("warn: init store failed, skipping archive: %v", err)
			return
		}
		if err := store.SaveBatch(records); err != nil {
			log.Printf("warn: archive batch failed: %v", err)
			return
		}
		log.Printf("archived %d items", len(records))
	}

	for _, s := range stats.Sources {
		status := "ok"
		if s.Failed {
			status = "failed"
		}
		log.Printf("source %s (%s): fetched=%d status=%s", s.Name, s.Source, s.Fetched, status)
	}
}
