package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/brassloom/brassloom/internal/config"
	"github.com/brassloom/brassloom/internal/output"
	"github.com/brassloom/brassloom/internal/storage"
)

// Imports a harvested dataset into the pre-award proposals tracker. By
// default only items matching the configured keywords are imported; -all
// imports everything, -filter restricts to an ad-hoc keyword list.
func main() {
	cfg := config.Load()

	ops := flag.String("ops", "opportunities.json", "harvested dataset to import")
	filterFlag := flag.String("filter", "", "comma-separated keywords restricting the import")
	all := flag.Bool("all", false, "import every item regardless of keywords")
	flag.Parse()

	if cfg.PostgresDSN == "" {
		log.Fatal("BRASSLOOM_POSTGRES_DSN is required for sync")
	}

	syncCfg, err := config.LoadSyncConfig(cfg.SyncConfigPath)
	if err != nil {
		log.Fatalf("load sync config failed: %v", err)
	}

	records, err := output.ReadDataset(*ops)
	if err != nil {
		log.Fatalf("read dataset failed: %v", err)
	}

	var filter []string
	switch {
	case *all:
		filter = nil
	case *filterFlag != "":
		filter = strings.Split(*filterFlag, ",")
	default:
		filter = syncCfg.Keywords
	}

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	added, err := store.ImportOpportunities(records, filter, syncCfg, time.Now())
	if err != nil {
		log.Fatalf("import failed after %d proposals: %v", added, err)
	}
	log.Printf("imported %d opportunities from %s", added, *ops)
}
