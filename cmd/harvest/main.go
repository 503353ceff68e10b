package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/harvest"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
)

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		listingURL = flag.String("listing", "", "Listing page URL (overrides config)")
		prefix     = flag.String("prefix", "", "Storage key prefix (overrides config)")
		listingCSV = flag.String("csv", "", "Local listing CSV path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *listingURL == "" {
		*listingURL = cfg.Harvest.ListingURL
	}
	if *prefix == "" {
		*prefix = cfg.Harvest.Prefix
	}
	if *listingCSV == "" {
		*listingCSV = cfg.Harvest.ListingCSV
	}
	if *listingURL == "" {
		log.Fatal("listing URL required: set -listing, harvest.listing_url, or LEXGO_HARVEST_LISTING_URL")
	}

	infra, err := infrastructure.NewWithStorage(cfg)
	if err != nil {
		log.Fatalf("infrastructure init failed: %v", err)
	}
	stop := infra.Lifecycle.NotifySignals()
	defer stop()
	ctx := infra.Lifecycle.Context()

	if err := infra.Storage.EnsureContainer(ctx); err != nil {
		log.Fatalf("ensure container: %v", err)
	}

	h := harvest.New(infra.Storage, *prefix, infra.Logger)

	records, err := h.FetchListing(ctx, *listingURL)
	if err != nil {
		log.Fatalf("fetch listing: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("listing yielded no records")
	}

	if err := harvest.WriteListingCSV(*listingCSV, records); err != nil {
		log.Fatalf("write listing csv: %v", err)
	}

	tally := h.Process(ctx, records)

	fmt.Printf("Listado guardado en %s (%d registros)\n", *listingCSV, len(records))
	fmt.Printf("Procesados: %d, subidos: %d, ya archivados: %d, descartados: %d\n",
		tally.Processed, tally.Uploaded, tally.Existing, tally.Skipped)
}
