package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
	"github.com/lexgo-ia/lexgo/internal/uploader"
)

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		prefix     = flag.String("prefix", "", "Storage key prefix (required)")
		gzipJSONL  = flag.Bool("gzip-jsonl", false, "Also upload a gzip companion for every .jsonl file")
	)
	flag.Parse()

	if *prefix == "" {
		log.Fatal("usage: upload -prefix <key-prefix> [-gzip-jsonl] <path-or-glob> [...]")
	}
	if flag.NArg() == 0 {
		log.Fatal("no paths given")
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
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

	files := uploader.ExpandPaths(flag.Args())
	if len(files) == 0 {
		log.Fatal("no files matched the given paths")
	}

	u := uploader.New(infra.Storage, *prefix, *gzipJSONL, infra.Logger)

	manifest, tally, err := u.Run(ctx, files)
	if err != nil {
		log.Fatalf("upload batch failed: %v", err)
	}

	for _, entry := range manifest.Entries {
		fmt.Printf("[OK] %s\n", entry.URI)
	}
	fmt.Printf("Subidos: %d, descartados: %d\n", tally.Uploaded, tally.Skipped)
	fmt.Printf("Manifiesto: %s\n", manifest.ID)
}
