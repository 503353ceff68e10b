package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lexgo-ia/lexgo/internal/analysis"
	"github.com/lexgo-ia/lexgo/internal/classifier"
	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
	"github.com/lexgo-ia/lexgo/pkg/extract"
)

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		modelsDir  = flag.String("models", "", "Model artifacts directory (overrides config)")
		resultsDir = flag.String("results", "", "Results directory (overrides config)")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: analyze [-config path] [-models dir] [-results dir] <pdf> [<pdf>...]")
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *modelsDir == "" {
		*modelsDir = cfg.Paths.ModelsDir
	}
	if *resultsDir == "" {
		*resultsDir = cfg.Paths.ResultsDir
	}

	infra := infrastructure.New(cfg)

	model, err := classifier.Load(*modelsDir)
	if err != nil {
		log.Fatalf("load model: %v", err)
	}

	analyzer := analysis.New(extract.NewPDF(), model, *resultsDir, infra.Logger)

	failed := 0
	for _, path := range flag.Args() {
		result, err := analyzer.Analyze(path)
		if err != nil {
			failed++
			infra.Logger.Error("analysis failed", "file", path, "error", err)
			continue
		}

		fmt.Printf("%s\n", result.File)
		fmt.Printf("  etapa: %s (%.2f)\n", result.Classification.Stage, result.Classification.Confidence)
		fmt.Printf("  eventos: %d\n", len(result.Timeline))
		fmt.Printf("  resultado: %s\n", analysis.ResultPath(*resultsDir, path))
	}

	if failed > 0 {
		log.Fatalf("%d of %d documents failed", failed, flag.NArg())
	}
}
