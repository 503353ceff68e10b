package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/dataset"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
	"github.com/lexgo-ia/lexgo/internal/labels"
	"github.com/lexgo-ia/lexgo/pkg/extract"
)

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		docsDir    = flag.String("docs", "", "Directory of labeled PDFs (overrides config)")
		outDir     = flag.String("out", "", "Output directory for dataset CSVs (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *docsDir == "" {
		*docsDir = cfg.Paths.DocsDir
	}
	if *outDir == "" {
		*outDir = filepath.Join(cfg.Paths.DataDir, "processed")
	}

	infra := infrastructure.New(cfg)

	store, err := labels.Open(cfg.Paths.LabelsFile(), infra.Logger)
	if err != nil {
		log.Fatalf("open label table: %v", err)
	}

	extractor := extract.NewPDF()
	lookup := func(filename string) (string, error) {
		f, err := os.Open(filepath.Join(*docsDir, filename))
		if err != nil {
			return "", err
		}
		defer f.Close()
		return extractor.Text(f)
	}

	builder := dataset.New(infra.Logger)
	builder.Seed = cfg.Training.Seed
	builder.TestFraction = cfg.Training.TestFraction

	ds, err := builder.Build(store.Documents(), lookup)
	if err != nil {
		log.Fatalf("dataset build failed: %v", err)
	}

	if err := dataset.WriteArtifacts(*outDir, ds); err != nil {
		log.Fatalf("write dataset: %v", err)
	}

	fmt.Printf("Dataset generado en %s\n", *outDir)
	fmt.Printf("  documentos: %d (descartados: %d)\n", ds.Stats.Documents, ds.Stats.Skipped)
	fmt.Printf("  train: %d, test: %d\n", len(ds.Train), len(ds.Test))
	fmt.Printf("  longitud media: %.0f caracteres, %.0f palabras\n",
		ds.Stats.MeanCharLength, ds.Stats.MeanWordCount)
	fmt.Println("  distribución por etapa:")
	for stage, count := range ds.Stats.ClassCounts {
		fmt.Printf("    %-18s %d\n", stage, count)
	}
	if ds.Stats.Imbalanced() {
		fmt.Printf("  advertencia: desbalance de clases %.1f:1\n", ds.Stats.ImbalanceRatio)
	}
}
