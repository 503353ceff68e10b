package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lexgo-ia/lexgo/internal/classifier"
	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/dataset"
	"github.com/lexgo-ia/lexgo/internal/stages"
	"github.com/lexgo-ia/lexgo/pkg/extract"
)

func main() {
	var (
		configPath  = flag.String("config", config.BaseConfigFile, "Config file path")
		modelsDir   = flag.String("models", "", "Model artifacts directory (overrides config)")
		datasetPath = flag.String("dataset", "", "Test CSV to evaluate (default <data>/processed/test.csv)")
		pdfPath     = flag.String("pdf", "", "Classify a single PDF instead of evaluating")
		text        = flag.String("text", "", "Classify a literal text instead of evaluating")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *modelsDir == "" {
		*modelsDir = cfg.Paths.ModelsDir
	}
	if *datasetPath == "" {
		*datasetPath = filepath.Join(cfg.Paths.DataDir, "processed", dataset.TestFile)
	}

	model, err := classifier.Load(*modelsDir)
	if err != nil {
		log.Fatalf("load model: %v", err)
	}
	fmt.Printf("Modelo cargado: %d features, clases %v\n", len(model.Vocabulary()), model.Classes())

	switch {
	case *pdfPath != "":
		classifyPDF(model, *pdfPath)
	case *text != "":
		printPrediction(model.Predict(*text))
	default:
		evaluate(model, *datasetPath)
	}
}

func classifyPDF(model *classifier.Model, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open pdf: %v", err)
	}
	defer f.Close()

	extracted, err := extract.NewPDF().Text(f)
	if err != nil {
		log.Fatalf("extract %s: %v", filepath.Base(path), err)
	}
	fmt.Printf("Texto extraído: %d caracteres\n", len(extracted))

	printPrediction(model.Predict(extracted))
}

func printPrediction(pred classifier.Prediction) {
	fmt.Printf("\nEtapa predicha: %s\n\nProbabilidades:\n", pred.Stage)

	ordered := make([]stages.Stage, 0, len(pred.Probs))
	for stage := range pred.Probs {
		ordered = append(ordered, stage)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if pred.Probs[ordered[i]] != pred.Probs[ordered[j]] {
			return pred.Probs[ordered[i]] > pred.Probs[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	for _, stage := range ordered {
		p := pred.Probs[stage]
		bar := strings.Repeat("#", int(p*30))
		fmt.Printf("  %-18s %6.2f%% %s\n", stage, p*100, bar)
	}
}

func evaluate(model *classifier.Model, path string) {
	examples, err := dataset.ReadExamples(path)
	if err != nil {
		log.Fatalf("load test set: %v", err)
	}
	if len(examples) == 0 {
		log.Fatalf("test set %s is empty", path)
	}

	fmt.Printf("\nEvaluando %d documentos de test...\n\n", len(examples))

	texts := make([]string, len(examples))
	y := make([]stages.Stage, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
		y[i] = ex.Stage

		pred := model.Predict(ex.Text)
		mark := "x"
		if pred.Stage == ex.Stage {
			mark = "ok"
		}
		fmt.Printf("%-2s %d/%d: real=%s, predicho=%s (%.2f)\n",
			mark, i+1, len(examples), ex.Stage, pred.Stage, pred.Confidence)
	}

	report, err := classifier.Evaluate(model, texts, y)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}

	fmt.Printf("\n%s", report.Format())
}
