package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/lexgo-ia/lexgo/internal/classifier"
	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/dataset"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
	"github.com/lexgo-ia/lexgo/internal/stages"
)

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		dataDir    = flag.String("data", "", "Directory with train.csv and test.csv (overrides config)")
		modelsDir  = flag.String("models", "", "Output directory for model artifacts (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *dataDir == "" {
		*dataDir = filepath.Join(cfg.Paths.DataDir, "processed")
	}
	if *modelsDir == "" {
		*modelsDir = cfg.Paths.ModelsDir
	}

	infra := infrastructure.New(cfg)

	trainTexts, trainY, err := readSplit(filepath.Join(*dataDir, dataset.TrainFile))
	if err != nil {
		log.Fatalf("load training set: %v", err)
	}
	testTexts, testY, err := readSplit(filepath.Join(*dataDir, dataset.TestFile))
	if err != nil {
		log.Fatalf("load test set: %v", err)
	}

	model, err := classifier.Train(
		trainTexts, trainY,
		cfg.Training.VectorizerConfig(),
		cfg.Training.ForestConfig(),
		infra.Logger,
	)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	trainReport, err := classifier.Evaluate(model, trainTexts, trainY)
	if err != nil {
		log.Fatalf("evaluate on training set: %v", err)
	}

	var testReport *classifier.Report
	if len(testTexts) > 0 {
		testReport, err = classifier.Evaluate(model, testTexts, testY)
		if err != nil {
			log.Fatalf("evaluate on test set: %v", err)
		}
	}

	if err := model.Save(*modelsDir); err != nil {
		log.Fatalf("save model: %v", err)
	}

	metrics := classifier.TrainingMetrics{
		TrainAccuracy: trainReport.Accuracy,
		NumTrain:      len(trainTexts),
		NumTest:       len(testTexts),
		NumFeatures:   len(model.Vocabulary()),
		Classes:       model.Classes(),
	}
	if testReport != nil {
		metrics.TestAccuracy = testReport.Accuracy
		metrics.TestF1 = testReport.WeightedF1
	}
	metricsPath := filepath.Join(*modelsDir, config.MetricsFileName)
	if err := classifier.WriteMetricsCSV(metricsPath, metrics); err != nil {
		log.Fatalf("write metrics: %v", err)
	}

	fmt.Printf("Modelo entrenado: %d documentos, %d features, %d clases\n",
		len(trainTexts), metrics.NumFeatures, len(metrics.Classes))
	fmt.Printf("Accuracy en train: %.3f\n", trainReport.Accuracy)
	if testReport != nil {
		fmt.Printf("\nEvaluación en test (%d documentos):\n\n%s", len(testTexts), testReport.Format())
	}
	fmt.Printf("\nArtefactos guardados en %s\n", *modelsDir)
	fmt.Printf("Métricas guardadas en %s\n", metricsPath)
}

func readSplit(path string) ([]string, []stages.Stage, error) {
	examples, err := dataset.ReadExamples(path)
	if err != nil {
		return nil, nil, err
	}

	texts := make([]string, len(examples))
	y := make([]stages.Stage, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
		y[i] = ex.Stage
	}
	return texts, y, nil
}
