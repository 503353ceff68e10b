// Package analysis orchestrates the per-document pipeline: extract text,
// classify the procedural stage, synthesize the expected timeline, and
// persist one JSON result per document.
package analysis

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexgo-ia/lexgo/internal/classifier"
	"github.com/lexgo-ia/lexgo/internal/stages"
	"github.com/lexgo-ia/lexgo/internal/timeline"
	"github.com/lexgo-ia/lexgo/pkg/extract"
)

// LowConfidence is the prediction confidence below which a result is
// flagged for manual review.
const LowConfidence = 0.5

// ResultSuffix is appended to the document stem to form the result
// filename.
const ResultSuffix = "_analisis.json"

// Classification is the predicted stage with its confidence.
type Classification struct {
	Stage      stages.Stage `json:"etapa"`
	Confidence float64      `json:"confianza"`
}

// Result is the persisted outcome of analyzing one document.
type Result struct {
	File           string           `json:"archivo"`
	Timestamp      string           `json:"timestamp"`
	Classification Classification   `json:"clasificacion"`
	Timeline       []timeline.Event `json:"timeline"`
}

// Analyzer runs the document pipeline against a trained model.
type Analyzer struct {
	extractor  extract.Extractor
	model      *classifier.Model
	resultsDir string
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an analyzer writing results under resultsDir.
func New(extractor extract.Extractor, model *classifier.Model, resultsDir string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		extractor:  extractor,
		model:      model,
		resultsDir: resultsDir,
		logger:     logger.With("system", "analysis"),
		now:        time.Now,
	}
}

// Analyze runs the full pipeline over the document at path and persists
// the result. A document with no extractable text fails with
// extract.ErrNoText; nothing is written on failure.
func (a *Analyzer) Analyze(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	text, err := a.extractor.Text(f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), extract.ErrNoText)
	}

	pred := a.model.Predict(text)
	if pred.Confidence < LowConfidence {
		a.logger.Warn("low confidence prediction, review manually",
			"file", filepath.Base(path),
			"etapa", pred.Stage,
			"confianza", pred.Confidence)
	}

	start := a.now()
	result := &Result{
		File:      filepath.Base(path),
		Timestamp: start.Format(time.RFC3339),
		Classification: Classification{
			Stage:      pred.Stage,
			Confidence: pred.Confidence,
		},
		Timeline: timeline.Synthesize(pred.Stage, start),
	}

	out := ResultPath(a.resultsDir, path)
	if err := writeResult(out, result); err != nil {
		return nil, err
	}

	a.logger.Info("document analyzed",
		"file", result.File,
		"etapa", pred.Stage,
		"confianza", pred.Confidence,
		"eventos", len(result.Timeline),
		"result", out)

	return result, nil
}

// ResultPath returns the result file path for a document: the document
// stem plus ResultSuffix, under resultsDir.
func ResultPath(resultsDir, docPath string) string {
	base := filepath.Base(docPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(resultsDir, stem+ResultSuffix)
}

// writeResult persists the result in a single write: temp file in the
// results directory, then rename over the target.
func writeResult(path string, result *Result) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".result-*.json")
	if err != nil {
		return fmt.Errorf("create temp result: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp result: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace result: %w", err)
	}

	return nil
}
