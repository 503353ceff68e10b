package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// SchemaVersion is the current persisted-artifact schema version.
const SchemaVersion = 1

// Artifact filenames written under the models directory.
const (
	VectorizerFile = "vectorizer.json"
	ForestFile     = "clasificador.json"
)

// Prediction is the outcome of classifying one document.
type Prediction struct {
	Stage      stages.Stage
	Confidence float64
	Probs      map[stages.Stage]float64
}

// Model is a fitted vectorizer plus forest. It owns no external state:
// prediction is a pure function of the input text.
type Model struct {
	vectorizer *Vectorizer
	forest     *Forest
}

// Train fits the full classification model on parallel slices of text
// and stage labels. Fitting on an empty or single-stage set fails.
func Train(texts []string, y []stages.Stage, vcfg VectorizerConfig, fcfg ForestConfig, logger *slog.Logger) (*Model, error) {
	if len(texts) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(texts) != len(y) {
		return nil, fmt.Errorf("texts (%d) and labels (%d) differ in length", len(texts), len(y))
	}

	classes := distinctSorted(y)
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}

	v, err := FitVectorizer(texts, vcfg)
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	logger.Info("vocabulary fitted", "terms", v.Features(), "documents", len(texts))

	x := make([][]float64, len(texts))
	for i, text := range texts {
		x[i] = v.Transform(text)
	}

	classIdx := make(map[stages.Stage]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	yi := make([]int, len(y))
	for i, stage := range y {
		yi[i] = classIdx[stage]
	}

	f, err := FitForest(x, yi, classes, fcfg)
	if err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}
	logger.Info("forest fitted", "trees", fcfg.Trees, "classes", len(classes))

	return &Model{vectorizer: v, forest: f}, nil
}

// Predict classifies text into a procedural stage with per-stage
// probabilities summing to 1. Ties on the top probability break toward
// the lexically smallest stage name; empty text still yields a valid
// (low-confidence) prediction from the all-zero feature vector.
func (m *Model) Predict(text string) Prediction {
	probs := m.forest.Proba(m.vectorizer.Transform(text))

	classes := m.forest.classes
	dist := make(map[stages.Stage]float64, len(classes))
	best := 0
	for i, c := range classes {
		dist[c] = probs[i]
		// classes are lexically sorted, so strict comparison keeps the
		// smallest name on ties
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{
		Stage:      classes[best],
		Confidence: probs[best],
		Probs:      dist,
	}
}

// Classes returns the stages the model can predict.
func (m *Model) Classes() []stages.Stage {
	return m.forest.Classes()
}

// Vocabulary returns the fitted vectorizer vocabulary.
func (m *Model) Vocabulary() []string {
	return m.vectorizer.Terms()
}

type vectorizerArtifact struct {
	SchemaVersion int              `json:"schema_version"`
	Documents     int              `json:"documents"`
	Config        VectorizerConfig `json:"config"`
	Vocabulary    map[string]int   `json:"vocabulary"`
	IDF           []float64        `json:"idf"`
}

type forestArtifact struct {
	SchemaVersion int            `json:"schema_version"`
	Config        ForestConfig   `json:"config"`
	Classes       []stages.Stage `json:"classes"`
	Trees         []tree         `json:"trees"`
}

// Save writes the vectorizer and forest artifacts under dir. The two
// files are independently loadable and fully describe the model.
func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	va := vectorizerArtifact{
		SchemaVersion: SchemaVersion,
		Documents:     m.vectorizer.documents,
		Config:        m.vectorizer.cfg,
		Vocabulary:    m.vectorizer.vocab,
		IDF:           m.vectorizer.idf,
	}
	if err := writeJSON(filepath.Join(dir, VectorizerFile), va); err != nil {
		return err
	}

	fa := forestArtifact{
		SchemaVersion: SchemaVersion,
		Config:        m.forest.cfg,
		Classes:       m.forest.classes,
		Trees:         m.forest.trees,
	}
	return writeJSON(filepath.Join(dir, ForestFile), fa)
}

// Load reads a persisted model from dir. Returns ErrModelNotFound when
// either artifact is missing.
func Load(dir string) (*Model, error) {
	var va vectorizerArtifact
	if err := readJSON(filepath.Join(dir, VectorizerFile), &va); err != nil {
		return nil, err
	}
	if va.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: vectorizer schema %d", ErrSchemaVersion, va.SchemaVersion)
	}

	var fa forestArtifact
	if err := readJSON(filepath.Join(dir, ForestFile), &fa); err != nil {
		return nil, err
	}
	if fa.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: forest schema %d", ErrSchemaVersion, fa.SchemaVersion)
	}

	terms := make([]string, len(va.Vocabulary))
	for term, i := range va.Vocabulary {
		if i < 0 || i >= len(terms) {
			return nil, fmt.Errorf("vocabulary index %d out of range for %q", i, term)
		}
		terms[i] = term
	}

	v := &Vectorizer{
		cfg:       va.Config,
		vocab:     va.Vocabulary,
		terms:     terms,
		idf:       va.IDF,
		documents: va.Documents,
	}
	if err := v.validate(); err != nil {
		return nil, fmt.Errorf("vectorizer artifact: %w", err)
	}

	f := &Forest{
		cfg:     fa.Config,
		classes: fa.Classes,
		trees:   fa.Trees,
	}
	if len(f.trees) == 0 {
		return nil, fmt.Errorf("forest artifact contains no trees")
	}

	return &Model{vectorizer: v, forest: f}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func distinctSorted(y []stages.Stage) []stages.Stage {
	seen := make(map[stages.Stage]bool)
	var classes []stages.Stage
	for _, stage := range y {
		if !seen[stage] {
			seen[stage] = true
			classes = append(classes, stage)
		}
	}
	slices.Sort(classes)
	return classes
}
