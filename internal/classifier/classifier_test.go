package classifier_test

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lexgo-ia/lexgo/internal/classifier"
	"github.com/lexgo-ia/lexgo/internal/stages"
)

var stagePhrases = map[stages.Stage]string{
	stages.Seclo:          "se fija audiencia de conciliación obligatoria ante el seclo reclamo laboral previo",
	stages.DemandaInicial: "córrese traslado de la demanda al demandado por el plazo de diez días para contestar",
	stages.Prueba:         "se declara abierta a prueba la causa producción pericial testimonial cuarenta días",
	stages.Sentencia:      "resuelvo hacer lugar a la demanda y condenar al demandado al pago de las sumas reclamadas",
}

// corpus builds a small separable training set: n documents per stage,
// each repeating its stage phrase with light per-document filler.
func corpus(n int) (texts []string, y []stages.Stage) {
	for _, stage := range []stages.Stage{stages.Seclo, stages.DemandaInicial, stages.Prueba, stages.Sentencia} {
		phrase := stagePhrases[stage]
		for i := 0; i < n; i++ {
			texts = append(texts, fmt.Sprintf("expediente laboral %d: %s. %s", i, phrase, phrase))
			y = append(y, stage)
		}
	}
	return texts, y
}

func testForestConfig() classifier.ForestConfig {
	cfg := classifier.DefaultForestConfig()
	cfg.Trees = 30
	return cfg
}

func trainModel(t *testing.T) *classifier.Model {
	t.Helper()
	texts, y := corpus(8)
	m, err := classifier.Train(texts, y, classifier.DefaultVectorizerConfig(), testForestConfig(), slog.Default())
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	return m
}

func TestFitVectorizerFrequencyBounds(t *testing.T) {
	texts := []string{
		"plazo perentorio demanda laboral",
		"plazo perentorio contestación laboral",
		"plazo perentorio audiencia laboral",
		"plazo perentorio sentencia laboral",
		"plazo perentorio apelación general",
	}
	cfg := classifier.VectorizerConfig{
		MaxFeatures: 1000,
		NGramMax:    1,
		MinDocFreq:  2,
		MaxDocShare: 0.8,
	}

	v, err := classifier.FitVectorizer(texts, cfg)
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	terms := v.Terms()
	// "demanda" appears once: below min_df
	if slices.Contains(terms, "demanda") {
		t.Error("vocabulary contains term below min document frequency")
	}
	// "plazo" appears in 100% of documents: above max_df
	if slices.Contains(terms, "plazo") {
		t.Error("vocabulary contains term above max document share")
	}
}

func TestFitVectorizerLexicalIndexOrder(t *testing.T) {
	texts := []string{
		"zeta alfa medio",
		"zeta alfa medio",
	}
	cfg := classifier.VectorizerConfig{MaxFeatures: 10, NGramMax: 1, MinDocFreq: 1, MaxDocShare: 1.0}

	v, err := classifier.FitVectorizer(texts, cfg)
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	terms := v.Terms()
	if !slices.IsSorted(terms) {
		t.Errorf("vocabulary not in lexical order: %v", terms)
	}
}

func TestFitVectorizerMaxFeaturesKeepsMostFrequent(t *testing.T) {
	texts := []string{
		"comun comun comun raro",
		"comun comun comun visto",
		"comun visto raro",
	}
	cfg := classifier.VectorizerConfig{MaxFeatures: 1, NGramMax: 1, MinDocFreq: 1, MaxDocShare: 1.0}

	v, err := classifier.FitVectorizer(texts, cfg)
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	if got := v.Terms(); len(got) != 1 || got[0] != "comun" {
		t.Errorf("Terms() = %v, want [comun]", got)
	}
}

func TestFitVectorizerIncludesBigrams(t *testing.T) {
	texts := []string{
		"apertura a prueba de la causa",
		"apertura a prueba por cuarenta días",
	}
	cfg := classifier.VectorizerConfig{MaxFeatures: 100, NGramMax: 2, MinDocFreq: 2, MaxDocShare: 1.0}

	v, err := classifier.FitVectorizer(texts, cfg)
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	if !slices.Contains(v.Terms(), "apertura prueba") {
		t.Errorf("vocabulary %v missing accent-folded bigram \"apertura prueba\"", v.Terms())
	}
}

func TestTransformIsUnitNorm(t *testing.T) {
	texts, _ := corpus(4)
	v, err := classifier.FitVectorizer(texts, classifier.DefaultVectorizerConfig())
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	vec := v.Transform(texts[0])
	var sumSquares float64
	for _, w := range vec {
		sumSquares += w * w
	}
	if math.Abs(math.Sqrt(sumSquares)-1) > 1e-9 {
		t.Errorf("transform norm = %v, want 1", math.Sqrt(sumSquares))
	}
}

func TestTransformUnknownTextIsZero(t *testing.T) {
	texts, _ := corpus(4)
	v, err := classifier.FitVectorizer(texts, classifier.DefaultVectorizerConfig())
	if err != nil {
		t.Fatalf("FitVectorizer error: %v", err)
	}

	for _, input := range []string{"", "xyzzy frobnicate"} {
		for i, w := range v.Transform(input) {
			if w != 0 {
				t.Errorf("Transform(%q)[%d] = %v, want 0", input, i, w)
			}
		}
	}
}

func TestTrainEmptySetFails(t *testing.T) {
	_, err := classifier.Train(nil, nil, classifier.DefaultVectorizerConfig(), testForestConfig(), slog.Default())
	if !errors.Is(err, classifier.ErrNoTrainingData) {
		t.Fatalf("error = %v, want ErrNoTrainingData", err)
	}
}

func TestTrainSingleClassFails(t *testing.T) {
	texts := []string{"resuelvo hacer lugar", "resuelvo rechazar", "resuelvo condenar"}
	y := []stages.Stage{stages.Sentencia, stages.Sentencia, stages.Sentencia}

	_, err := classifier.Train(texts, y, classifier.DefaultVectorizerConfig(), testForestConfig(), slog.Default())
	if !errors.Is(err, classifier.ErrSingleClass) {
		t.Fatalf("error = %v, want ErrSingleClass", err)
	}
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	m := trainModel(t)

	inputs := []string{
		"resuelvo hacer lugar a la demanda",
		"audiencia de conciliación en el seclo",
		"",
		"texto sin relación con el dominio",
	}
	for _, input := range inputs {
		pred := m.Predict(input)
		sum := 0.0
		for _, p := range pred.Probs {
			if p < 0 || p > 1 {
				t.Errorf("Predict(%q) probability %v outside [0,1]", input, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("Predict(%q) probabilities sum to %v, want 1", input, sum)
		}
		if !stages.Valid(pred.Stage) {
			t.Errorf("Predict(%q) stage = %q, not a valid stage", input, pred.Stage)
		}
	}
}

func TestPredictRankOrder(t *testing.T) {
	m := trainModel(t)

	pred := m.Predict("resuelvo hacer lugar a la demanda y condenar al demandado")
	if pred.Stage != stages.Sentencia {
		t.Fatalf("predicted %q (%.2f), want sentencia; probs %v", pred.Stage, pred.Confidence, pred.Probs)
	}
	for stage, p := range pred.Probs {
		if stage != stages.Sentencia && p > pred.Probs[stages.Sentencia] {
			t.Errorf("probability of %s (%v) exceeds sentencia (%v)", stage, p, pred.Probs[stages.Sentencia])
		}
	}
}

func TestTrainReproducible(t *testing.T) {
	texts, y := corpus(6)

	a, err := classifier.Train(texts, y, classifier.DefaultVectorizerConfig(), testForestConfig(), slog.Default())
	if err != nil {
		t.Fatalf("first Train error: %v", err)
	}
	b, err := classifier.Train(texts, y, classifier.DefaultVectorizerConfig(), testForestConfig(), slog.Default())
	if err != nil {
		t.Fatalf("second Train error: %v", err)
	}

	for _, input := range []string{
		"córrese traslado de la demanda",
		"producción de prueba pericial",
		"",
	} {
		pa, pb := a.Predict(input), b.Predict(input)
		if pa.Stage != pb.Stage {
			t.Errorf("Predict(%q) stage differs: %q vs %q", input, pa.Stage, pb.Stage)
		}
		for stage := range pa.Probs {
			if math.Abs(pa.Probs[stage]-pb.Probs[stage]) > 1e-12 {
				t.Errorf("Predict(%q) prob for %s differs: %v vs %v", input, stage, pa.Probs[stage], pb.Probs[stage])
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := trainModel(t)
	dir := t.TempDir()

	if err := m.Save(dir); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := classifier.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	for _, input := range []string{
		"resuelvo hacer lugar a la demanda",
		"se declara abierta a prueba la causa",
		"",
	} {
		want, got := m.Predict(input), loaded.Predict(input)
		if want.Stage != got.Stage {
			t.Errorf("loaded Predict(%q) stage = %q, want %q", input, got.Stage, want.Stage)
		}
		for stage := range want.Probs {
			if math.Abs(want.Probs[stage]-got.Probs[stage]) > 1e-12 {
				t.Errorf("loaded Predict(%q) prob for %s = %v, want %v", input, stage, got.Probs[stage], want.Probs[stage])
			}
		}
	}
}

func TestLoadMissingArtifacts(t *testing.T) {
	_, err := classifier.Load(t.TempDir())
	if !errors.Is(err, classifier.ErrModelNotFound) {
		t.Fatalf("error = %v, want ErrModelNotFound", err)
	}
}

func TestEvaluate(t *testing.T) {
	m := trainModel(t)
	texts, y := corpus(8)

	report, err := classifier.Evaluate(m, texts, y)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	if report.Accuracy < 0.9 {
		t.Errorf("training-set accuracy = %v, want >= 0.9", report.Accuracy)
	}
	if report.WeightedF1 < 0 || report.WeightedF1 > 1 {
		t.Errorf("WeightedF1 = %v, outside [0,1]", report.WeightedF1)
	}

	if len(report.Confusion) != len(report.Classes) {
		t.Fatalf("confusion has %d rows for %d classes", len(report.Confusion), len(report.Classes))
	}
	total := 0
	for _, row := range report.Confusion {
		for _, n := range row {
			total += n
		}
	}
	if total != len(texts) {
		t.Errorf("confusion total = %d, want %d", total, len(texts))
	}
}

func TestWriteMetricsCSVCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelos", "metricas.csv")

	metrics := classifier.TrainingMetrics{
		TrainAccuracy: 0.95,
		TestAccuracy:  0.875,
		TestF1:        0.86,
		NumTrain:      32,
		NumTest:       8,
		NumFeatures:   120,
		Classes:       []stages.Stage{stages.DemandaInicial, stages.Prueba},
	}
	if err := classifier.WriteMetricsCSV(path, metrics); err != nil {
		t.Fatalf("WriteMetricsCSV error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open metrics csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read metrics csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv has %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "train_accuracy" || rows[1][0] != "0.9500" {
		t.Errorf("unexpected rows %v", rows)
	}
	if rows[1][6] != "demanda_inicial prueba" {
		t.Errorf("classes column = %q", rows[1][6])
	}
}
