package classifier

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// ClassReport holds per-stage evaluation metrics.
type ClassReport struct {
	Stage     stages.Stage
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the evaluation of a model against a labeled set.
type Report struct {
	Accuracy   float64
	WeightedF1 float64
	Classes    []stages.Stage
	// Confusion[i][j] counts documents of Classes[i] predicted as
	// Classes[j].
	Confusion [][]int
	PerClass  []ClassReport
}

// Evaluate runs the model over parallel slices of text and true stage
// labels and computes accuracy, weighted F1, and the confusion matrix.
func Evaluate(m *Model, texts []string, y []stages.Stage) (*Report, error) {
	if len(texts) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(texts) != len(y) {
		return nil, fmt.Errorf("texts (%d) and labels (%d) differ in length", len(texts), len(y))
	}

	classes := m.Classes()
	idx := make(map[stages.Stage]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}

	correct := 0
	for i, text := range texts {
		pred := m.Predict(text)
		ti, ok := idx[y[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %q not in model classes", stages.ErrInvalidStage, y[i])
		}
		confusion[ti][idx[pred.Stage]]++
		if pred.Stage == y[i] {
			correct++
		}
	}

	report := &Report{
		Accuracy:  float64(correct) / float64(len(texts)),
		Classes:   classes,
		Confusion: confusion,
	}

	var weightedF1 float64
	for i, stage := range classes {
		support := 0
		predicted := 0
		for j := range classes {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}

		tp := confusion[i][i]
		precision := ratio(tp, predicted)
		recall := ratio(tp, support)

		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report.PerClass = append(report.PerClass, ClassReport{
			Stage:     stage,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support,
		})
		weightedF1 += f1 * float64(support)
	}
	report.WeightedF1 = weightedF1 / float64(len(texts))

	return report, nil
}

// Format renders the report as an aligned text table for operator output.
func (r *Report) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "accuracy: %.3f\nweighted f1: %.3f\n\n", r.Accuracy, r.WeightedF1)
	fmt.Fprintf(&b, "%-18s %9s %9s %9s %9s\n", "etapa", "precision", "recall", "f1", "support")
	for _, c := range r.PerClass {
		fmt.Fprintf(&b, "%-18s %9.3f %9.3f %9.3f %9d\n", c.Stage, c.Precision, c.Recall, c.F1, c.Support)
	}

	b.WriteString("\nconfusion (rows = real, cols = predicted):\n")
	fmt.Fprintf(&b, "%-18s", "")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, " %12s", c)
	}
	b.WriteByte('\n')
	for i, c := range r.Classes {
		fmt.Fprintf(&b, "%-18s", c)
		for j := range r.Classes {
			fmt.Fprintf(&b, " %12d", r.Confusion[i][j])
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// TrainingMetrics is the summary row persisted after training.
type TrainingMetrics struct {
	TrainAccuracy float64
	TestAccuracy  float64
	TestF1        float64
	NumTrain      int
	NumTest       int
	NumFeatures   int
	Classes       []stages.Stage
}

// WriteMetricsCSV persists the training summary as a single-row CSV,
// creating the target directory if needed.
func WriteMetricsCSV(path string, m TrainingMetrics) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	classNames := make([]string, len(m.Classes))
	for i, c := range m.Classes {
		classNames[i] = string(c)
	}

	w := csv.NewWriter(f)
	header := []string{
		"train_accuracy", "test_accuracy", "test_f1_score",
		"num_train", "num_test", "num_features", "classes",
	}
	row := []string{
		formatFloat(m.TrainAccuracy),
		formatFloat(m.TestAccuracy),
		formatFloat(m.TestF1),
		strconv.Itoa(m.NumTrain),
		strconv.Itoa(m.NumTest),
		strconv.Itoa(m.NumFeatures),
		strings.Join(classNames, " "),
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	w.Flush()
	return w.Error()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
