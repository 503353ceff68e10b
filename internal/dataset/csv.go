package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// Artifact filenames written under the processed-data directory.
const (
	TrainFile = "train.csv"
	TestFile  = "test.csv"
	FullFile  = "dataset_completo.csv"
)

// WriteArtifacts persists train.csv, test.csv, and dataset_completo.csv
// under dir, creating it if needed.
func WriteArtifacts(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}

	if err := writeExamples(filepath.Join(dir, TrainFile), ds.Train); err != nil {
		return err
	}
	if err := writeExamples(filepath.Join(dir, TestFile), ds.Test); err != nil {
		return err
	}
	return writeRecords(filepath.Join(dir, FullFile), ds.Records)
}

// ReadExamples loads a train or test CSV previously written by
// WriteArtifacts.
func ReadExamples(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 2

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	examples := make([]Example, 0, len(rows)-1)
	for _, row := range rows[1:] {
		stage, err := stages.Parse(row[1])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
		examples = append(examples, Example{Text: row[0], Stage: stage})
	}

	return examples, nil
}

func writeExamples(path string, examples []Example) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"texto", "etapa"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, ex := range examples {
		if err := w.Write([]string{ex.Text, string(ex.Stage)}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w.Flush()
	return w.Error()
}

func writeRecords(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"filename", "texto", "etapa", "longitud_texto", "num_palabras"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, r := range records {
		row := []string{
			r.Filename,
			r.Text,
			string(r.Stage),
			strconv.Itoa(r.CharLength),
			strconv.Itoa(r.WordCount),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	w.Flush()
	return w.Error()
}
