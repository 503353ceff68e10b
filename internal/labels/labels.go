// Package labels implements the append-only label store backing manual
// stage annotation. The table lives in a single CSV file; every append
// rewrites the whole table through a temp-file rename so an interrupted
// annotation session never leaves a half-written file behind.
package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// SnippetLimit caps the stored text preview per labeled document.
const SnippetLimit = 1000

var (
	// ErrEmptyFilename indicates a labeled document without a filename key.
	ErrEmptyFilename = errors.New("labeled document requires a filename")
	// ErrMalformedTable indicates the persisted label table cannot be read.
	ErrMalformedTable = errors.New("malformed label table")
)

var header = []string{"filename", "etapa", "texto"}

// Document is one manually labeled court document.
type Document struct {
	Filename string
	Stage    stages.Stage
	Snippet  string
}

// NewDocument validates and constructs a labeled document. The snippet is
// truncated to SnippetLimit runes.
func NewDocument(filename string, stage stages.Stage, text string) (Document, error) {
	if filename == "" {
		return Document{}, ErrEmptyFilename
	}
	if !stages.Valid(stage) {
		return Document{}, fmt.Errorf("%w: %q", stages.ErrInvalidStage, stage)
	}

	runes := []rune(text)
	if len(runes) > SnippetLimit {
		text = string(runes[:SnippetLimit])
	}

	return Document{Filename: filename, Stage: stage, Snippet: text}, nil
}

// Store holds the in-memory label table and its backing CSV path.
type Store struct {
	path   string
	logger *slog.Logger
	docs   []Document
	index  map[string]int
}

// Open loads the label table at path if it exists, else starts empty.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With("system", "labels"),
		index:  make(map[string]int),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open label table: %w", err)
	}
	defer f.Close()

	if err := s.read(f); err != nil {
		return nil, err
	}

	s.logger.Info("label table loaded", "path", path, "labels", len(s.docs))
	return s, nil
}

// Documents returns the labeled documents in table order.
func (s *Store) Documents() []Document {
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Len returns the number of labeled documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// Labeled returns the set of filenames already present, used by the
// annotation loop to skip documents it has already prompted for.
func (s *Store) Labeled() map[string]bool {
	set := make(map[string]bool, len(s.docs))
	for _, d := range s.docs {
		set[d.Filename] = true
	}
	return set
}

// CountByStage returns per-stage label counts.
func (s *Store) CountByStage() map[stages.Stage]int {
	counts := make(map[stages.Stage]int)
	for _, d := range s.docs {
		counts[d.Stage]++
	}
	return counts
}

// Append upserts a labeled document and flushes the full table. A document
// whose filename already exists overwrites the existing row in place, so
// the table always holds one row per filename.
func (s *Store) Append(doc Document) error {
	if doc.Filename == "" {
		return ErrEmptyFilename
	}
	if !stages.Valid(doc.Stage) {
		return fmt.Errorf("%w: %q", stages.ErrInvalidStage, doc.Stage)
	}

	if i, ok := s.index[doc.Filename]; ok {
		s.docs[i] = doc
	} else {
		s.index[doc.Filename] = len(s.docs)
		s.docs = append(s.docs, doc)
	}

	return s.flush()
}

func (s *Store) read(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows[1:] {
		stage, err := stages.Parse(row[1])
		if err != nil {
			return fmt.Errorf("%w: row for %q: %w", ErrMalformedTable, row[0], err)
		}

		doc := Document{Filename: row[0], Stage: stage, Snippet: row[2]}
		if i, ok := s.index[doc.Filename]; ok {
			s.docs[i] = doc
			continue
		}
		s.index[doc.Filename] = len(s.docs)
		s.docs = append(s.docs, doc)
	}

	return nil
}

// flush rewrites the whole table atomically: write to a temp file in the
// same directory, then rename over the target.
func (s *Store) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create label dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".labels-*.csv")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range s.docs {
		if err := w.Write([]string{d.Filename, string(d.Stage), d.Snippet}); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", d.Filename, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace label table: %w", err)
	}

	return nil
}
