// Package dataset joins the label store against extracted document text
// and produces the stratified train/test split the classifier trains on.
// Builds are deterministic: the same labels, text, and seed always yield
// byte-identical partitions.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/lexgo-ia/lexgo/internal/labels"
	"github.com/lexgo-ia/lexgo/internal/stages"
	"github.com/lexgo-ia/lexgo/pkg/textproc"
)

// ImbalanceThreshold is the largest-to-smallest class ratio above which a
// build logs an advisory imbalance warning.
const ImbalanceThreshold = 3.0

var (
	// ErrNoLabels indicates the label store is empty; labeling must run first.
	ErrNoLabels = errors.New("no labeled documents: run the labeler first")
	// ErrNoText indicates no labeled document resolved to any text.
	ErrNoText = errors.New("no labeled document yielded extractable text")
)

// TextLookup resolves a labeled filename to its full extracted text.
type TextLookup func(filename string) (string, error)

// Example is one normalized training or test sample.
type Example struct {
	Text  string
	Stage stages.Stage
}

// Record is one fully resolved dataset row with descriptive statistics.
type Record struct {
	Filename   string
	Text       string
	Stage      stages.Stage
	CharLength int
	WordCount  int
}

// Stats summarizes a built dataset.
type Stats struct {
	Documents      int
	Skipped        int
	MeanCharLength float64
	MinCharLength  int
	MaxCharLength  int
	MeanWordCount  float64
	ClassCounts    map[stages.Stage]int
	ImbalanceRatio float64
}

// Imbalanced reports whether the class distribution exceeds the advisory
// imbalance threshold.
func (s Stats) Imbalanced() bool {
	return s.ImbalanceRatio > ImbalanceThreshold
}

// Dataset is the output of a build: resolved records, their statistics,
// and the stratified split.
type Dataset struct {
	Records []Record
	Train   []Example
	Test    []Example
	Stats   Stats
}

// Builder constructs datasets with a fixed seed and test fraction.
type Builder struct {
	Seed         uint64
	TestFraction float64
	logger       *slog.Logger
}

// New creates a Builder with the standard seed (42) and 80/20 split.
func New(logger *slog.Logger) *Builder {
	return &Builder{
		Seed:         42,
		TestFraction: 0.2,
		logger:       logger.With("system", "dataset"),
	}
}

// Build resolves every labeled document through lookup, normalizes the
// text, computes statistics, and splits into stratified train/test sets.
// Documents whose text cannot be resolved are skipped with a warning; the
// build fails only when nothing resolves at all.
func (b *Builder) Build(labeled []labels.Document, lookup TextLookup) (*Dataset, error) {
	if len(labeled) == 0 {
		return nil, ErrNoLabels
	}

	var records []Record
	skipped := 0
	for _, doc := range labeled {
		text, err := lookup(doc.Filename)
		if err != nil || strings.TrimSpace(text) == "" {
			b.logger.Warn("skipping document without text", "filename", doc.Filename, "error", err)
			skipped++
			continue
		}

		normalized := textproc.Normalize(text)
		records = append(records, Record{
			Filename:   doc.Filename,
			Text:       normalized,
			Stage:      doc.Stage,
			CharLength: len([]rune(normalized)),
			WordCount:  len(strings.Fields(normalized)),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoText
	}

	stats := computeStats(records, skipped)
	if stats.Imbalanced() {
		b.logger.Warn(
			"class imbalance detected",
			"ratio", fmt.Sprintf("%.1f:1", stats.ImbalanceRatio),
			"counts", stats.ClassCounts,
		)
	}

	train, test := b.split(records)

	b.logger.Info(
		"dataset built",
		"documents", len(records),
		"skipped", skipped,
		"train", len(train),
		"test", len(test),
	)

	return &Dataset{
		Records: records,
		Train:   train,
		Test:    test,
		Stats:   stats,
	}, nil
}

// split partitions records into train/test preserving per-class
// proportions. Records are grouped per stage, sorted by filename, and
// shuffled with a seeded generator so the partition is reproducible.
func (b *Builder) split(records []Record) (train, test []Example) {
	groups := make(map[stages.Stage][]Record)
	for _, r := range records {
		groups[r.Stage] = append(groups[r.Stage], r)
	}

	rng := rand.New(rand.NewPCG(b.Seed, 0))

	for _, stage := range stages.Sorted() {
		group := groups[stage]
		if len(group) == 0 {
			continue
		}

		slices.SortFunc(group, func(a, c Record) int {
			return strings.Compare(a.Filename, c.Filename)
		})
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nTest := int(math.Round(b.TestFraction * float64(len(group))))
		for i, r := range group {
			ex := Example{Text: r.Text, Stage: r.Stage}
			if i < nTest {
				test = append(test, ex)
			} else {
				train = append(train, ex)
			}
		}
	}

	return train, test
}

func computeStats(records []Record, skipped int) Stats {
	stats := Stats{
		Documents:     len(records),
		Skipped:       skipped,
		MinCharLength: records[0].CharLength,
		ClassCounts:   make(map[stages.Stage]int),
	}

	totalChars, totalWords := 0, 0
	for _, r := range records {
		totalChars += r.CharLength
		totalWords += r.WordCount
		stats.MinCharLength = min(stats.MinCharLength, r.CharLength)
		stats.MaxCharLength = max(stats.MaxCharLength, r.CharLength)
		stats.ClassCounts[r.Stage]++
	}

	stats.MeanCharLength = float64(totalChars) / float64(len(records))
	stats.MeanWordCount = float64(totalWords) / float64(len(records))

	minClass, maxClass := 0, 0
	for _, count := range stats.ClassCounts {
		if minClass == 0 || count < minClass {
			minClass = count
		}
		maxClass = max(maxClass, count)
	}
	if minClass > 0 {
		stats.ImbalanceRatio = float64(maxClass) / float64(minClass)
	}

	return stats
}
