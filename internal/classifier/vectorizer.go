// Package classifier implements the procedural-stage text classifier: a
// TF-IDF vectorizer over unigrams and bigrams feeding a random forest.
// Training is seeded and reproducible, and the fitted model persists as
// explicit, versioned JSON artifacts rather than opaque blobs.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/lexgo-ia/lexgo/pkg/textproc"
)

// ErrEmptyVocabulary indicates no term survived the document-frequency
// bounds, typically because the training corpus is too small.
var ErrEmptyVocabulary = errors.New("empty vocabulary after frequency filtering")

// VectorizerConfig bounds the fitted vocabulary.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary at the terms with the highest
	// corpus counts.
	MaxFeatures int `json:"max_features"`
	// NGramMax is the longest n-gram length; n-grams from 1 up to this
	// length are extracted.
	NGramMax int `json:"ngram_max"`
	// MinDocFreq drops terms appearing in fewer documents than this.
	MinDocFreq int `json:"min_doc_freq"`
	// MaxDocShare drops terms appearing in more than this share of
	// documents.
	MaxDocShare float64 `json:"max_doc_share"`
}

// DefaultVectorizerConfig returns the standard training configuration:
// top 1000 unigrams and bigrams seen in at least 2 and at most 80% of
// documents.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 1000,
		NGramMax:    2,
		MinDocFreq:  2,
		MaxDocShare: 0.8,
	}
}

// Vectorizer maps text to L2-normalized TF-IDF feature vectors over a
// frozen vocabulary. Fitting assigns feature indices in lexical term
// order so artifacts are stable across runs.
type Vectorizer struct {
	cfg       VectorizerConfig
	vocab     map[string]int
	terms     []string
	idf       []float64
	documents int
}

// FitVectorizer builds the vocabulary and idf weights from the training
// corpus.
func FitVectorizer(texts []string, cfg VectorizerConfig) (*Vectorizer, error) {
	if len(texts) == 0 {
		return nil, ErrNoTrainingData
	}

	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for _, text := range texts {
		counts := termCounts(text, cfg.NGramMax)
		for term, count := range counts {
			docFreq[term]++
			totalFreq[term] += count
		}
	}

	n := len(texts)
	maxDocs := cfg.MaxDocShare * float64(n)

	var candidates []string
	for term, df := range docFreq {
		if df < cfg.MinDocFreq {
			continue
		}
		if float64(df) > maxDocs {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// keep the most frequent terms; ties resolve lexically so the cut
	// is deterministic
	slices.SortFunc(candidates, func(a, b string) int {
		if d := totalFreq[b] - totalFreq[a]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	if cfg.MaxFeatures > 0 && len(candidates) > cfg.MaxFeatures {
		candidates = candidates[:cfg.MaxFeatures]
	}
	slices.Sort(candidates)

	v := &Vectorizer{
		cfg:       cfg,
		vocab:     make(map[string]int, len(candidates)),
		terms:     candidates,
		idf:       make([]float64, len(candidates)),
		documents: n,
	}
	for i, term := range candidates {
		v.vocab[term] = i
		v.idf[i] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	return v, nil
}

// Transform converts text into its TF-IDF vector. Text containing no
// vocabulary term (including empty text) yields the all-zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.terms))

	counts := termCounts(text, v.cfg.NGramMax)
	var sumSquares float64
	for term, count := range counts {
		i, ok := v.vocab[term]
		if !ok {
			continue
		}
		w := float64(count) * v.idf[i]
		vec[i] = w
		sumSquares += w * w
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

// Terms returns the vocabulary in feature-index order.
func (v *Vectorizer) Terms() []string {
	return slices.Clone(v.terms)
}

// Features returns the dimensionality of produced vectors.
func (v *Vectorizer) Features() int {
	return len(v.terms)
}

// termCounts tokenizes text (lowercased, accent-folded, word tokens of
// two or more characters) and counts n-grams up to ngramMax, with
// multi-word terms joined by single spaces.
func termCounts(text string, ngramMax int) map[string]int {
	tokens := textproc.Tokens(textproc.FoldAccents(strings.ToLower(text)))

	counts := make(map[string]int)
	for n := 1; n <= ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return counts
}

func (v *Vectorizer) validate() error {
	if len(v.terms) == 0 {
		return ErrEmptyVocabulary
	}
	if len(v.idf) != len(v.terms) {
		return fmt.Errorf("idf length %d does not match vocabulary size %d", len(v.idf), len(v.terms))
	}
	return nil
}
