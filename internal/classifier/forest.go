package classifier

import (
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// ForestConfig controls random-forest fitting.
type ForestConfig struct {
	Trees           int    `json:"trees"`
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	Seed            uint64 `json:"seed"`
}

// DefaultForestConfig returns the standard ensemble configuration:
// 100 trees of depth at most 20, splitting nodes of at least 5 samples,
// seeded for reproducibility.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        20,
		MinSamplesSplit: 5,
		Seed:            42,
	}
}

// Forest is a fitted ensemble of decision trees voting via averaged
// class probabilities.
type Forest struct {
	cfg     ForestConfig
	classes []stages.Stage
	trees   []tree
}

// tree is a decision tree flattened into a node array. Children are
// referenced by index; leaves carry a class probability distribution.
type tree struct {
	Nodes []node `json:"nodes"`
}

type node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
	Probs     []float64 `json:"p,omitempty"`
}

const leaf = -1

// FitForest trains the ensemble on feature matrix x and class indices y
// (indices into classes). Trees fit in parallel across processors;
// per-tree generators derive from the master seed, so the fitted forest
// is identical regardless of scheduling.
func FitForest(x [][]float64, y []int, classes []stages.Stage, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}

	f := &Forest{
		cfg:     cfg,
		classes: slices.Clone(classes),
		trees:   make([]tree, cfg.Trees),
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for t := 0; t < cfg.Trees; t++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(t)))
			b := &treeBuilder{
				x:       x,
				y:       y,
				classes: len(classes),
				cfg:     cfg,
				rng:     rng,
			}
			f.trees[t] = b.fit()
			return nil
		})
	}

	// tree fitting has no failure mode; Wait only synchronizes
	_ = g.Wait()

	return f, nil
}

// Classes returns the class labels in probability-vector order.
func (f *Forest) Classes() []stages.Stage {
	return slices.Clone(f.classes)
}

// Proba returns the averaged class probability distribution for a
// feature vector. The result always sums to 1.
func (f *Forest) Proba(x []float64) []float64 {
	probs := make([]float64, len(f.classes))
	for i := range f.trees {
		leafProbs := f.trees[i].proba(x)
		for c, p := range leafProbs {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.trees))
	}
	return probs
}

func (t *tree) proba(x []float64) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left == leaf {
			return n.Probs
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	x       [][]float64
	y       []int
	classes int
	cfg     ForestConfig
	rng     *rand.Rand
	nodes   []node
}

func (b *treeBuilder) fit() tree {
	n := len(b.x)
	samples := make([]int, n)
	for i := range samples {
		samples[i] = b.rng.IntN(n)
	}

	b.grow(samples, 0)
	return tree{Nodes: b.nodes}
}

// grow appends the subtree for samples and returns its root node index.
func (b *treeBuilder) grow(samples []int, depth int) int {
	counts := b.classCounts(samples)

	if depth >= b.cfg.MaxDepth || len(samples) < b.cfg.MinSamplesSplit || pure(counts) {
		return b.appendLeaf(counts, len(samples))
	}

	feature, threshold, ok := b.bestSplit(samples, counts)
	if !ok {
		return b.appendLeaf(counts, len(samples))
	}

	var left, right []int
	for _, s := range samples {
		if b.x[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: feature, Threshold: threshold})

	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)
	b.nodes[idx].Left = leftIdx
	b.nodes[idx].Right = rightIdx

	return idx
}

func (b *treeBuilder) appendLeaf(counts []int, total int) int {
	probs := make([]float64, b.classes)
	for c, count := range counts {
		probs[c] = float64(count) / float64(total)
	}
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Left: leaf, Right: leaf, Probs: probs})
	return idx
}

// bestSplit searches a random √p feature subset for the threshold with
// the lowest weighted Gini impurity. If the subset yields no valid split
// it falls back to scanning every feature before declaring a leaf.
func (b *treeBuilder) bestSplit(samples []int, counts []int) (int, float64, bool) {
	features := len(b.x[0])
	if features == 0 {
		return 0, 0, false
	}

	k := int(math.Ceil(math.Sqrt(float64(features))))
	subset := b.rng.Perm(features)[:k]

	if f, t, ok := b.searchFeatures(samples, counts, subset); ok {
		return f, t, ok
	}

	all := make([]int, features)
	for i := range all {
		all[i] = i
	}
	return b.searchFeatures(samples, counts, all)
}

func (b *treeBuilder) searchFeatures(samples, counts, features []int) (int, float64, bool) {
	bestGini := math.Inf(1)
	bestFeature := -1
	var bestThreshold float64

	n := len(samples)
	values := make([]float64, n)
	order := make([]int, n)

	for _, f := range features {
		for i, s := range samples {
			values[i] = b.x[s][f]
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool {
			return values[order[i]] < values[order[j]]
		})

		leftCounts := make([]int, b.classes)
		rightCounts := slices.Clone(counts)

		for i := 0; i < n-1; i++ {
			s := samples[order[i]]
			leftCounts[b.y[s]]++
			rightCounts[b.y[s]]--

			v, next := values[order[i]], values[order[i+1]]
			if next <= v {
				continue
			}

			nl, nr := i+1, n-i-1
			g := (float64(nl)*gini(leftCounts, nl) + float64(nr)*gini(rightCounts, nr)) / float64(n)
			if g < bestGini {
				bestGini = g
				bestFeature = f
				bestThreshold = (v + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (b *treeBuilder) classCounts(samples []int) []int {
	counts := make([]int, b.classes)
	for _, s := range samples {
		counts[b.y[s]]++
	}
	return counts
}

func gini(counts []int, total int) float64 {
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func pure(counts []int) bool {
	seen := false
	for _, c := range counts {
		if c > 0 {
			if seen {
				return false
			}
			seen = true
		}
	}
	return true
}
