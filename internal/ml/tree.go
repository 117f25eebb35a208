package ml

import (
	"math/rand"
	"sort"
)

// DecisionTree is a CART-style binary classification tree split on gini
// impurity.
type DecisionTree struct {
	root *treeNode
}

// TreeConfig controls tree growth.
type TreeConfig struct {
	MaxDepth   int
	MinSamples int
}

// DefaultTreeConfig works well on the bundled screening dataset.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{MaxDepth: 6, MinSamples: 4}
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode

	leaf bool
	prob float64
}

// treeBuilder carries the growth parameters so recursion stays lean. When
// featuresPerSplit is positive only that many randomly chosen features are
// considered at each split, which is what makes forest trees decorrelated.
type treeBuilder struct {
	maxDepth         int
	minSamples       int
	featuresPerSplit int
	rng              *rand.Rand
}

// TrainTree grows a single tree considering every feature at every split.
func TrainTree(features [][]float64, labels []float64, cfg TreeConfig) *DecisionTree {
	b := &treeBuilder{maxDepth: cfg.MaxDepth, minSamples: cfg.MinSamples}
	idx := make([]int, len(features))
	for i := range idx {
		idx[i] = i
	}
	return &DecisionTree{root: b.grow(features, labels, idx, 0)}
}

// PredictProb walks the tree and returns the leaf's positive fraction.
func (t *DecisionTree) PredictProb(x []float64) float64 {
	n := t.root
	for n != nil && !n.leaf {
		if n.feature < len(x) && x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	if n == nil {
		return 0.5
	}
	return n.prob
}

func (b *treeBuilder) grow(features [][]float64, labels []float64, idx []int, depth int) *treeNode {
	prob := positiveFraction(labels, idx)
	if depth >= b.maxDepth || len(idx) < b.minSamples || prob == 0 || prob == 1 {
		return &treeNode{leaf: true, prob: prob}
	}

	feature, threshold, ok := b.bestSplit(features, labels, idx)
	if !ok {
		return &treeNode{leaf: true, prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, prob: prob}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.grow(features, labels, left, depth+1),
		right:     b.grow(features, labels, right, depth+1),
	}
}

// bestSplit scans candidate features and the midpoints between their sorted
// distinct values, keeping the split with the lowest weighted gini impurity.
func (b *treeBuilder) bestSplit(features [][]float64, labels []float64, idx []int) (int, float64, bool) {
	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := gini(positiveFraction(labels, idx))

	for _, f := range b.candidateFeatures(len(features[0])) {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, features[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			var leftPos, leftTotal, rightPos, rightTotal float64
			for _, i := range idx {
				if features[i][f] <= threshold {
					leftTotal++
					if labels[i] >= 0.5 {
						leftPos++
					}
				} else {
					rightTotal++
					if labels[i] >= 0.5 {
						rightPos++
					}
				}
			}
			if leftTotal == 0 || rightTotal == 0 {
				continue
			}

			total := leftTotal + rightTotal
			impurity := leftTotal/total*gini(leftPos/leftTotal) + rightTotal/total*gini(rightPos/rightTotal)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) candidateFeatures(total int) []int {
	all := make([]int, total)
	for i := range all {
		all[i] = i
	}
	if b.featuresPerSplit <= 0 || b.featuresPerSplit >= total || b.rng == nil {
		return all
	}
	b.rng.Shuffle(total, func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:b.featuresPerSplit]
}

func positiveFraction(labels []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0.5
	}
	var pos float64
	for _, i := range idx {
		if labels[i] >= 0.5 {
			pos++
		}
	}
	return pos / float64(len(idx))
}

// gini is the impurity of a binary node with positive fraction p.
func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

// RandomForest averages the votes of bootstrap-trained trees.
type RandomForest struct {
	trees []*DecisionTree
}

// ForestConfig controls forest training.
type ForestConfig struct {
	Trees            int
	MaxDepth         int
	MinSamples       int
	FeaturesPerSplit int
}

// DefaultForestConfig works well on the bundled screening dataset.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 25, MaxDepth: 6, MinSamples: 4, FeaturesPerSplit: 4}
}

// TrainForest grows cfg.Trees trees, each on a bootstrap resample of the
// data with per-split feature subsampling.
func TrainForest(features [][]float64, labels []float64, cfg ForestConfig, rng *rand.Rand) *RandomForest {
	forest := &RandomForest{}
	n := len(features)
	if n == 0 {
		return forest
	}

	for t := 0; t < cfg.Trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		b := &treeBuilder{
			maxDepth:         cfg.MaxDepth,
			minSamples:       cfg.MinSamples,
			featuresPerSplit: cfg.FeaturesPerSplit,
			rng:              rng,
		}
		forest.trees = append(forest.trees, &DecisionTree{root: b.grow(features, labels, idx, 0)})
	}
	return forest
}

// PredictProb returns the mean probability across all trees.
func (f *RandomForest) PredictProb(x []float64) float64 {
	if len(f.trees) == 0 {
		return 0.5
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.PredictProb(x)
	}
	return sum / float64(len(f.trees))
}
