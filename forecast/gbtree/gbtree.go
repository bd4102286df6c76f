// Package gbtree implements gradient-boosted regression trees with a squared-error
// objective, exact greedy split finding and L2-regularised leaf weights.
package gbtree

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Params controls boosting.
type Params struct {
	NumRounds      int
	LearningRate   float64
	MaxDepth       int
	Lambda         float64 // L2 regularisation on leaf weights
	MinChildWeight float64 // minimum hessian sum per child
}

// DefaultParams mirrors the common defaults of tree-boosting libraries
// with 100 estimators.
func DefaultParams() Params {
	return Params{
		NumRounds:      100,
		LearningRate:   0.3,
		MaxDepth:       6,
		Lambda:         1,
		MinChildWeight: 1,
	}
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	leaf      bool
	weight    float64
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.weight
}

// Regressor is a boosted ensemble of regression trees.
type Regressor struct {
	Params    Params
	BaseScore float64

	trees     []*node
	nFeatures int
}

// New creates an unfitted regressor.
func New(params Params) *Regressor {
	return &Regressor{Params: params}
}

// NumTrees returns the number of boosting rounds that were fitted.
func (r *Regressor) NumTrees() int {
	return len(r.trees)
}

// Fit trains the ensemble on X (row-major) and y.
func (r *Regressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("no training rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ", len(X), len(y))
	}
	r.nFeatures = len(X[0])
	for i, row := range X {
		if len(row) != r.nFeatures {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), r.nFeatures)
		}
	}
	sum := 0.0
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("target contains non-finite values")
		}
		sum += v
	}

	r.BaseScore = sum / float64(len(y))
	r.trees = r.trees[:0]

	preds := make([]float64, len(y))
	for i := range preds {
		preds[i] = r.BaseScore
	}
	grad := make([]float64, len(y))
	indices := make([]int, len(y))

	for round := 0; round < r.Params.NumRounds; round++ {
		for i := range grad {
			grad[i] = preds[i] - y[i]
			indices[i] = i
		}
		tree := r.build(X, grad, indices, 0)
		r.trees = append(r.trees, tree)
		for i, row := range X {
			preds[i] += tree.predict(row)
		}
	}
	return nil
}

// build grows a tree over the given sample indices. The hessian of the
// squared-error loss is 1 per sample, so H is the sample count.
func (r *Regressor) build(X [][]float64, grad []float64, indices []int, depth int) *node {
	G := 0.0
	for _, i := range indices {
		G += grad[i]
	}
	H := float64(len(indices))
	leaf := &node{leaf: true, weight: -G / (H + r.Params.Lambda) * r.Params.LearningRate}

	if depth >= r.Params.MaxDepth || H < 2*r.Params.MinChildWeight {
		return leaf
	}

	parentScore := G * G / (H + r.Params.Lambda)
	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(indices))
	for f := 0; f < r.nFeatures; f++ {
		copy(sorted, indices)
		sort.SliceStable(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		GL, HL := 0.0, 0.0
		for k := 0; k < len(sorted)-1; k++ {
			GL += grad[sorted[k]]
			HL++
			cur, next := X[sorted[k]][f], X[sorted[k+1]][f]
			if cur == next {
				continue
			}
			HR := H - HL
			if HL < r.Params.MinChildWeight || HR < r.Params.MinChildWeight {
				continue
			}
			GR := G - GL
			gain := 0.5 * (GL*GL/(HL+r.Params.Lambda) + GR*GR/(HR+r.Params.Lambda) - parentScore)
			if gain > bestGain+1e-12 {
				bestGain = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}

	var left, right []int
	for _, i := range indices {
		if X[i][bestFeature] < bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      r.build(X, grad, left, depth+1),
		right:     r.build(X, grad, right, depth+1),
	}
}

// Predict returns the prediction for a single feature row.
func (r *Regressor) Predict(x []float64) (float64, error) {
	if len(x) != r.nFeatures {
		return 0, fmt.Errorf("row has %d features, expected %d", len(x), r.nFeatures)
	}
	pred := r.BaseScore
	for _, tree := range r.trees {
		pred += tree.predict(x)
	}
	return pred, nil
}
