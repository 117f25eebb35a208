package ml

import (
	"fmt"
	"math"
	"math/rand"
)

// Softmax normalizes v into a probability distribution. The maximum is
// subtracted first so large inputs stay inside float range.
func Softmax(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}

	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}

	out := make([]float64, len(v))
	var sum float64
	for i, x := range v {
		out[i] = math.Exp(x - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// ScaledDotProductAttention computes softmax(Q K^T / sqrt(dk)) V: each query
// row attends over the key rows and the weights mix the value rows. Q and K
// must share their width, and V must have one row per K row.
func ScaledDotProductAttention(q, k, v [][]float64) ([][]float64, error) {
	if len(q) == 0 || len(k) == 0 || len(v) == 0 {
		return nil, fmt.Errorf("attention inputs must be non-empty")
	}
	if len(k) != len(v) {
		return nil, fmt.Errorf("key rows %d do not match value rows %d", len(k), len(v))
	}
	if len(q[0]) != len(k[0]) {
		return nil, fmt.Errorf("query width %d does not match key width %d", len(q[0]), len(k[0]))
	}
	return scaledDotProduct(q, k, v), nil
}

func scaledDotProduct(q, k, v [][]float64) [][]float64 {
	scale := 1 / math.Sqrt(float64(len(k[0])))
	out := make([][]float64, len(q))
	scores := make([]float64, len(k))

	for i := range q {
		for j := range k {
			scores[j] = dot(q[i], k[j]) * scale
		}
		weights := Softmax(scores)

		row := make([]float64, len(v[0]))
		for j, w := range weights {
			for d := range row {
				row[d] += w * v[j][d]
			}
		}
		out[i] = row
	}
	return out
}

// AttentionClassifier treats each feature as a token, mixes the tokens with
// one self-attention pass through frozen random projections, mean-pools the
// result, and classifies the pooled vector with a trained logistic head.
type AttentionClassifier struct {
	embed [][]float64
	wq    [][]float64
	wk    [][]float64
	wv    [][]float64
	head  *LogisticRegression
}

// AttentionConfig controls the encoder width and the head training.
type AttentionConfig struct {
	ModelDim         int
	HeadLearningRate float64
	HeadEpochs       int
}

// DefaultAttentionConfig works well on the bundled screening dataset.
func DefaultAttentionConfig() AttentionConfig {
	return AttentionConfig{ModelDim: 8, HeadLearningRate: 0.5, HeadEpochs: 200}
}

// TrainAttention draws the embeddings and projections from rng, encodes the
// training set, and fits the logistic head on the pooled vectors. The
// projections stay frozen, so the whole model is determined by the seed.
func TrainAttention(features [][]float64, labels []float64, cfg AttentionConfig, rng *rand.Rand) *AttentionClassifier {
	if len(features) == 0 {
		return &AttentionClassifier{head: &LogisticRegression{}}
	}

	tokens := len(features[0])
	c := &AttentionClassifier{
		embed: randomMatrix(tokens, cfg.ModelDim, rng),
		wq:    randomMatrix(cfg.ModelDim, cfg.ModelDim, rng),
		wk:    randomMatrix(cfg.ModelDim, cfg.ModelDim, rng),
		wv:    randomMatrix(cfg.ModelDim, cfg.ModelDim, rng),
	}

	pooled := make([][]float64, len(features))
	for i, x := range features {
		pooled[i] = c.encode(x)
	}
	c.head = TrainLogistic(pooled, labels, LogisticConfig{LearningRate: cfg.HeadLearningRate, Epochs: cfg.HeadEpochs}, rng)
	return c
}

// PredictProb returns the positive class probability for x.
func (c *AttentionClassifier) PredictProb(x []float64) float64 {
	if len(c.embed) == 0 {
		return 0.5
	}
	return c.head.PredictProb(c.encode(x))
}

// encode scales each token embedding by its feature value, runs one
// attention pass, and mean-pools the rows.
func (c *AttentionClassifier) encode(x []float64) []float64 {
	dim := len(c.wq)
	tokens := make([][]float64, len(c.embed))
	for j, row := range c.embed {
		scaled := make([]float64, dim)
		value := 0.0
		if j < len(x) {
			value = x[j]
		}
		for d := range row {
			scaled[d] = row[d] * value
		}
		tokens[j] = scaled
	}

	attended := scaledDotProduct(matMul(tokens, c.wq), matMul(tokens, c.wk), matMul(tokens, c.wv))

	pooled := make([]float64, dim)
	for _, row := range attended {
		for d, v := range row {
			pooled[d] += v
		}
	}
	for d := range pooled {
		pooled[d] /= float64(len(attended))
	}
	return pooled
}

func randomMatrix(rows, cols int, rng *rand.Rand) [][]float64 {
	scale := 1 / math.Sqrt(float64(cols))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64() * scale
		}
	}
	return m
}

func matMul(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = make([]float64, len(b[0]))
		for k, v := range row {
			for j := range b[k] {
				out[i][j] += v * b[k][j]
			}
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
