// Package nn implements a small sequence classifier: token embeddings are mean
// pooled under the attention mask and fed to a two layer classification head.
package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/kiteco/cefr/golib/errors"
)

// InitStdDev is the standard deviation of the initial weights.
const InitStdDev = 0.02

// Config describes the shape of a Classifier.
type Config struct {
	VocabSize    int     `json:"vocab_size" yaml:"vocab_size"`
	EmbeddingDim int     `json:"embedding_dim" yaml:"embedding_dim"`
	HiddenDim    int     `json:"hidden_dim" yaml:"hidden_dim"`
	NumLabels    int     `json:"num_labels" yaml:"num_labels"`
	Dropout      float64 `json:"dropout" yaml:"dropout"`
}

// Validate checks that every dimension is positive and the dropout is a probability.
func (c Config) Validate() error {
	switch {
	case c.VocabSize < 1, c.EmbeddingDim < 1, c.HiddenDim < 1:
		return errors.Errorf("invalid classifier dimensions %+v", c)
	case c.NumLabels < 2:
		return errors.Errorf("need at least 2 labels, got %d", c.NumLabels)
	case c.Dropout < 0 || c.Dropout >= 1:
		return errors.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

// Weights holds the parameters of a Classifier, all matrices row-major.
type Weights struct {
	// Embeddings is VocabSize x EmbeddingDim
	Embeddings []float64 `json:"embeddings"`
	// Dense is HiddenDim x EmbeddingDim
	Dense     []float64 `json:"dense"`
	DenseBias []float64 `json:"dense_bias"`
	// Out is NumLabels x HiddenDim
	Out     []float64 `json:"out"`
	OutBias []float64 `json:"out_bias"`
}

// NewWeights returns zero weights shaped for c.
func NewWeights(c Config) *Weights {
	return &Weights{
		Embeddings: make([]float64, c.VocabSize*c.EmbeddingDim),
		Dense:      make([]float64, c.HiddenDim*c.EmbeddingDim),
		DenseBias:  make([]float64, c.HiddenDim),
		Out:        make([]float64, c.NumLabels*c.HiddenDim),
		OutBias:    make([]float64, c.NumLabels),
	}
}

// Tensors lists the parameter slices in a fixed order.
func (w *Weights) Tensors() [][]float64 {
	return [][]float64{w.Embeddings, w.Dense, w.DenseBias, w.Out, w.OutBias}
}

func (w *Weights) zero() {
	for _, t := range w.Tensors() {
		for i := range t {
			t[i] = 0
		}
	}
}

func (w *Weights) shapeOK(c Config) bool {
	want := NewWeights(c).Tensors()
	for i, t := range w.Tensors() {
		if len(t) != len(want[i]) {
			return false
		}
	}
	return true
}

// Example is one encoded sequence. Mask marks real tokens with 1 and padding
// with 0. Label is ignored when predicting.
type Example struct {
	InputIDs []int
	Mask     []int
	Label    int
}

// Classifier maps token id sequences to label logits.
type Classifier struct {
	Config  Config   `json:"config"`
	Weights *Weights `json:"weights"`
}

// NewClassifier draws the matrices from N(0, InitStdDev^2) using seed, with
// zero biases.
func NewClassifier(c Config, seed int64) (*Classifier, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	w := NewWeights(c)
	for _, t := range [][]float64{w.Embeddings, w.Dense, w.Out} {
		for i := range t {
			t[i] = rng.NormFloat64() * InitStdDev
		}
	}
	return &Classifier{Config: c, Weights: w}, nil
}

// Validate checks the configuration and that the weights match it, which
// matters for classifiers decoded from disk.
func (m *Classifier) Validate() error {
	if err := m.Config.Validate(); err != nil {
		return err
	}
	if m.Weights == nil || !m.Weights.shapeOK(m.Config) {
		return errors.New("classifier weights do not match its configuration")
	}
	return nil
}

// activations keeps the intermediate values of one forward pass.
type activations struct {
	tokens []int
	pooled []float64
	drop1  []float64 // scaled dropout mask applied to pooled, nil in eval mode
	hidden []float64 // tanh output, before the second dropout
	drop2  []float64
	logits []float64
}

func dropoutMask(rng *rand.Rand, n int, p float64) []float64 {
	if rng == nil || p == 0 {
		return nil
	}
	mask := make([]float64, n)
	keep := 1 / (1 - p)
	for i := range mask {
		if rng.Float64() >= p {
			mask[i] = keep
		}
	}
	return mask
}

func applyMask(x, mask []float64) []float64 {
	out := append([]float64(nil), x...)
	if mask != nil {
		floats.Mul(out, mask)
	}
	return out
}

// forward runs the model on ex. Dropout is active only when rng is non-nil.
func (m *Classifier) forward(ex Example, rng *rand.Rand) *activations {
	c, w := m.Config, m.Weights
	d, h := c.EmbeddingDim, c.HiddenDim

	act := &activations{pooled: make([]float64, d)}
	for t, id := range ex.InputIDs {
		if t < len(ex.Mask) && ex.Mask[t] != 0 {
			act.tokens = append(act.tokens, id)
			floats.Add(act.pooled, w.Embeddings[id*d:(id+1)*d])
		}
	}
	if len(act.tokens) > 0 {
		floats.Scale(1/float64(len(act.tokens)), act.pooled)
	}

	act.drop1 = dropoutMask(rng, d, c.Dropout)
	in := applyMask(act.pooled, act.drop1)

	act.hidden = make([]float64, h)
	for j := 0; j < h; j++ {
		act.hidden[j] = math.Tanh(floats.Dot(w.Dense[j*d:(j+1)*d], in) + w.DenseBias[j])
	}

	act.drop2 = dropoutMask(rng, h, c.Dropout)
	hid := applyMask(act.hidden, act.drop2)

	act.logits = make([]float64, c.NumLabels)
	for k := range act.logits {
		act.logits[k] = floats.Dot(w.Out[k*h:(k+1)*h], hid) + w.OutBias[k]
	}
	return act
}

// crossEntropy returns -log softmax(logits)[label].
func crossEntropy(logits []float64, label int) float64 {
	return floats.LogSumExp(logits) - logits[label]
}

// backward accumulates into grads the gradient of scale * crossEntropy for
// the pass recorded in act.
func (m *Classifier) backward(ex Example, act *activations, scale float64, grads *Weights) {
	c, w := m.Config, m.Weights
	d, h := c.EmbeddingDim, c.HiddenDim

	// softmax - onehot
	lse := floats.LogSumExp(act.logits)
	dlogits := make([]float64, len(act.logits))
	for k, z := range act.logits {
		dlogits[k] = math.Exp(z-lse) * scale
	}
	dlogits[ex.Label] -= scale

	hid := applyMask(act.hidden, act.drop2)
	dhid := make([]float64, h)
	for k, g := range dlogits {
		floats.AddScaled(grads.Out[k*h:(k+1)*h], g, hid)
		grads.OutBias[k] += g
		floats.AddScaled(dhid, g, w.Out[k*h:(k+1)*h])
	}

	// through the second dropout and tanh
	dz := dhid
	for j := range dz {
		if act.drop2 != nil {
			dz[j] *= act.drop2[j]
		}
		dz[j] *= 1 - act.hidden[j]*act.hidden[j]
	}

	in := applyMask(act.pooled, act.drop1)
	din := make([]float64, d)
	for j, g := range dz {
		floats.AddScaled(grads.Dense[j*d:(j+1)*d], g, in)
		grads.DenseBias[j] += g
		floats.AddScaled(din, g, w.Dense[j*d:(j+1)*d])
	}

	if len(act.tokens) == 0 {
		return
	}
	if act.drop1 != nil {
		floats.Mul(din, act.drop1)
	}
	floats.Scale(1/float64(len(act.tokens)), din)
	for _, id := range act.tokens {
		floats.Add(grads.Embeddings[id*d:(id+1)*d], din)
	}
}

// Gradients computes the mean cross-entropy of batch and stores its gradient
// in grads, which is overwritten. Dropout is applied when rng is non-nil.
func (m *Classifier) Gradients(batch []Example, rng *rand.Rand, grads *Weights) float64 {
	grads.zero()
	if len(batch) == 0 {
		return 0
	}
	scale := 1 / float64(len(batch))
	var loss float64
	for _, ex := range batch {
		act := m.forward(ex, rng)
		loss += crossEntropy(act.logits, ex.Label)
		m.backward(ex, act, scale, grads)
	}
	return loss * scale
}

// Loss returns the mean cross-entropy of batch without dropout.
func (m *Classifier) Loss(batch []Example) float64 {
	if len(batch) == 0 {
		return 0
	}
	var loss float64
	for _, ex := range batch {
		loss += crossEntropy(m.forward(ex, nil).logits, ex.Label)
	}
	return loss / float64(len(batch))
}

// Logits returns the unnormalized label scores of ex without dropout.
func (m *Classifier) Logits(ex Example) []float64 {
	return m.forward(ex, nil).logits
}

// Predict returns the label with the highest logit, the lowest one on ties.
func (m *Classifier) Predict(ex Example) int {
	return floats.MaxIdx(m.Logits(ex))
}
