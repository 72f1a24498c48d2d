package decisiontree

import (
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/tfidf"
)

// A Node represents a splitting decision of the form "x[FeatureIndex] < Threshold ?"
type Node struct {
	// FeatureIndex indicates which feature is used in this splitting decision
	FeatureIndex int `json:"feature_index"`
	// Threshold is the cutoff value between the left and right subtrees
	Threshold float64 `json:"threshold"`
	// LeftChild is the index of the node, or of the leaf, for the left subtree
	LeftChild int `json:"left_child"`
	// LeftIsLeaf indicates whether LeftChild indexes Leaves rather than Nodes
	LeftIsLeaf bool `json:"left_is_leaf"`
	// RightChild is the index of the node, or of the leaf, for the right subtree
	RightChild int `json:"right_child"`
	// RightIsLeaf indicates whether RightChild indexes Leaves rather than Nodes
	RightIsLeaf bool `json:"right_is_leaf"`
}

// Features is anything that can report the value of a feature by index.
type Features interface {
	At(i int) float64
}

// A Classifier maps feature vectors to classes with a decision tree. A tree
// with no Nodes is a single leaf.
type Classifier struct {
	// Nodes is a flat list of all internal nodes; Nodes[0] is the root
	Nodes []Node `json:"nodes"`
	// Leaves holds the training class counts that reached each leaf
	Leaves [][]int `json:"leaves"`
	// NumClasses is the number of classes the tree was trained on
	NumClasses int `json:"num_classes"`
	// FeatureSize is the length of feature vectors processed by this tree
	FeatureSize int `json:"feature_size"`
	// Depth is the maximum depth of any leaf in the tree
	Depth int `json:"depth"`
}

// Bin drops a feature vector down the tree and returns the index of the leaf
// that it ends up in.
func (t *Classifier) Bin(x Features) int {
	if len(t.Leaves) == 0 {
		panic("tree not initialized")
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	cur := t.Nodes[0]
	for i := 0; i < t.Depth; i++ {
		if x.At(cur.FeatureIndex) < cur.Threshold {
			if cur.LeftIsLeaf {
				return cur.LeftChild
			}
			cur = t.Nodes[cur.LeftChild]
		} else {
			if cur.RightIsLeaf {
				return cur.RightChild
			}
			cur = t.Nodes[cur.RightChild]
		}
	}
	panic("tree traversal did not terminate")
}

// Proba returns the fraction of training samples of each class in the leaf
// that x falls into.
func (t *Classifier) Proba(x Features) []float64 {
	counts := t.Leaves[t.Bin(x)]
	var total int
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		if total > 0 {
			out[i] = float64(c) / float64(total)
		}
	}
	return out
}

// Predict returns the majority class of the leaf x falls into, preferring the
// lowest class index on ties.
func (t *Classifier) Predict(x tfidf.Vector) (int, error) {
	if n := x.Len(); n > 0 && x.Indices[n-1] >= t.FeatureSize {
		return 0, errors.Errorf("feature index %d out of range for a tree over %d features", x.Indices[n-1], t.FeatureSize)
	}
	return argmax(t.Leaves[t.Bin(x)]), nil
}

// PredictAll predicts each row of x.
func (t *Classifier) PredictAll(x []tfidf.Vector) ([]int, error) {
	out := make([]int, len(x))
	for i, row := range x {
		c, err := t.Predict(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = c
	}
	return out, nil
}

// NumLeaves returns the number of leaves in the tree.
func (t *Classifier) NumLeaves() int {
	return len(t.Leaves)
}

func argmax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
