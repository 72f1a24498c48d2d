package decisiontree

import (
	"sort"

	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/tfidf"
)

// Params controls the growth of a tree.
type Params struct {
	// MaxDepth bounds the depth of the tree; 0 means unbounded
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// MinSamplesSplit is the minimum number of samples a node needs to be split
	MinSamplesSplit int `json:"min_samples_split" yaml:"min_samples_split"`
	// MinSamplesLeaf is the minimum number of samples on each side of a split
	MinSamplesLeaf int `json:"min_samples_leaf" yaml:"min_samples_leaf"`
}

// DefaultParams grows the tree until every leaf is pure or cannot be split.
func DefaultParams() Params {
	return Params{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// Train grows a classification tree on the sparse rows x with class labels y
// in [0, numClasses), choosing at every node the split with the lowest
// weighted gini impurity. Ties go to the lowest feature index, then the lowest
// threshold.
func Train(x []tfidf.Vector, y []int, numClasses, featureSize int, params Params) (*Classifier, error) {
	switch {
	case len(x) == 0:
		return nil, errors.New("cannot train a tree on no samples")
	case len(x) != len(y):
		return nil, errors.Errorf("got %d rows but %d labels", len(x), len(y))
	case numClasses < 1:
		return nil, errors.Errorf("need at least one class, got %d", numClasses)
	}
	for i, row := range x {
		if n := row.Len(); n > 0 && (row.Indices[n-1] >= featureSize || row.Indices[0] < 0) {
			return nil, errors.Errorf("row %d has a feature index outside [0, %d)", i, featureSize)
		}
	}
	for i, c := range y {
		if c < 0 || c >= numClasses {
			return nil, errors.Errorf("label %d of row %d outside [0, %d)", c, i, numClasses)
		}
	}
	if params.MinSamplesSplit < 2 {
		params.MinSamplesSplit = 2
	}
	if params.MinSamplesLeaf < 1 {
		params.MinSamplesLeaf = 1
	}

	b := &builder{
		x:      x,
		y:      y,
		params: params,
		tree: &Classifier{
			NumClasses:  numClasses,
			FeatureSize: featureSize,
		},
	}
	samples := make([]int, len(x))
	for i := range samples {
		samples[i] = i
	}
	b.build(samples, 0)
	return b.tree, nil
}

type builder struct {
	x      []tfidf.Vector
	y      []int
	params Params
	tree   *Classifier
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

// build adds the subtree for samples and returns its index and whether it is
// a leaf.
func (b *builder) build(samples []int, depth int) (int, bool) {
	counts := b.classCounts(samples)

	if depth > b.tree.Depth {
		b.tree.Depth = depth
	}

	best, ok := b.bestSplit(samples, counts, depth)
	if !ok {
		b.tree.Leaves = append(b.tree.Leaves, counts)
		return len(b.tree.Leaves) - 1, true
	}

	var left, right []int
	for _, s := range samples {
		if b.x[s].At(best.feature) < best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	id := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{
		FeatureIndex: best.feature,
		Threshold:    best.threshold,
	})
	leftID, leftLeaf := b.build(left, depth+1)
	rightID, rightLeaf := b.build(right, depth+1)

	node := &b.tree.Nodes[id]
	node.LeftChild, node.LeftIsLeaf = leftID, leftLeaf
	node.RightChild, node.RightIsLeaf = rightID, rightLeaf
	return id, false
}

func (b *builder) classCounts(samples []int) []int {
	counts := make([]int, b.tree.NumClasses)
	for _, s := range samples {
		counts[b.y[s]]++
	}
	return counts
}

// group is a run of samples sharing one feature value.
type group struct {
	value  float64
	counts []int
	n      int
}

type entry struct {
	value float64
	class int
}

func (b *builder) bestSplit(samples []int, counts []int, depth int) (split, bool) {
	n := len(samples)
	if n < b.params.MinSamplesSplit || isPure(counts) {
		return split{}, false
	}
	if b.params.MaxDepth > 0 && depth >= b.params.MaxDepth {
		return split{}, false
	}

	// inverted index of the nonzero entries of this node
	byFeature := make(map[int][]entry)
	for _, s := range samples {
		row := b.x[s]
		for k, f := range row.Indices {
			if v := row.Values[k]; v != 0 {
				byFeature[f] = append(byFeature[f], entry{value: v, class: b.y[s]})
			}
		}
	}
	features := make([]int, 0, len(byFeature))
	for f := range byFeature {
		features = append(features, f)
	}
	sort.Ints(features)

	var best split
	var found bool
	for _, f := range features {
		groups := b.groups(byFeature[f], counts, n)
		if s, ok := b.scanGroups(f, groups, counts, n); ok && (!found || s.score > best.score) {
			best, found = s, true
		}
	}
	return best, found
}

// groups returns the distinct values of one feature within a node in
// increasing order, including the implicit zeros, with their class counts.
func (b *builder) groups(nonzeros []entry, counts []int, n int) []group {
	sort.SliceStable(nonzeros, func(i, j int) bool {
		return nonzeros[i].value < nonzeros[j].value
	})

	zeros := group{counts: append([]int(nil), counts...), n: n - len(nonzeros)}
	for _, e := range nonzeros {
		zeros.counts[e.class]--
	}

	var groups []group
	zerosAdded := zeros.n == 0
	for _, e := range nonzeros {
		if !zerosAdded && e.value > 0 {
			groups = append(groups, zeros)
			zerosAdded = true
		}
		if last := len(groups) - 1; last >= 0 && groups[last].value == e.value {
			groups[last].counts[e.class]++
			groups[last].n++
			continue
		}
		g := group{value: e.value, counts: make([]int, len(counts)), n: 1}
		g.counts[e.class] = 1
		groups = append(groups, g)
	}
	if !zerosAdded {
		groups = append(groups, zeros)
	}
	return groups
}

// scanGroups evaluates every threshold between consecutive groups. The score
// is sum_k(left_k^2)/n_left + sum_k(right_k^2)/n_right, which is maximal
// exactly when the weighted gini impurity of the children is minimal.
func (b *builder) scanGroups(feature int, groups []group, counts []int, n int) (split, bool) {
	left := make([]int, len(counts))
	right := append([]int(nil), counts...)
	var nLeft int

	var best split
	var found bool
	for g := 0; g+1 < len(groups); g++ {
		for k, c := range groups[g].counts {
			left[k] += c
			right[k] -= c
		}
		nLeft += groups[g].n
		nRight := n - nLeft
		if nLeft < b.params.MinSamplesLeaf || nRight < b.params.MinSamplesLeaf {
			continue
		}

		score := sumSquares(left)/float64(nLeft) + sumSquares(right)/float64(nRight)
		if !found || score > best.score {
			lo, hi := groups[g].value, groups[g+1].value
			threshold := lo/2 + hi/2
			if threshold <= lo {
				threshold = hi
			}
			best = split{feature: feature, threshold: threshold, score: score}
			found = true
		}
	}
	return best, found
}

func sumSquares(counts []int) float64 {
	var sum float64
	for _, c := range counts {
		sum += float64(c) * float64(c)
	}
	return sum
}

func isPure(counts []int) bool {
	var nonzero int
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}
