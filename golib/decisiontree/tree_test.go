package decisiontree

import (
	"bytes"
	"testing"

	"github.com/kiteco/cefr/golib/tfidf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparse(dense ...float64) tfidf.Vector {
	var v tfidf.Vector
	for i, x := range dense {
		if x != 0 {
			v.Indices = append(v.Indices, i)
			v.Values = append(v.Values, x)
		}
	}
	return v
}

func TestDepthOne(t *testing.T) {
	tree := Classifier{
		Nodes: []Node{{
			FeatureIndex: 0,
			Threshold:    2.5,
			LeftChild:    0,
			LeftIsLeaf:   true,
			RightChild:   1,
			RightIsLeaf:  true,
		}},
		Leaves:      [][]int{{3, 1}, {0, 2}},
		NumClasses:  2,
		FeatureSize: 2,
		Depth:       1,
	}

	assert.Equal(t, 0, tree.Bin(sparse(1, 0)))
	assert.Equal(t, 1, tree.Bin(sparse(5, 0)))

	c, err := tree.Predict(sparse(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, c)
	assert.Equal(t, []float64{0.75, 0.25}, tree.Proba(sparse(1, 0)))

	_, err = tree.Predict(sparse(0, 0, 1))
	assert.Error(t, err)
}

func TestTrainSeparable(t *testing.T) {
	x := []tfidf.Vector{
		sparse(0.9, 0, 0),
		sparse(0.8, 0.1, 0),
		sparse(0, 0.7, 0),
		sparse(0, 0.6, 0.2),
		sparse(0, 0, 0.5),
		sparse(0, 0, 0.4),
		sparse(0, 0, 0),
	}
	y := []int{0, 0, 1, 1, 2, 2, 1}

	tree, err := Train(x, y, 3, 3, DefaultParams())
	require.NoError(t, err)

	pred, err := tree.PredictAll(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	for _, counts := range tree.Leaves {
		assert.True(t, isPure(counts))
	}
	assert.True(t, tree.Depth >= 2)
}

func TestTrainNegativeValues(t *testing.T) {
	x := []tfidf.Vector{
		sparse(-1), sparse(-0.5), sparse(0), sparse(0.5),
	}
	y := []int{1, 1, 0, 0}

	tree, err := Train(x, y, 2, 1, DefaultParams())
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 0, tree.Nodes[0].FeatureIndex)
	assert.InDelta(t, -0.25, tree.Nodes[0].Threshold, 1e-12)

	pred, err := tree.PredictAll(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestTrainTieBreaking(t *testing.T) {
	// features 0 and 1 separate the classes equally well
	x := []tfidf.Vector{sparse(1, 1), sparse(0, 0)}
	y := []int{1, 0}

	tree, err := Train(x, y, 2, 2, DefaultParams())
	require.NoError(t, err)
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 0, tree.Nodes[0].FeatureIndex)
	assert.InDelta(t, 0.5, tree.Nodes[0].Threshold, 1e-12)
}

func TestTrainSingleLeaf(t *testing.T) {
	x := []tfidf.Vector{sparse(1), sparse(2)}
	tree, err := Train(x, []int{1, 1}, 3, 1, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, tree.Nodes)
	assert.Equal(t, 1, tree.NumLeaves())
	assert.Equal(t, 0, tree.Depth)

	c, err := tree.Predict(sparse(0))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestTrainIdenticalRowsMajority(t *testing.T) {
	x := []tfidf.Vector{sparse(1), sparse(1), sparse(1)}
	tree, err := Train(x, []int{2, 0, 2}, 3, 1, DefaultParams())
	require.NoError(t, err)

	c, err := tree.Predict(sparse(1))
	require.NoError(t, err)
	assert.Equal(t, 2, c)
}

func TestTrainTiedLeafPrefersLowestClass(t *testing.T) {
	x := []tfidf.Vector{sparse(1), sparse(1)}
	tree, err := Train(x, []int{2, 1}, 3, 1, DefaultParams())
	require.NoError(t, err)

	c, err := tree.Predict(sparse(1))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestTrainMaxDepth(t *testing.T) {
	x := []tfidf.Vector{sparse(1, 0), sparse(2, 0), sparse(3, 1), sparse(4, 1)}
	y := []int{0, 1, 0, 1}

	params := DefaultParams()
	params.MaxDepth = 1
	tree, err := Train(x, y, 2, 2, params)
	require.NoError(t, err)
	assert.Len(t, tree.Nodes, 1)
	assert.Equal(t, 1, tree.Depth)
}

func TestTrainErrors(t *testing.T) {
	_, err := Train(nil, nil, 2, 1, DefaultParams())
	assert.Error(t, err)

	_, err = Train([]tfidf.Vector{sparse(1)}, []int{0, 1}, 2, 1, DefaultParams())
	assert.Error(t, err)

	_, err = Train([]tfidf.Vector{sparse(1)}, []int{5}, 2, 1, DefaultParams())
	assert.Error(t, err)

	_, err = Train([]tfidf.Vector{sparse(0, 1)}, []int{0}, 2, 1, DefaultParams())
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	x := []tfidf.Vector{sparse(0.3, 0), sparse(0, 0.2), sparse(0.1, 0.9)}
	y := []int{0, 1, 2}
	tree, err := Train(x, y, 3, 2, DefaultParams())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tree.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, tree, loaded)

	pred, err := loaded.PredictAll(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	_, err = Load(bytes.NewBufferString(`{"nodes": []}`))
	assert.Error(t, err)
}
