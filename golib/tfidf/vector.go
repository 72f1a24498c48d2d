package tfidf

import (
	"math"
	"sort"
)

// Vector is a sparse feature vector. Indices are strictly increasing and
// Values[i] is the weight of feature Indices[i].
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored (nonzero) entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// At returns the weight of feature i, which is 0 if i is not stored.
func (v Vector) At(i int) float64 {
	pos := sort.SearchInts(v.Indices, i)
	if pos < len(v.Indices) && v.Indices[pos] == i {
		return v.Values[pos]
	}
	return 0
}

// Norm returns the euclidean norm of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dense expands v into a slice of length dim.
func (v Vector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for k, i := range v.Indices {
		if i < dim {
			out[i] = v.Values[k]
		}
	}
	return out
}
