// Package split partitions a dataset into train and test subsets.
package split

import (
	"math"
	"math/rand"

	"github.com/kiteco/cefr/golib/errors"
)

// Indices holds the row indices of each subset.
type Indices struct {
	Train []int
	Test  []int
}

// TestCount returns the number of held-out rows for n rows and the given
// test fraction, rounded up.
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(testSize * float64(n)))
}

// TrainTest shuffles the row indices 0..n-1 with the given seed and holds out
// the first ceil(testSize*n) of them. The same n, testSize and seed always
// give the same partition.
func TrainTest(n int, testSize float64, seed int64) (Indices, error) {
	if testSize <= 0 || testSize >= 1 {
		return Indices{}, errors.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	nTest := TestCount(n, testSize)
	if nTest < 1 || n-nTest < 1 {
		return Indices{}, errors.Errorf("cannot split %d rows with test size %v: both subsets need at least one row", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return Indices{
		Test:  perm[:nTest],
		Train: perm[nTest:],
	}, nil
}
