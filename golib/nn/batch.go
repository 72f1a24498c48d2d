package nn

import "math/rand"

// SequentialOrder returns 0..n-1.
func SequentialOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// RandomOrder returns a permutation of 0..n-1 drawn from rng.
func RandomOrder(rng *rand.Rand, n int) []int {
	return rng.Perm(n)
}

// Batches cuts order into consecutive batches of size examples; the last batch
// holds the remainder.
func Batches(examples []Example, order []int, size int) [][]Example {
	if size < 1 {
		size = 1
	}
	var batches [][]Example
	for start := 0; start < len(order); start += size {
		end := start + size
		if end > len(order) {
			end = len(order)
		}
		batch := make([]Example, 0, end-start)
		for _, i := range order[start:end] {
			batch = append(batch, examples[i])
		}
		batches = append(batches, batch)
	}
	return batches
}
