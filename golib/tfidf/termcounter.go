package tfidf

import "math"

// IDFCounter keeps the smoothed inverse document frequency of each term seen
// during fitting.
type IDFCounter struct {
	NumDocs int
	DocFreq map[string]int
}

// TrainIDFCounter returns an IDFCounter for a corpus of numDocs documents,
// where docFreq maps each term to the number of documents containing it.
func TrainIDFCounter(numDocs int, docFreq map[string]int) *IDFCounter {
	return &IDFCounter{
		NumDocs: numDocs,
		DocFreq: docFreq,
	}
}

// Weight returns ln((1+n)/(1+df)) + 1. Unseen terms get the weight of a term
// with df = 0.
func (c *IDFCounter) Weight(term string) float64 {
	n := float64(c.NumDocs)
	df := float64(c.DocFreq[term])
	return math.Log((1+n)/(1+df)) + 1
}

// TFCounter holds raw term counts for a single document.
type TFCounter struct {
	Counts map[string]int
}

// TrainTFCounter counts the occurrences of each token.
func TrainTFCounter(tokens []string) *TFCounter {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return &TFCounter{Counts: counts}
}

// Weight returns the raw count of term.
func (c *TFCounter) Weight(term string) float64 {
	return float64(c.Counts[term])
}
