package bpe

import (
	"container/heap"
	"sort"
	"strings"
)

// Builder learns a subword vocabulary by repeatedly merging the most frequent
// pair of adjacent pieces across a collection of words.
type Builder struct {
	words    map[string]*tokenizedWord
	vocab    map[string]struct{}
	mergeLog []MergedPair
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		words: make(map[string]*tokenizedWord),
		vocab: make(map[string]struct{}),
	}
}

// Add counts one occurrence of each word. Every rune of a word becomes part of
// the base vocabulary.
func (b *Builder) Add(words ...string) {
	for _, w := range words {
		if w == "" {
			continue
		}
		tw, ok := b.words[w]
		if !ok {
			tw = newTokenizedWord(strings.Split(w, ""))
			b.words[w] = tw
			for _, tok := range tw.tokenized {
				b.vocab[tok] = struct{}{}
			}
		}
		tw.wordCount++
	}
}

// Words returns the number of distinct words added.
func (b *Builder) Words() int {
	return len(b.words)
}

// VocabSize returns the current number of pieces.
func (b *Builder) VocabSize() int {
	return len(b.vocab)
}

// MergeOptions bounds the merging.
type MergeOptions struct {
	// MaxVocabSize stops merging once the vocabulary reaches this size; 0 means no limit
	MaxVocabSize int
	// MinPairFrequency stops merging once the best pair occurs fewer times; values below 2 mean 2
	MinPairFrequency int
	// Logf, if set, receives one line per merge
	Logf func(format string, args ...interface{})
}

// Merge runs merges until a stopping condition of opts is met or no pair is
// left. Ties between equally frequent pairs go to the lexically smallest pair.
func (b *Builder) Merge(opts MergeOptions) {
	minFreq := opts.MinPairFrequency
	if minFreq < 2 {
		minFreq = 2
	}

	pairs := make(map[MergedPair]int)
	for _, tw := range b.words {
		for p, n := range tw.pairs {
			pairs[p] += tw.wordCount * n
		}
	}

	pac := &pairCountHeap{}
	pairToPac := make(map[MergedPair]*pairAndCount, len(pairs))
	for p, c := range pairs {
		e := &pairAndCount{pair: p, count: c}
		pairToPac[p] = e
		heap.Push(pac, e)
	}

	// iterate words in a fixed order so the merges are reproducible
	words := make([]string, 0, len(b.words))
	for w := range b.words {
		words = append(words, w)
	}
	sort.Strings(words)

	for pac.Len() > 0 {
		if opts.MaxVocabSize > 0 && len(b.vocab) >= opts.MaxVocabSize {
			return
		}
		top := pac.peek()
		if top.count < minFreq {
			return
		}
		heap.Pop(pac)
		delete(pairToPac, top.pair)

		if opts.Logf != nil {
			opts.Logf("[merge %d] vocab: %d, pair (%s,%s) count: %d",
				len(b.mergeLog), len(b.vocab), top.pair.Parent1, top.pair.Parent2, top.count)
		}
		b.mergeLog = append(b.mergeLog, top.pair)
		b.vocab[top.pair.Joined] = struct{}{}

		for _, w := range words {
			tw := b.words[w]
			if _, ok := tw.pairs[top.pair]; !ok {
				continue
			}
			for p, delta := range tw.mergePair(top.pair) {
				if p == top.pair || delta == 0 {
					continue
				}
				e, ok := pairToPac[p]
				if !ok {
					e = &pairAndCount{pair: p}
					pairToPac[p] = e
					e.count = delta
					heap.Push(pac, e)
					continue
				}
				e.count += delta
				if e.count <= 0 {
					heap.Remove(pac, e.index)
					delete(pairToPac, p)
					continue
				}
				heap.Fix(pac, e.index)
			}
		}
	}
}

// MergeLog returns the merges performed, in order.
func (b *Builder) MergeLog() []MergedPair {
	return b.mergeLog
}

// CurrentTokens returns a map from each piece in use to its count
func (b *Builder) CurrentTokens() map[string]int {
	tokens := make(map[string]int)
	for _, word := range b.words {
		for _, token := range word.tokenized {
			tokens[token] += word.wordCount
		}
	}
	return tokens
}

// Vocab returns every piece ever added to the vocabulary with its current
// count, most frequent first.
func (b *Builder) Vocab() []Entry {
	counts := b.CurrentTokens()

	vocab := make([]Entry, 0, len(b.vocab))
	for piece := range b.vocab {
		vocab = append(vocab, Entry{Piece: piece, Count: counts[piece]})
	}
	sort.Sort(SortPopularity(vocab))
	return vocab
}

// Encoder returns an Encoder over the current vocabulary.
func (b *Builder) Encoder(cacheSize int) (*Encoder, error) {
	return NewEncoderFromVocab(b.Vocab(), cacheSize)
}

// --

type tokenizedWord struct {
	tokenized []string
	pairs     map[MergedPair]int
	wordCount int
}

func newTokenizedWord(tokens []string) *tokenizedWord {
	tw := &tokenizedWord{tokenized: tokens}
	tw.pairs = tw.computePairs()
	return tw
}

// mergePair merges every non-overlapping occurrence of p, left to right, and
// returns the change in weighted pair counts.
func (t *tokenizedWord) mergePair(p MergedPair) map[MergedPair]int {
	merged := make([]string, 0, len(t.tokenized))
	for i := 0; i < len(t.tokenized); i++ {
		if i+1 < len(t.tokenized) && t.tokenized[i] == p.Parent1 && t.tokenized[i+1] == p.Parent2 {
			merged = append(merged, p.Joined)
			i++
			continue
		}
		merged = append(merged, t.tokenized[i])
	}
	t.tokenized = merged

	orig := t.pairs
	t.pairs = t.computePairs()

	deltas := make(map[MergedPair]int)
	for q, n := range orig {
		deltas[q] -= n * t.wordCount
	}
	for q, n := range t.pairs {
		deltas[q] += n * t.wordCount
	}
	return deltas
}

func (t *tokenizedWord) computePairs() map[MergedPair]int {
	pairs := make(map[MergedPair]int)
	for i := 1; i < len(t.tokenized); i++ {
		a, b := t.tokenized[i-1], t.tokenized[i]
		pairs[MergedPair{Parent1: a, Parent2: b, Joined: a + b}]++
	}
	return pairs
}

// MergedPair has the two parents and the joined piece
type MergedPair struct {
	Parent1 string
	Parent2 string
	Joined  string
}

type pairAndCount struct {
	pair  MergedPair
	count int
	index int
}

type pairCountHeap []*pairAndCount

func (h pairCountHeap) Len() int { return len(h) }

func (h pairCountHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	if h[i].pair.Parent1 != h[j].pair.Parent1 {
		return h[i].pair.Parent1 < h[j].pair.Parent1
	}
	return h[i].pair.Parent2 < h[j].pair.Parent2
}

func (h pairCountHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pairCountHeap) Push(x interface{}) {
	e := x.(*pairAndCount)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *pairCountHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

func (h pairCountHeap) peek() *pairAndCount {
	return h[0]
}
