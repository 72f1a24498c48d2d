package bpe

import (
	"sort"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"

	"github.com/kiteco/cefr/golib/errors"
)

// DefaultCacheSize is the number of segmented words an Encoder remembers.
const DefaultCacheSize = 1 << 14

// Encoder segments words into vocabulary pieces using as few pieces as
// possible. It is safe for concurrent use.
type Encoder struct {
	entries  []Entry
	vocab    []string
	vocabMap map[string]int
	maxRunes int

	cache *lru.Cache
}

type cached struct {
	pieces []string
	ok     bool
}

// NewEncoderFromVocab builds an Encoder whose piece ids follow the popularity
// order of entries. cacheSize <= 0 selects DefaultCacheSize.
func NewEncoderFromVocab(entries []Entry, cacheSize int) (*Encoder, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating word cache")
	}

	entries = copyVocab(entries)
	sort.Stable(SortPopularity(entries))

	enc := &Encoder{
		entries:  entries,
		vocab:    make([]string, 0, len(entries)),
		vocabMap: make(map[string]int, len(entries)),
		cache:    cache,
	}
	for _, e := range entries {
		if _, dup := enc.vocabMap[e.Piece]; dup || e.Piece == "" {
			return nil, errors.Errorf("invalid or duplicate vocabulary piece %q", e.Piece)
		}
		enc.vocabMap[e.Piece] = len(enc.vocab)
		enc.vocab = append(enc.vocab, e.Piece)
		if n := utf8.RuneCountInString(e.Piece); n > enc.maxRunes {
			enc.maxRunes = n
		}
	}
	return enc, nil
}

// Entries returns a copy of the vocabulary entries, in id order.
func (e *Encoder) Entries() []Entry {
	return copyVocab(e.entries)
}

// Vocab returns the pieces in id order.
func (e *Encoder) Vocab() []string {
	return e.vocab
}

// Size returns the number of pieces.
func (e *Encoder) Size() int {
	return len(e.vocab)
}

// ID returns the id of a piece.
func (e *Encoder) ID(piece string) (int, bool) {
	id, ok := e.vocabMap[piece]
	return id, ok
}

// EncodeWord segments word. It returns false if some rune of the word is not
// covered by the vocabulary.
func (e *Encoder) EncodeWord(word string) ([]string, bool) {
	if v, ok := e.cache.Get(word); ok {
		c := v.(cached)
		return c.pieces, c.ok
	}
	pieces, ok := e.encodeWordImpl(word)
	e.cache.Add(word, cached{pieces: pieces, ok: ok})
	return pieces, ok
}

// Encode segments each word and concatenates the pieces, skipping words that
// cannot be segmented.
func (e *Encoder) Encode(words []string) []string {
	var tokens []string
	for _, w := range words {
		if pieces, ok := e.EncodeWord(w); ok {
			tokens = append(tokens, pieces...)
		}
	}
	return tokens
}

// EncodeIdx is Encode returning piece ids.
func (e *Encoder) EncodeIdx(words []string) []int {
	var idx []int
	for _, piece := range e.Encode(words) {
		idx = append(idx, e.vocabMap[piece])
	}
	return idx
}

// encodeWordImpl finds a minimal segmentation by dynamic programming over the
// rune boundaries of word, scanning suffixes right to left. Among minimal
// segmentations the one with the longest leading pieces wins.
func (e *Encoder) encodeWordImpl(word string) ([]string, bool) {
	if word == "" {
		return nil, true
	}

	// byte offsets of the rune boundaries, including len(word)
	bounds := make([]int, 0, len(word)+1)
	for i := range word {
		bounds = append(bounds, i)
	}
	bounds = append(bounds, len(word))
	n := len(bounds) - 1

	const unreachable = -1
	cost := make([]int, n+1)
	next := make([]int, n+1)
	for i := 0; i < n; i++ {
		cost[i] = unreachable
	}

	for i := n - 1; i >= 0; i-- {
		maxEnd := i + e.maxRunes
		if maxEnd > n {
			maxEnd = n
		}
		for j := maxEnd; j > i; j-- {
			if cost[j] == unreachable {
				continue
			}
			if _, ok := e.vocabMap[word[bounds[i]:bounds[j]]]; !ok {
				continue
			}
			if c := cost[j] + 1; cost[i] == unreachable || c < cost[i] {
				cost[i] = c
				next[i] = j
			}
		}
	}
	if cost[0] == unreachable {
		return nil, false
	}

	pieces := make([]string, 0, cost[0])
	for i := 0; i < n; i = next[i] {
		pieces = append(pieces, word[bounds[i]:bounds[next[i]]])
	}
	return pieces, true
}

func copyVocab(vocab []Entry) []Entry {
	dest := make([]Entry, len(vocab))
	copy(dest, vocab)
	return dest
}
