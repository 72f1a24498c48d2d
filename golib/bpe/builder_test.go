package bpe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderMerge(t *testing.T) {
	b := NewBuilder()
	b.Add("▁le", "▁le", "▁les", "▁lit")
	assert.Equal(t, 3, b.Words())
	assert.Equal(t, 6, b.VocabSize()) // ▁ l e s i t

	b.Merge(MergeOptions{})

	log := b.MergeLog()
	require.NotEmpty(t, log)
	// "▁l" occurs four times, more than any other pair
	assert.Equal(t, MergedPair{Parent1: "▁", Parent2: "l", Joined: "▁l"}, log[0])
	assert.Equal(t, MergedPair{Parent1: "▁l", Parent2: "e", Joined: "▁le"}, log[1])

	tokens := b.CurrentTokens()
	assert.Equal(t, 3, tokens["▁le"])
	assert.Equal(t, 1, tokens["s"])
}

func TestBuilderMaxVocabSize(t *testing.T) {
	b := NewBuilder()
	b.Add(strings.Fields("▁abc ▁abc ▁abd ▁abd ▁xyz ▁xyz")...)
	base := b.VocabSize()

	b.Merge(MergeOptions{MaxVocabSize: base + 2})
	assert.Equal(t, base+2, b.VocabSize())
	assert.Len(t, b.MergeLog(), 2)
}

func TestBuilderMinPairFrequency(t *testing.T) {
	b := NewBuilder()
	b.Add("▁ab", "▁cd")
	b.Merge(MergeOptions{})
	assert.Empty(t, b.MergeLog())
}

func TestBuilderEncoderRoundTrip(t *testing.T) {
	words := strings.Fields("▁je ▁suis ▁allé ▁au ▁marché ▁je ▁suis ▁là ▁marché")
	b := NewBuilder()
	b.Add(words...)

	var lines int
	b.Merge(MergeOptions{Logf: func(string, ...interface{}) { lines++ }})
	assert.Equal(t, len(b.MergeLog()), lines)

	enc, err := b.Encoder(0)
	require.NoError(t, err)
	assert.Equal(t, b.VocabSize(), enc.Size())

	for _, w := range words {
		pieces, ok := enc.EncodeWord(w)
		require.True(t, ok, w)
		assert.Equal(t, w, strings.Join(pieces, ""))
	}

	// frequent words collapse into a single piece
	pieces, ok := enc.EncodeWord("▁marché")
	require.True(t, ok)
	assert.Equal(t, []string{"▁marché"}, pieces)
}

func TestBuilderDeterministic(t *testing.T) {
	build := func() []MergedPair {
		b := NewBuilder()
		b.Add(strings.Fields("▁ab ▁ba ▁ab ▁ba ▁cd ▁dc ▁cd ▁dc")...)
		b.Merge(MergeOptions{})
		return b.MergeLog()
	}
	assert.Equal(t, build(), build())
}
