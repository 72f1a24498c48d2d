package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordRuns(t *testing.T) {
	tokens := WordRuns("L'élève a 12 ans, n'est-ce pas ?")
	assert.Equal(t, Tokens{"L", "élève", "a", "12", "ans", "n", "est", "ce", "pas"}, tokens)
	assert.Empty(t, WordRuns(" ... "))
}

func TestWords(t *testing.T) {
	tokens := Words("L'élève a 12 ans.")
	require.Len(t, tokens, 7)
	assert.Equal(t, Tokens{"L", "'", "élève", "a", "12", "ans", "."}, tokens)
	assert.Empty(t, Words("   "))
}

func TestProcessor(t *testing.T) {
	p := NewProcessor(Lower, MinRunes(2))
	assert.Equal(t, Tokens{"élève", "12", "ans"}, p.Apply(WordRuns("L'Élève a 12 ANS")))
}

func TestNormalize(t *testing.T) {
	decomposed := "élève "
	assert.Equal(t, "élève", Normalize(decomposed))
	assert.Equal(t, "élève", Clean("ÉLÈVE"))
}
