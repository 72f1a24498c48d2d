package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenFunc defines a type of function that takes in an array of tokens and
// returns an array of tokens.
type TokenFunc func(Tokens) Tokens

// Tokens represents a slice of strings
type Tokens []string

// Processor consists of a list of text processing rules.
type Processor struct {
	filters []TokenFunc
}

// NewProcessor takes a list of TokenFuncs to instantiate a Processor.
func NewProcessor(funcs ...TokenFunc) *Processor {
	return &Processor{filters: append([]TokenFunc(nil), funcs...)}
}

// Apply applies a list of TokenFunc to transform the input tokens
func (f *Processor) Apply(ts Tokens) Tokens {
	for _, fn := range f.filters {
		ts = fn(ts)
	}
	return ts
}

// Lower lowercases every token.
func Lower(ts Tokens) Tokens {
	out := make(Tokens, 0, len(ts))
	for _, t := range ts {
		out = append(out, LowerString(t))
	}
	return out
}

// MinRunes returns a TokenFunc dropping tokens shorter than n runes.
func MinRunes(n int) TokenFunc {
	return func(ts Tokens) Tokens {
		out := ts[:0:0]
		for _, t := range ts {
			if utf8.RuneCountInString(t) >= n {
				out = append(out, t)
			}
		}
		return out
	}
}

// IsWordRune reports whether r belongs to a word: a letter, a number or an
// underscore.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// WordRuns splits s into maximal runs of word runes, discarding everything
// else. "L'élève a 12 ans." -> {"L", "élève", "a", "12", "ans"}
func WordRuns(s string) Tokens {
	return Tokens(strings.FieldsFunc(s, func(r rune) bool {
		return !IsWordRune(r)
	}))
}

// Words splits s into runs of word runes, and additionally keeps every other
// non-space rune as a token of its own.
// "L'élève a 12 ans." -> {"L", "'", "élève", "a", "12", "ans", "."}
func Words(s string) Tokens {
	var tokens Tokens
	start := -1
	for i, r := range s {
		if IsWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, s[start:i])
			start = -1
		}
		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
