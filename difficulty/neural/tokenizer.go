package neural

import (
	spooky "github.com/dgryski/go-spooky"

	"github.com/kiteco/cefr/golib/bpe"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/text"
)

// Ids of the special tokens, which come before the subword pieces.
const (
	PadID = iota
	UnkID
	BOSID
	EOSID
	numSpecial
)

// WordPrefix marks the start of a word inside subword pieces.
const WordPrefix = "▁"

// Encoding is a fixed length id sequence with its attention mask.
type Encoding struct {
	InputIDs      []int
	AttentionMask []int
}

// Tokenizer turns sentences into ids: special tokens first, then the subword
// pieces, then HashBuckets ids for words the pieces cannot spell.
type Tokenizer struct {
	Vocab       []bpe.Entry `json:"vocab"`
	HashBuckets int         `json:"hash_buckets"`

	enc *bpe.Encoder
}

// Words splits a sentence into the prefixed words that get segmented:
// normalized, lowercased, punctuation split off.
func Words(sentence string) []string {
	words := text.Words(text.Clean(sentence))
	for i, w := range words {
		words[i] = WordPrefix + w
	}
	return words
}

// FitTokenizer learns up to vocabSize subword pieces from sentences.
func FitTokenizer(sentences []string, vocabSize, hashBuckets int, logf func(string, ...interface{})) (*Tokenizer, error) {
	b := bpe.NewBuilder()
	for _, s := range sentences {
		b.Add(Words(s)...)
	}
	if b.Words() == 0 {
		return nil, errors.New("no words to fit a tokenizer on")
	}
	b.Merge(bpe.MergeOptions{MaxVocabSize: vocabSize})
	if logf != nil {
		logf("learned %d subword pieces from %d distinct words (%d merges)", b.VocabSize(), b.Words(), len(b.MergeLog()))
	}

	t := &Tokenizer{Vocab: b.Vocab(), HashBuckets: hashBuckets}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

// init builds the encoder, which is not serialized.
func (t *Tokenizer) init() error {
	if t.enc != nil {
		return nil
	}
	if t.HashBuckets < 0 {
		return errors.Errorf("invalid hash bucket count %d", t.HashBuckets)
	}
	enc, err := bpe.NewEncoderFromVocab(t.Vocab, bpe.DefaultCacheSize)
	if err != nil {
		return errors.Wrapf(err, "error building subword encoder")
	}
	t.enc = enc
	return nil
}

// Size returns the number of distinct ids.
func (t *Tokenizer) Size() int {
	return numSpecial + t.enc.Size() + t.HashBuckets
}

// wordIDs returns the ids of one prefixed word.
func (t *Tokenizer) wordIDs(word string) []int {
	pieces, ok := t.enc.EncodeWord(word)
	if !ok {
		if t.HashBuckets == 0 {
			return []int{UnkID}
		}
		bucket := spooky.Hash64([]byte(word)) % uint64(t.HashBuckets)
		return []int{numSpecial + t.enc.Size() + int(bucket)}
	}
	ids := make([]int, len(pieces))
	for i, p := range pieces {
		id, _ := t.enc.ID(p)
		ids[i] = numSpecial + id
	}
	return ids
}

// Tokenize returns the ids of a sentence without special tokens.
func (t *Tokenizer) Tokenize(sentence string) []int {
	var ids []int
	for _, w := range Words(sentence) {
		ids = append(ids, t.wordIDs(w)...)
	}
	return ids
}

// Encode wraps the sentence ids in <s> and </s>, truncating the sentence so
// the result fits maxLen, and pads with <pad>. The mask is 1 on every
// non-padding position.
func (t *Tokenizer) Encode(sentence string, maxLen int) Encoding {
	ids := t.Tokenize(sentence)
	if len(ids) > maxLen-2 {
		ids = ids[:maxLen-2]
	}

	enc := Encoding{
		InputIDs:      make([]int, maxLen),
		AttentionMask: make([]int, maxLen),
	}
	enc.InputIDs[0] = BOSID
	copy(enc.InputIDs[1:], ids)
	enc.InputIDs[len(ids)+1] = EOSID
	for i := 0; i < len(ids)+2; i++ {
		enc.AttentionMask[i] = 1
	}
	for i := len(ids) + 2; i < maxLen; i++ {
		enc.InputIDs[i] = PadID
	}
	return enc
}
