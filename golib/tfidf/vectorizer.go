package tfidf

import (
	"sort"

	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/text"
)

// termProcessor lowercases word runs and keeps those of at least two runes.
var termProcessor = text.NewProcessor(text.Lower, text.MinRunes(2))

// Analyze turns a raw document into the terms used as features.
func Analyze(doc string) []string {
	return termProcessor.Apply(text.WordRuns(text.Normalize(doc)))
}

// Vectorizer maps documents to L2-normalized tf-idf vectors over a vocabulary
// learned by Fit. Feature indices follow the sorted order of the terms.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

// Fit learns the vocabulary and the idf weights of docs.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return errors.New("cannot fit a vectorizer on an empty corpus")
	}

	docFreq := make(map[string]int)
	for _, doc := range docs {
		for term := range TrainTFCounter(Analyze(doc)).Counts {
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return errors.New("empty vocabulary: documents contain no terms")
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	idf := TrainIDFCounter(len(docs), docFreq)
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = idf.Weight(term)
	}
	return nil
}

// FitTransform is Fit followed by TransformAll on the same documents.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.TransformAll(docs), nil
}

// NumFeatures returns the vocabulary size.
func (v *Vectorizer) NumFeatures() int {
	return len(v.IDF)
}

// Terms returns the vocabulary, indexed by feature.
func (v *Vectorizer) Terms() []string {
	terms := make([]string, len(v.Vocabulary))
	for term, i := range v.Vocabulary {
		terms[i] = term
	}
	return terms
}

// Transform vectorizes doc. Terms outside the vocabulary are ignored; a
// document with no known term yields the empty vector.
func (v *Vectorizer) Transform(doc string) Vector {
	tf := TrainTFCounter(Analyze(doc))

	weights := make(map[int]float64, len(tf.Counts))
	var vec Vector
	for term, count := range tf.Counts {
		if i, ok := v.Vocabulary[term]; ok {
			vec.Indices = append(vec.Indices, i)
			weights[i] = float64(count) * v.IDF[i]
		}
	}
	sort.Ints(vec.Indices)

	vec.Values = make([]float64, len(vec.Indices))
	for k, i := range vec.Indices {
		vec.Values[k] = weights[i]
	}

	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}

// TransformAll vectorizes each document.
func (v *Vectorizer) TransformAll(docs []string) []Vector {
	vecs := make([]Vector, len(docs))
	for i, doc := range docs {
		vecs[i] = v.Transform(doc)
	}
	return vecs
}
