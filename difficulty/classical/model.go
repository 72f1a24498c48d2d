package classical

import (
	"github.com/kiteco/cefr/golib/decisiontree"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/labels"
	"github.com/kiteco/cefr/golib/serialization"
	"github.com/kiteco/cefr/golib/tfidf"
)

// Model bundles everything fitted on the labeled data.
type Model struct {
	Vectorizer *tfidf.Vectorizer        `json:"vectorizer"`
	Labels     *labels.Encoder          `json:"labels"`
	Tree       *decisiontree.Classifier `json:"tree"`
}

// Predict returns the difficulty label of each sentence.
func (m *Model) Predict(sentences []string) ([]string, error) {
	classes, err := m.Tree.PredictAll(m.Vectorizer.TransformAll(sentences))
	if err != nil {
		return nil, err
	}
	return m.Labels.InverseTransform(classes)
}

// Validate checks that the parts of a decoded model fit together.
func (m *Model) Validate() error {
	switch {
	case m.Vectorizer == nil || m.Labels == nil || m.Tree == nil:
		return errors.New("model is missing a component")
	case m.Tree.FeatureSize != m.Vectorizer.NumFeatures():
		return errors.Errorf("tree expects %d features but the vectorizer produces %d", m.Tree.FeatureSize, m.Vectorizer.NumFeatures())
	case m.Tree.NumClasses != m.Labels.NumClasses():
		return errors.Errorf("tree predicts %d classes but %d labels are known", m.Tree.NumClasses, m.Labels.NumClasses())
	}
	return nil
}

// LoadModel decodes a model saved by Save.
func LoadModel(path string) (*Model, error) {
	var m Model
	if err := serialization.Decode(path, &m); err != nil {
		return nil, errors.Wrapf(err, "error loading model %s", path)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid model %s", path)
	}
	return &m, nil
}

// Save encodes the model to path.
func (m *Model) Save(path string) error {
	return errors.Wrapf(serialization.Encode(path, m), "error saving model %s", path)
}
