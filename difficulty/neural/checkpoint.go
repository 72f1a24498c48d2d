package neural

import (
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/nn"
	"github.com/kiteco/cefr/golib/serialization"
)

// Checkpoint is a trained tokenizer and classifier, which a later run can
// start from.
type Checkpoint struct {
	Tokenizer *Tokenizer     `json:"tokenizer"`
	Model     *nn.Classifier `json:"model"`
}

// Validate checks that the tokenizer and the model agree.
func (c *Checkpoint) Validate() error {
	if c.Tokenizer == nil || c.Model == nil {
		return errors.New("checkpoint is missing its tokenizer or model")
	}
	if err := c.Tokenizer.init(); err != nil {
		return err
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Tokenizer.Size() != c.Model.Config.VocabSize {
		return errors.Errorf("tokenizer has %d ids but the model embeds %d", c.Tokenizer.Size(), c.Model.Config.VocabSize)
	}
	if c.Model.Config.NumLabels != numLabels {
		return errors.Errorf("model predicts %d labels, expected %d", c.Model.Config.NumLabels, numLabels)
	}
	return nil
}

// LoadCheckpoint decodes a checkpoint saved by Save. The format follows the
// extension (.json, .gob, .yml, optionally .gz).
func LoadCheckpoint(path string) (*Checkpoint, error) {
	var c Checkpoint
	if err := serialization.Decode(path, &c); err != nil {
		return nil, errors.Wrapf(err, "error loading checkpoint %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid checkpoint %s", path)
	}
	return &c, nil
}

// Save encodes the checkpoint to path.
func (c *Checkpoint) Save(path string) error {
	return errors.Wrapf(serialization.Encode(path, c), "error saving checkpoint %s", path)
}
