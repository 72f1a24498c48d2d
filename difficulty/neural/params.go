package neural

import "github.com/kiteco/cefr/golib/errors"

// Params are the hyperparameters of the neural pipeline.
type Params struct {
	Epochs    int     `json:"epochs" yaml:"epochs"`
	MaxLen    int     `json:"max_len" yaml:"max_len"`
	BatchSize int     `json:"batch_size" yaml:"batch_size"`
	Seed      int64   `json:"seed" yaml:"seed"`
	TestSize  float64 `json:"test_size" yaml:"test_size"`
	Dropout   float64 `json:"dropout" yaml:"dropout"`

	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
	HiddenDim    int `json:"hidden_dim" yaml:"hidden_dim"`
	// VocabSize bounds the number of learned subword pieces
	VocabSize   int `json:"vocab_size" yaml:"vocab_size"`
	HashBuckets int `json:"hash_buckets" yaml:"hash_buckets"`

	// LearningRate, when set, overrides both defaults below
	LearningRate         float64 `json:"learning_rate" yaml:"learning_rate"`
	FineTuneLearningRate float64 `json:"fine_tune_learning_rate" yaml:"fine_tune_learning_rate"`
	ScratchLearningRate  float64 `json:"scratch_learning_rate" yaml:"scratch_learning_rate"`
}

// DefaultParams returns the standard configuration.
func DefaultParams() Params {
	return Params{
		Epochs:    6,
		MaxLen:    64,
		BatchSize: 16,
		Seed:      42,
		TestSize:  0.2,
		Dropout:   0.1,

		EmbeddingDim: 64,
		HiddenDim:    64,
		VocabSize:    8000,
		HashBuckets:  256,

		FineTuneLearningRate: 2e-5,
		ScratchLearningRate:  1e-3,
	}
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	switch {
	case p.Epochs < 1:
		return errors.Errorf("epochs must be positive, got %d", p.Epochs)
	case p.MaxLen < 2:
		return errors.Errorf("max len must leave room for the boundary tokens, got %d", p.MaxLen)
	case p.BatchSize < 1:
		return errors.Errorf("batch size must be positive, got %d", p.BatchSize)
	case p.TestSize <= 0 || p.TestSize >= 1:
		return errors.Errorf("test size must be in (0, 1), got %v", p.TestSize)
	case p.Dropout < 0 || p.Dropout >= 1:
		return errors.Errorf("dropout must be in [0, 1), got %v", p.Dropout)
	case p.EmbeddingDim < 1 || p.HiddenDim < 1:
		return errors.Errorf("embedding and hidden dims must be positive")
	case p.VocabSize < 1 || p.HashBuckets < 0:
		return errors.Errorf("invalid vocab size %d or hash buckets %d", p.VocabSize, p.HashBuckets)
	case p.LearningRate < 0 || p.FineTuneLearningRate <= 0 || p.ScratchLearningRate <= 0:
		return errors.Errorf("learning rates must be positive")
	}
	return nil
}

// learningRate picks the rate for a run starting from a checkpoint or not.
func (p Params) learningRate(pretrained bool) float64 {
	switch {
	case p.LearningRate > 0:
		return p.LearningRate
	case pretrained:
		return p.FineTuneLearningRate
	default:
		return p.ScratchLearningRate
	}
}
