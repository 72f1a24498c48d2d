package classical

import (
	"github.com/kiteco/cefr/golib/decisiontree"
	"github.com/kiteco/cefr/golib/errors"
)

// Params are the settings of the classical pipeline.
type Params struct {
	Seed     int64               `json:"seed" yaml:"seed"`
	TestSize float64             `json:"test_size" yaml:"test_size"`
	Tree     decisiontree.Params `json:"tree" yaml:"tree"`
}

// DefaultParams holds out a fifth of the data with seed 42 and grows a full tree.
func DefaultParams() Params {
	return Params{
		Seed:     42,
		TestSize: 0.2,
		Tree:     decisiontree.DefaultParams(),
	}
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.TestSize <= 0 || p.TestSize >= 1 {
		return errors.Errorf("test size must be in (0, 1), got %v", p.TestSize)
	}
	if p.Tree.MaxDepth < 0 {
		return errors.Errorf("max depth cannot be negative")
	}
	return nil
}
