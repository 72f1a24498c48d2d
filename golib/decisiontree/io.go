package decisiontree

import (
	"encoding/json"
	"io"

	"github.com/kiteco/cefr/golib/errors"
)

// Load reads a JSON encoded Classifier.
func Load(r io.Reader) (*Classifier, error) {
	var tree Classifier
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, errors.Wrapf(err, "error decoding decision tree")
	}
	if len(tree.Leaves) == 0 {
		return nil, errors.New("decision tree has no leaves")
	}
	return &tree, nil
}

// Save writes t as JSON.
func (t *Classifier) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(t)
}
