// Package labels maps string class labels to contiguous integer indices.
package labels

import (
	"sort"

	"github.com/kiteco/cefr/golib/errors"
)

// Encoder assigns each distinct label its position in the sorted list of
// labels seen by Fit.
type Encoder struct {
	Classes []string
	index   map[string]int
}

// Fit learns the classes from the given labels.
func (e *Encoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.New("cannot fit a label encoder on no labels")
	}
	seen := make(map[string]bool)
	var classes []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	e.Classes = classes
	e.index = nil
	return nil
}

// FitTransform is Fit followed by Transform.
func (e *Encoder) FitTransform(labels []string) ([]int, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// NumClasses returns the number of fitted classes.
func (e *Encoder) NumClasses() int {
	return len(e.Classes)
}

func (e *Encoder) lookup() map[string]int {
	if e.index == nil {
		e.index = make(map[string]int, len(e.Classes))
		for i, c := range e.Classes {
			e.index[c] = i
		}
	}
	return e.index
}

// Transform maps labels to class indices, failing on any label Fit never saw.
func (e *Encoder) Transform(labels []string) ([]int, error) {
	index := e.lookup()
	out := make([]int, len(labels))
	for i, l := range labels {
		c, ok := index[l]
		if !ok {
			return nil, errors.Errorf("unseen label %q at row %d", l, i)
		}
		out[i] = c
	}
	return out, nil
}

// InverseTransform maps class indices back to labels.
func (e *Encoder) InverseTransform(indices []int) ([]string, error) {
	out := make([]string, len(indices))
	for i, c := range indices {
		if c < 0 || c >= len(e.Classes) {
			return nil, errors.Errorf("label index %d out of range [0, %d) at row %d", c, len(e.Classes), i)
		}
		out[i] = e.Classes[c]
	}
	return out, nil
}
