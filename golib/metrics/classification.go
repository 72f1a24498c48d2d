// Package metrics scores multi-class predictions against ground truth.
package metrics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/kiteco/cefr/golib/errors"
)

// ClassScore holds the one-vs-rest scores of a single class.
type ClassScore struct {
	Class     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes a set of predictions. Classes lists, in increasing order,
// every class that occurs in the truth or in the predictions; the macro
// averages and the rows/columns of Confusion follow that order.
type Report struct {
	Classes   []int
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
	// Confusion[i][j] counts samples of true class Classes[i] predicted as Classes[j]
	Confusion [][]int
	PerClass  []ClassScore
}

// Evaluate compares pred to truth. A class with no predicted (resp. true)
// samples has a precision (resp. recall) of 0.
func Evaluate(truth, pred []int) (Report, error) {
	if len(truth) != len(pred) {
		return Report{}, errors.Errorf("got %d true labels but %d predictions", len(truth), len(pred))
	}
	if len(truth) == 0 {
		return Report{}, errors.New("cannot evaluate an empty set of predictions")
	}

	present := make(map[int]bool)
	for i := range truth {
		present[truth[i]] = true
		present[pred[i]] = true
	}
	var classes []int
	for c := range present {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}
	var correct int
	for i := range truth {
		confusion[pos[truth[i]]][pos[pred[i]]]++
		if truth[i] == pred[i] {
			correct++
		}
	}

	r := Report{
		Classes:   classes,
		Accuracy:  float64(correct) / float64(len(truth)),
		Confusion: confusion,
	}

	var precisions, recalls, f1s []float64
	for i, c := range classes {
		var predicted, actual int
		for j := range classes {
			predicted += confusion[j][i]
			actual += confusion[i][j]
		}
		tp := float64(confusion[i][i])

		s := ClassScore{Class: c, Support: actual}
		if predicted > 0 {
			s.Precision = tp / float64(predicted)
		}
		if actual > 0 {
			s.Recall = tp / float64(actual)
		}
		if s.Precision+s.Recall > 0 {
			s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
		}
		r.PerClass = append(r.PerClass, s)

		precisions = append(precisions, s.Precision)
		recalls = append(recalls, s.Recall)
		f1s = append(f1s, s.F1)
	}

	var err error
	if r.Precision, err = stats.Mean(precisions); err != nil {
		return Report{}, errors.Wrapf(err, "error averaging precision")
	}
	if r.Recall, err = stats.Mean(recalls); err != nil {
		return Report{}, errors.Wrapf(err, "error averaging recall")
	}
	if r.F1, err = stats.Mean(f1s); err != nil {
		return Report{}, errors.Wrapf(err, "error averaging f1")
	}
	return r, nil
}
