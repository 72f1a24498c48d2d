// Package classical classifies sentence difficulty with tf-idf features and a
// decision tree.
package classical

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/kiteco/cefr/difficulty"
	"github.com/kiteco/cefr/golib/decisiontree"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/kitelog"
	"github.com/kiteco/cefr/golib/labels"
	"github.com/kiteco/cefr/golib/metrics"
	"github.com/kiteco/cefr/golib/split"
	"github.com/kiteco/cefr/golib/tfidf"
)

// Options are the inputs of Run besides the data.
type Options struct {
	Params Params
	// Out receives the evaluation report; nil discards it
	Out    io.Writer
	Logger *kitelog.Logger
	Events *kitelog.Events
	// ClassReport adds a per-class table to the evaluation report
	ClassReport bool
}

// Result is the outcome of a run.
type Result struct {
	Predictions []difficulty.Prediction
	Report      metrics.Report
	Model       *Model
}

// Run fits the vectorizer, the label encoder and the tree, evaluates the tree
// on a held-out fifth of labeled, and predicts every unlabeled sentence.
func Run(labeled []difficulty.LabeledSentence, unlabeled []difficulty.UnlabeledSentence, opts Options) (*Result, error) {
	p := opts.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(labeled) == 0 {
		return nil, difficulty.ErrEmptyDataset
	}
	log := opts.Logger
	if log == nil {
		log = kitelog.New(ioutil.Discard, "tree")
	}
	out := opts.Out
	if out == nil {
		out = ioutil.Discard
	}

	model := &Model{
		Vectorizer: &tfidf.Vectorizer{},
		Labels:     &labels.Encoder{},
	}

	var y []int
	var x []tfidf.Vector
	err := log.Stage("vectorize", func() error {
		var err error
		if y, err = model.Labels.FitTransform(difficulty.Difficulties(labeled)); err != nil {
			return err
		}
		// the vocabulary is learned from every labeled sentence, held-out ones included
		if x, err = model.Vectorizer.FitTransform(difficulty.Sentences(labeled)); err != nil {
			return err
		}
		log.Printf("%d classes, %d features", model.Labels.NumClasses(), model.Vectorizer.NumFeatures())
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error fitting features")
	}

	idx, err := split.TrainTest(len(x), p.TestSize, p.Seed)
	if err != nil {
		return nil, err
	}
	xTrain, yTrain := subset(x, y, idx.Train)
	xTest, yTest := subset(x, y, idx.Test)

	err = log.Stage("train", func() error {
		var err error
		model.Tree, err = decisiontree.Train(xTrain, yTrain, model.Labels.NumClasses(), model.Vectorizer.NumFeatures(), p.Tree)
		if err == nil {
			log.Printf("grew a tree of depth %d with %d leaves", model.Tree.Depth, model.Tree.NumLeaves())
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error training decision tree")
	}

	res := &Result{Model: model}
	err = log.Stage("evaluate", func() error {
		pred, err := model.Tree.PredictAll(xTest)
		if err != nil {
			return err
		}
		res.Report, err = metrics.Evaluate(yTest, pred)
		if err != nil {
			return err
		}

		name := metrics.SliceNamer(model.Labels.Classes)
		fmt.Fprintln(out, "Decision Tree Metrics:")
		res.Report.WriteSummary(out, name)
		if opts.ClassReport {
			res.Report.WriteClassReport(out, name)
		}
		opts.Events.Evaluation(res.Report.Precision, res.Report.Recall, res.Report.F1, res.Report.Accuracy)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error evaluating decision tree")
	}

	err = log.Stage("predict", func() error {
		levels, err := model.Predict(difficulty.UnlabeledSentences(unlabeled))
		if err != nil {
			return err
		}
		res.Predictions = make([]difficulty.Prediction, len(unlabeled))
		for i, row := range unlabeled {
			res.Predictions[i] = difficulty.Prediction{ID: row.ID, Difficulty: levels[i]}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error predicting")
	}
	return res, nil
}

func subset(x []tfidf.Vector, y []int, idx []int) ([]tfidf.Vector, []int) {
	xs := make([]tfidf.Vector, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i], ys[i] = x[j], y[j]
	}
	return xs, ys
}
