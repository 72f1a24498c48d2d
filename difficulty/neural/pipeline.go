// Package neural classifies sentence difficulty with a subword embedding
// classifier trained end to end.
package neural

import (
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"

	"github.com/montanaflynn/stats"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"

	"github.com/kiteco/cefr/difficulty"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/kitelog"
	"github.com/kiteco/cefr/golib/nn"
	"github.com/kiteco/cefr/golib/split"
)

var numLabels = len(difficulty.Levels)

// Options are the inputs of Run besides the data.
type Options struct {
	Params Params
	// Pretrained, if set, provides the tokenizer and the initial weights
	Pretrained *Checkpoint
	// Out receives the per-epoch loss lines; nil discards them
	Out    io.Writer
	Logger *kitelog.Logger
	Events *kitelog.Events
	// Progress shows progress bars on stderr
	Progress bool
}

// Result is the outcome of a run.
type Result struct {
	Predictions []difficulty.Prediction
	TrainLosses []float64
	ValLosses   []float64
	Checkpoint  *Checkpoint
}

// forEach calls f for 0..n-1, behind a progress bar if requested.
func forEach(progress bool, n int, desc string, f func(i int)) error {
	if !progress {
		for i := 0; i < n; i++ {
			f(i)
		}
		return nil
	}
	return tqdm.With(iterators.Interval(0, n), desc, func(v interface{}) (brk bool) {
		f(v.(int))
		return
	})
}

func encodeAll(t *Tokenizer, sentences []string, maxLen int, progress bool) ([]Encoding, error) {
	encs := make([]Encoding, len(sentences))
	err := forEach(progress, len(sentences), "Tokenizing sentences", func(i int) {
		encs[i] = t.Encode(sentences[i], maxLen)
	})
	return encs, err
}

// Run fits the classifier on labeled, reports per-epoch losses on a held-out
// fifth, and predicts a CEFR level for every unlabeled sentence.
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
		log = kitelog.New(ioutil.Discard, "neural")
	}
	out := opts.Out
	if out == nil {
		out = ioutil.Discard
	}

	labels, err := difficulty.EncodeAll(difficulty.Difficulties(labeled))
	if err != nil {
		return nil, err
	}

	var tok *Tokenizer
	var model *nn.Classifier
	err = log.Stage("tokenizer", func() error {
		if opts.Pretrained != nil {
			if err := opts.Pretrained.Validate(); err != nil {
				return err
			}
			tok = opts.Pretrained.Tokenizer
			log.Printf("reusing pretrained tokenizer with %d ids", tok.Size())
			return nil
		}
		var err error
		tok, err = FitTokenizer(difficulty.Sentences(labeled), p.VocabSize, p.HashBuckets, log.Printf)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error preparing tokenizer")
	}

	var examples []nn.Example
	err = log.Stage("encode", func() error {
		encs, err := encodeAll(tok, difficulty.Sentences(labeled), p.MaxLen, opts.Progress)
		if err != nil {
			return err
		}
		examples = make([]nn.Example, len(encs))
		for i, e := range encs {
			examples[i] = nn.Example{InputIDs: e.InputIDs, Mask: e.AttentionMask, Label: labels[i]}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error encoding labeled sentences")
	}

	idx, err := split.TrainTest(len(examples), p.TestSize, p.Seed)
	if err != nil {
		return nil, err
	}
	train := subset(examples, idx.Train)
	val := subset(examples, idx.Test)
	log.Printf("%d training and %d validation sentences", len(train), len(val))

	if opts.Pretrained != nil {
		model = copyClassifier(opts.Pretrained.Model)
		model.Config.Dropout = p.Dropout
	} else {
		model, err = nn.NewClassifier(nn.Config{
			VocabSize:    tok.Size(),
			EmbeddingDim: p.EmbeddingDim,
			HiddenDim:    p.HiddenDim,
			NumLabels:    numLabels,
			Dropout:      p.Dropout,
		}, p.Seed)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{}
	lr := p.learningRate(opts.Pretrained != nil)
	err = log.Stage("train", func() error {
		log.Printf("training for %d epochs with learning rate %v", p.Epochs, lr)
		tl, vl, err := fit(model, train, val, lr, p, opts, out)
		res.TrainLosses, res.ValLosses = tl, vl
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error training")
	}

	err = log.Stage("predict", func() error {
		preds, err := predict(model, tok, unlabeled, p.MaxLen, opts.Progress)
		res.Predictions = preds
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error predicting")
	}

	res.Checkpoint = &Checkpoint{Tokenizer: tok, Model: model}
	return res, nil
}

func subset(examples []nn.Example, idx []int) []nn.Example {
	out := make([]nn.Example, len(idx))
	for i, j := range idx {
		out[i] = examples[j]
	}
	return out
}

func copyClassifier(m *nn.Classifier) *nn.Classifier {
	w := nn.NewWeights(m.Config)
	for i, t := range m.Weights.Tensors() {
		copy(w.Tensors()[i], t)
	}
	return &nn.Classifier{Config: m.Config, Weights: w}
}

// fit trains model one epoch at a time and returns the mean per-batch losses.
func fit(model *nn.Classifier, train, val []nn.Example, lr float64, p Params, opts Options, out io.Writer) ([]float64, []float64, error) {
	sampler := rand.New(rand.NewSource(p.Seed))
	dropout := rand.New(rand.NewSource(p.Seed + 1))
	opt := nn.NewAdamW(lr)
	grads := nn.NewWeights(model.Config)

	var trainLosses, valLosses []float64
	for epoch := 1; epoch <= p.Epochs; epoch++ {
		batches := nn.Batches(train, nn.RandomOrder(sampler, len(train)), p.BatchSize)
		losses := make([]float64, len(batches))
		err := forEach(opts.Progress, len(batches), fmt.Sprintf("Epoch %d training", epoch), func(i int) {
			losses[i] = model.Gradients(batches[i], dropout, grads)
			opt.Step(model.Weights.Tensors(), grads.Tensors())
		})
		if err != nil {
			return nil, nil, err
		}
		trainLoss, err := stats.Mean(losses)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "epoch %d: no training batches", epoch)
		}

		batches = nn.Batches(val, nn.SequentialOrder(len(val)), p.BatchSize)
		losses = make([]float64, len(batches))
		err = forEach(opts.Progress, len(batches), fmt.Sprintf("Epoch %d validation", epoch), func(i int) {
			losses[i] = model.Loss(batches[i])
		})
		if err != nil {
			return nil, nil, err
		}
		valLoss, err := stats.Mean(losses)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "epoch %d: no validation batches", epoch)
		}

		fmt.Fprintf(out, "Epoch %d: Avg Training Loss=%v, Avg Validation Loss=%v\n", epoch, trainLoss, valLoss)
		opts.Events.Epoch(epoch, trainLoss, valLoss)
		trainLosses = append(trainLosses, trainLoss)
		valLosses = append(valLosses, valLoss)
	}
	return trainLosses, valLosses, nil
}

func predict(model *nn.Classifier, tok *Tokenizer, unlabeled []difficulty.UnlabeledSentence, maxLen int, progress bool) ([]difficulty.Prediction, error) {
	encs, err := encodeAll(tok, difficulty.UnlabeledSentences(unlabeled), maxLen, progress)
	if err != nil {
		return nil, err
	}

	classes := make([]int, len(encs))
	err = forEach(progress, len(encs), "Predicting on test data", func(i int) {
		classes[i] = model.Predict(nn.Example{InputIDs: encs[i].InputIDs, Mask: encs[i].AttentionMask})
	})
	if err != nil {
		return nil, err
	}

	preds := make([]difficulty.Prediction, len(unlabeled))
	for i, row := range unlabeled {
		level, err := difficulty.Decode(classes[i])
		if err != nil {
			return nil, err
		}
		preds[i] = difficulty.Prediction{ID: row.ID, Difficulty: level}
	}
	return preds, nil
}
