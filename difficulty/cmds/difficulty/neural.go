package main

import (
	"os"

	"github.com/kiteco/cefr/difficulty/neural"
	"github.com/kiteco/cefr/golib/cmdline"
	"github.com/kiteco/cefr/golib/cpuinfo"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/fileutil"
	"github.com/kiteco/cefr/golib/plotutil"
)

var neuralCmd = cmdline.Command{
	Name:     "neural",
	Synopsis: "train the subword classifier and predict a level per sentence",
	Args: &neuralArgs{
		commonArgs: defaultCommonArgs("submission.csv"),
	},
}

type neuralArgs struct {
	commonArgs

	Epochs     *int     `help:"number of training epochs"`
	BatchSize  *int     `arg:"--batch-size" help:"sentences per batch"`
	MaxLen     *int     `arg:"--max-len" help:"token ids per sentence, boundary tokens included"`
	LR         *float64 `arg:"--lr" help:"learning rate"`
	Pretrained string   `help:"checkpoint to start from instead of fitting a new tokenizer"`
	LossPlot   string   `arg:"--loss-plot" help:"write the loss curves as a PNG"`
	NoProgress bool     `arg:"--no-progress" help:"hide progress bars"`

	params neural.Params `arg:"-"`
}

// Validate resolves the parameters: defaults, then --config, then flags.
func (args *neuralArgs) Validate() error {
	if err := args.commonArgs.validate(); err != nil {
		return err
	}
	p := neural.DefaultParams()
	if err := args.decodeConfig(&p); err != nil {
		return err
	}
	if args.Seed != nil {
		p.Seed = *args.Seed
	}
	if args.Epochs != nil {
		p.Epochs = *args.Epochs
	}
	if args.BatchSize != nil {
		p.BatchSize = *args.BatchSize
	}
	if args.MaxLen != nil {
		p.MaxLen = *args.MaxLen
	}
	if args.LR != nil {
		p.LearningRate = *args.LR
	}
	if err := p.Validate(); err != nil {
		return err
	}
	args.params = p
	return nil
}

func (args *neuralArgs) Handle() (err error) {
	s, err := newSession(&args.commonArgs, "neural", args.params)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, s.Close)

	s.log.Printf("running on %s", cpuinfo.Get())

	var pretrained *neural.Checkpoint
	if args.Pretrained != "" {
		if pretrained, err = neural.LoadCheckpoint(args.Pretrained); err != nil {
			return err
		}
	}

	labeled, unlabeled, err := s.load()
	if err != nil {
		return err
	}

	res, err := neural.Run(labeled, unlabeled, neural.Options{
		Params:     args.params,
		Pretrained: pretrained,
		Out:        os.Stdout,
		Logger:     s.log,
		Events:     s.events,
		Progress:   !args.NoProgress,
	})
	if err != nil {
		return err
	}

	for i := range res.TrainLosses {
		if err := s.metric("train_loss", i+1, res.TrainLosses[i]); err != nil {
			return err
		}
		if err := s.metric("val_loss", i+1, res.ValLosses[i]); err != nil {
			return err
		}
	}

	if args.LossPlot != "" {
		if err := writeLossPlot(args.LossPlot, res); err != nil {
			return err
		}
	}
	if args.SaveModel != "" {
		if err := res.Checkpoint.Save(args.SaveModel); err != nil {
			return err
		}
	}
	return s.write(res.Predictions)
}

func writeLossPlot(path string, res *neural.Result) (err error) {
	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.Wrapf(err, "error creating loss plot")
	}
	defer errors.Defer(&err, w.Close)

	return plotutil.WriteLossPNG(w, "loss per epoch",
		plotutil.Curve{Name: "training", Values: res.TrainLosses},
		plotutil.Curve{Name: "validation", Values: res.ValLosses},
	)
}
