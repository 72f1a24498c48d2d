package main

import (
	"os"

	"github.com/kiteco/cefr/difficulty/classical"
	"github.com/kiteco/cefr/golib/cmdline"
	"github.com/kiteco/cefr/golib/errors"
)

var treeCmd = cmdline.Command{
	Name:     "tree",
	Synopsis: "train a decision tree on tf-idf features and predict a level per sentence",
	Args: &treeArgs{
		commonArgs: defaultCommonArgs("decision_tree1_result.csv"),
	},
}

type treeArgs struct {
	commonArgs

	MaxDepth    *int `arg:"--max-depth" help:"bound the depth of the tree (0 grows it fully)"`
	ClassReport bool `arg:"--class-report" help:"print per-class scores after the summary"`

	params classical.Params `arg:"-"`
}

// Validate resolves the parameters: defaults, then --config, then flags.
func (args *treeArgs) Validate() error {
	if err := args.commonArgs.validate(); err != nil {
		return err
	}
	p := classical.DefaultParams()
	if err := args.decodeConfig(&p); err != nil {
		return err
	}
	if args.Seed != nil {
		p.Seed = *args.Seed
	}
	if args.MaxDepth != nil {
		p.Tree.MaxDepth = *args.MaxDepth
	}
	if err := p.Validate(); err != nil {
		return err
	}
	args.params = p
	return nil
}

func (args *treeArgs) Handle() (err error) {
	s, err := newSession(&args.commonArgs, "tree", args.params)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, s.Close)

	labeled, unlabeled, err := s.load()
	if err != nil {
		return err
	}

	res, err := classical.Run(labeled, unlabeled, classical.Options{
		Params:      args.params,
		Out:         os.Stdout,
		Logger:      s.log,
		Events:      s.events,
		ClassReport: args.ClassReport,
	})
	if err != nil {
		return err
	}

	r := res.Report
	for _, m := range []struct {
		name  string
		value float64
	}{
		{"precision", r.Precision},
		{"recall", r.Recall},
		{"f1", r.F1},
		{"accuracy", r.Accuracy},
	} {
		if err := s.metric(m.name, 0, m.value); err != nil {
			return err
		}
	}

	if args.SaveModel != "" {
		if err := res.Model.Save(args.SaveModel); err != nil {
			return err
		}
	}
	return s.write(res.Predictions)
}
