package main

import (
	"os"

	"github.com/kiteco/cefr/difficulty"
	"github.com/kiteco/cefr/golib/envutil"
	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/kitelog"
	"github.com/kiteco/cefr/golib/rundb"
	"github.com/kiteco/cefr/golib/serialization"
)

// commonArgs are the flags shared by both commands.
type commonArgs struct {
	Train     string `help:"labeled CSV: local path, http(s) URL or s3:// URI"`
	Unlabeled string `help:"CSV of sentences to classify"`
	Out       string `help:"where to write the predictions CSV (local path or s3:// URI)"`
	Config    string `help:"yaml or json parameters decoded over the defaults"`
	Seed      *int64 `help:"random seed"`
	SaveModel string `arg:"--save-model" help:"save the fitted model (.json, .gob or .yml, optionally .gz)"`
	Events    string `help:"write a JSON-lines event log"`
	RunDB     string `arg:"--rundb" help:"record the run in this sqlite database"`
}

func defaultCommonArgs(out string) commonArgs {
	return commonArgs{
		Train:     envutil.GetenvDefault("CEFR_TRAIN", difficulty.DefaultTrainURL),
		Unlabeled: envutil.GetenvDefault("CEFR_UNLABELED", difficulty.DefaultUnlabeledURL),
		Out:       out,
	}
}

func (a *commonArgs) validate() error {
	switch {
	case a.Train == "":
		return errors.New("--train is required")
	case a.Unlabeled == "":
		return errors.New("--unlabeled is required")
	case a.Out == "":
		return errors.New("--out is required")
	}
	return nil
}

// decodeConfig decodes the --config file, if any, over params.
func (a *commonArgs) decodeConfig(params interface{}) error {
	if a.Config == "" {
		return nil
	}
	return errors.Wrapf(serialization.Decode(a.Config, params), "error reading config %s", a.Config)
}

// session holds the logging and bookkeeping of one command invocation.
type session struct {
	args   *commonArgs
	log    *kitelog.Logger
	events *kitelog.Events
	db     *rundb.DB
	runID  int64

	eventsFile *os.File
}

func newSession(a *commonArgs, pipeline string, params interface{}) (*session, error) {
	s := &session{
		args: a,
		log:  kitelog.New(os.Stderr, pipeline),
	}
	if a.Events != "" {
		f, err := os.Create(a.Events)
		if err != nil {
			return nil, errors.Wrapf(err, "error creating event log")
		}
		s.eventsFile = f
		s.events = kitelog.NewEvents(f, pipeline)
	}
	if a.RunDB != "" {
		db, err := rundb.Open(a.RunDB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.db = db
		if s.runID, err = db.StartRun(pipeline, params); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) load() ([]difficulty.LabeledSentence, []difficulty.UnlabeledSentence, error) {
	var labeled []difficulty.LabeledSentence
	var unlabeled []difficulty.UnlabeledSentence
	err := s.log.Stage("load", func() error {
		var err error
		if labeled, err = difficulty.LoadLabeled(s.args.Train); err != nil {
			return err
		}
		if unlabeled, err = difficulty.LoadUnlabeled(s.args.Unlabeled); err != nil {
			return err
		}
		s.log.Printf("loaded %d labeled and %d unlabeled sentences", len(labeled), len(unlabeled))
		return nil
	})
	return labeled, unlabeled, err
}

func (s *session) metric(name string, step int, value float64) error {
	return s.db.RecordMetric(s.runID, name, step, value)
}

func (s *session) write(preds []difficulty.Prediction) error {
	return s.log.Stage("write", func() error {
		if err := difficulty.SavePredictions(s.args.Out, preds); err != nil {
			return err
		}
		s.log.Printf("wrote %d predictions to %s", len(preds), s.args.Out)
		s.events.Predictions(len(preds), s.args.Out)
		return s.db.FinishRun(s.runID, s.args.Out, len(preds))
	})
}

// Close flushes the stage durations and closes the event log and run database.
func (s *session) Close() error {
	s.log.Durations.Flush(s.log)
	err := errors.Combine(s.events.Sync(), s.db.Close())
	if s.eventsFile != nil {
		err = errors.Combine(err, s.eventsFile.Close())
	}
	return err
}
