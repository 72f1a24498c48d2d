package difficulty

import (
	"bytes"
	"encoding/csv"
	"io"
	"io/ioutil"

	"github.com/gocarina/gocsv"

	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/fileutil"
)

// Default dataset locations.
const (
	DefaultTrainURL     = "https://raw.githubusercontent.com/thebrisly/UNIL_Geneva_DSML/main/data/training_data.csv"
	DefaultUnlabeledURL = "https://raw.githubusercontent.com/thebrisly/UNIL_Geneva_DSML/main/data/unlabelled_test_data.csv"
)

// ErrEmptyDataset is returned when a dataset has a header but no rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// LabeledSentence is a row of the training set. The id column is optional.
type LabeledSentence struct {
	ID         string `csv:"id"`
	Sentence   string `csv:"sentence"`
	Difficulty string `csv:"difficulty"`
}

// UnlabeledSentence is a row of the set to classify.
type UnlabeledSentence struct {
	ID       string `csv:"id"`
	Sentence string `csv:"sentence"`
}

// Prediction is a row of the output file.
type Prediction struct {
	ID         string `csv:"id"`
	Difficulty string `csv:"difficulty"`
}

// checkColumns reads the header of a CSV document and verifies it names every
// required column.
func checkColumns(buf []byte, required ...string) error {
	header, err := csv.NewReader(bytes.NewReader(buf)).Read()
	if err == io.EOF {
		return errors.New("empty csv document")
	}
	if err != nil {
		return errors.Wrapf(err, "error reading csv header")
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, r := range required {
		if !have[r] {
			return errors.Errorf("missing column %q in header %v", r, header)
		}
	}
	return nil
}

func readCSV(r io.Reader, out interface{}, required ...string) error {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "error reading csv")
	}
	// strip a UTF-8 byte order mark
	buf = bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf"))
	if err := checkColumns(buf, required...); err != nil {
		return err
	}
	if err := gocsv.UnmarshalBytes(buf, out); err != nil {
		return errors.Wrapf(err, "error decoding csv rows")
	}
	return nil
}

// ReadLabeled decodes a CSV document with sentence and difficulty columns.
func ReadLabeled(r io.Reader) ([]LabeledSentence, error) {
	var rows []LabeledSentence
	if err := readCSV(r, &rows, "sentence", "difficulty"); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}

// ReadUnlabeled decodes a CSV document with id and sentence columns. An
// unlabeled set may be empty.
func ReadUnlabeled(r io.Reader) ([]UnlabeledSentence, error) {
	var rows []UnlabeledSentence
	if err := readCSV(r, &rows, "id", "sentence"); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadLabeled reads a labeled dataset from a local path, an http(s) URL or an
// s3 URI.
func LoadLabeled(path string) ([]LabeledSentence, error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer r.Close()

	rows, err := ReadLabeled(r)
	return rows, errors.Wrapf(err, "error loading %s", path)
}

// LoadUnlabeled reads an unlabeled dataset from a local path, an http(s) URL
// or an s3 URI.
func LoadUnlabeled(path string) ([]UnlabeledSentence, error) {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer r.Close()

	rows, err := ReadUnlabeled(r)
	return rows, errors.Wrapf(err, "error loading %s", path)
}

// WritePredictions encodes preds as CSV with an "id,difficulty" header.
func WritePredictions(w io.Writer, preds []Prediction) error {
	if len(preds) == 0 {
		// gocsv writes nothing at all for an empty slice
		_, err := io.WriteString(w, "id,difficulty\n")
		return err
	}
	return gocsv.Marshal(&preds, w)
}

// SavePredictions writes preds to a local path or an s3 URI.
func SavePredictions(path string, preds []Prediction) (err error) {
	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", path)
	}
	defer errors.Defer(&err, w.Close)

	return errors.Wrapf(WritePredictions(w, preds), "error writing %s", path)
}

// Sentences returns the sentence column of rows.
func Sentences(rows []LabeledSentence) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Sentence
	}
	return out
}

// Difficulties returns the difficulty column of rows.
func Difficulties(rows []LabeledSentence) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Difficulty
	}
	return out
}

// UnlabeledSentences returns the sentence column of rows.
func UnlabeledSentences(rows []UnlabeledSentence) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Sentence
	}
	return out
}
