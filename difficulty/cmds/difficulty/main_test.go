package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/cefr/difficulty"
	"github.com/kiteco/cefr/difficulty/classical"
	"github.com/kiteco/cefr/difficulty/neural"
	"github.com/kiteco/cefr/golib/cmdline"
	"github.com/kiteco/cefr/golib/rundb"
)

const trainCSV = `id,sentence,difficulty
0,Le chat dort.,A1
1,Je mange une pomme.,A1
2,Il fait beau aujourd'hui.,A2
3,Nous sommes allés au cinéma hier soir.,B1
4,"Bien qu'il pleuve, nous sortirons.",B2
5,Nonobstant les réticences la réforme fut promulguée.,C2
`

const unlabeledCSV = `id,sentence
10,Le chien dort.
11,Nous sommes allés au marché.
12,La réforme fut promulguée.
`

func writeData(t *testing.T) (string, string) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	unlabeled := filepath.Join(dir, "unlabeled.csv")
	require.NoError(t, ioutil.WriteFile(train, []byte(trainCSV), 0644))
	require.NoError(t, ioutil.WriteFile(unlabeled, []byte(unlabeledCSV), 0644))
	return train, unlabeled
}

func readPredictions(t *testing.T, path string) []difficulty.Prediction {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var preds []difficulty.Prediction
	buf, err := ioutil.ReadAll(f)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	require.Equal(t, "id,difficulty", lines[0])
	for _, l := range lines[1:] {
		parts := strings.Split(l, ",")
		require.Len(t, parts, 2)
		preds = append(preds, difficulty.Prediction{ID: parts[0], Difficulty: parts[1]})
	}
	return preds
}

func TestTreeCommand(t *testing.T) {
	train, unlabeled := writeData(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "result.csv")
	model := filepath.Join(dir, "tree.json")
	db := filepath.Join(dir, "runs.db")
	events := filepath.Join(dir, "events.jsonl")

	cmd := cmdline.Command{Name: "tree", Args: &treeArgs{}}
	err := cmdline.Dispatch(ioutil.Discard, []string{"tree",
		"--train", train, "--unlabeled", unlabeled, "--out", out,
		"--save-model", model, "--rundb", db, "--events", events, "--class-report",
	}, cmd)
	require.NoError(t, err)

	preds := readPredictions(t, out)
	require.Len(t, preds, 3)
	for i, id := range []string{"10", "11", "12"} {
		assert.Equal(t, id, preds[i].ID)
		_, err := difficulty.Encode(preds[i].Difficulty)
		assert.NoError(t, err)
	}

	_, err = classical.LoadModel(model)
	assert.NoError(t, err)

	buf, err := ioutil.ReadFile(events)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"msg":"evaluation"`)
	assert.Contains(t, string(buf), `"msg":"predictions"`)

	runs := readRuns(t, db)
	require.Len(t, runs, 1)
	assert.Equal(t, "tree", runs[0].Pipeline)
	assert.Equal(t, out, runs[0].Output)
	assert.Equal(t, 3, runs[0].NumPredictions)
}

func TestNeuralCommand(t *testing.T) {
	train, unlabeled := writeData(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "submission.csv")
	config := filepath.Join(dir, "neural.yml")
	model := filepath.Join(dir, "model.gob.gz")
	plot := filepath.Join(dir, "loss.png")
	db := filepath.Join(dir, "runs.db")

	require.NoError(t, ioutil.WriteFile(config, []byte("epochs: 1\nembedding_dim: 8\nhidden_dim: 8\nvocab_size: 60\nhash_buckets: 4\n"), 0644))

	cmd := cmdline.Command{Name: "neural", Args: &neuralArgs{}}
	err := cmdline.Dispatch(ioutil.Discard, []string{"neural",
		"--train", train, "--unlabeled", unlabeled, "--out", out, "--config", config,
		"--epochs", "2", "--save-model", model, "--loss-plot", plot, "--rundb", db, "--no-progress",
	}, cmd)
	require.NoError(t, err)

	preds := readPredictions(t, out)
	require.Len(t, preds, 3)
	assert.Equal(t, "12", preds[2].ID)

	ckpt, err := neural.LoadCheckpoint(model)
	require.NoError(t, err)
	assert.Equal(t, 8, ckpt.Model.Config.EmbeddingDim)

	png, err := ioutil.ReadFile(plot)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	runs := readRuns(t, db)
	require.Len(t, runs, 1)
	r, err := rundb.Open(db)
	require.NoError(t, err)
	defer r.Close()
	metrics, err := r.Metrics(runs[0].ID)
	require.NoError(t, err)
	// two epochs of train_loss and val_loss
	assert.Len(t, metrics, 4)
}

func readRuns(t *testing.T, path string) []rundb.Run {
	db, err := rundb.Open(path)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	return runs
}

func TestNeuralParamsPrecedence(t *testing.T) {
	config := filepath.Join(t.TempDir(), "neural.json")
	require.NoError(t, ioutil.WriteFile(config, []byte(`{"epochs": 3, "batch_size": 4, "seed": 7}`), 0644))

	epochs := 5
	args := &neuralArgs{
		commonArgs: commonArgs{Train: "t.csv", Unlabeled: "u.csv", Out: "o.csv", Config: config},
		Epochs:     &epochs,
	}
	require.NoError(t, args.Validate())

	assert.Equal(t, 5, args.params.Epochs)
	assert.Equal(t, 4, args.params.BatchSize)
	assert.Equal(t, int64(7), args.params.Seed)
	assert.Equal(t, neural.DefaultParams().MaxLen, args.params.MaxLen)
}

func TestTreeParamsPrecedence(t *testing.T) {
	seed := int64(3)
	depth := 4
	args := &treeArgs{
		commonArgs: commonArgs{Train: "t.csv", Unlabeled: "u.csv", Out: "o.csv", Seed: &seed},
		MaxDepth:   &depth,
	}
	require.NoError(t, args.Validate())
	assert.Equal(t, int64(3), args.params.Seed)
	assert.Equal(t, 4, args.params.Tree.MaxDepth)
	assert.Equal(t, 0.2, args.params.TestSize)
}

func TestValidateErrors(t *testing.T) {
	zero := 0
	args := &neuralArgs{
		commonArgs: commonArgs{Train: "t.csv", Unlabeled: "u.csv", Out: "o.csv"},
		Epochs:     &zero,
	}
	assert.Error(t, args.Validate())

	args = &neuralArgs{commonArgs: commonArgs{Unlabeled: "u.csv", Out: "o.csv"}}
	assert.Error(t, args.Validate())

	tree := &treeArgs{commonArgs: commonArgs{Train: "t.csv", Unlabeled: "u.csv", Out: "o.csv", Config: "missing.yml"}}
	assert.Error(t, tree.Validate())
}

func TestDefaultsFromEnvironment(t *testing.T) {
	os.Setenv("CEFR_TRAIN", "s3://bucket/train.csv")
	defer os.Unsetenv("CEFR_TRAIN")
	os.Unsetenv("CEFR_UNLABELED")

	a := defaultCommonArgs("x.csv")
	assert.Equal(t, "s3://bucket/train.csv", a.Train)
	assert.Equal(t, difficulty.DefaultUnlabeledURL, a.Unlabeled)
	assert.Equal(t, "x.csv", a.Out)
}
