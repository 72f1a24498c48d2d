package neural

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiteco/cefr/difficulty"
	"github.com/kiteco/cefr/golib/errors"
)

func smallParams() Params {
	p := DefaultParams()
	p.Epochs = 2
	p.EmbeddingDim = 8
	p.HiddenDim = 8
	p.VocabSize = 100
	p.HashBuckets = 8
	return p
}

func TestRunMinimal(t *testing.T) {
	labeled := []difficulty.LabeledSentence{
		{Sentence: "Bonjour", Difficulty: "A1"},
		{Sentence: "Je suis allé au marché hier", Difficulty: "B1"},
	}
	unlabeled := []difficulty.UnlabeledSentence{{ID: "1", Sentence: "Salut"}}

	var out bytes.Buffer
	res, err := Run(labeled, unlabeled, Options{Params: smallParams(), Out: &out})
	require.NoError(t, err)

	require.Len(t, res.Predictions, 1)
	assert.Equal(t, "1", res.Predictions[0].ID)
	assert.Contains(t, difficulty.Levels, res.Predictions[0].Difficulty)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Epoch 1: Avg Training Loss="))
	assert.Contains(t, lines[1], ", Avg Validation Loss=")
	assert.Len(t, res.TrainLosses, 2)
	assert.Len(t, res.ValLosses, 2)
}

func trainingSet() []difficulty.LabeledSentence {
	easy := []string{"Le chat dort.", "Je mange une pomme.", "Il fait beau.", "Bonjour Marie.", "Le chien court."}
	hard := []string{
		"Nonobstant les réticences institutionnelles, la réforme fut promulguée.",
		"L'épistémologie contemporaine interroge la légitimité des paradigmes.",
		"Les ramifications géopolitiques demeurent particulièrement insaisissables.",
		"Cette ambivalence témoigne d'une profonde inquiétude existentielle.",
		"La jurisprudence afférente reste néanmoins controversée.",
	}
	var rows []difficulty.LabeledSentence
	for i := 0; i < 4; i++ {
		for _, s := range easy {
			rows = append(rows, difficulty.LabeledSentence{Sentence: s, Difficulty: "A1"})
		}
		for _, s := range hard {
			rows = append(rows, difficulty.LabeledSentence{Sentence: s, Difficulty: "C2"})
		}
	}
	return rows
}

func TestRunPreservesOrderAndCount(t *testing.T) {
	unlabeled := []difficulty.UnlabeledSentence{
		{ID: "10", Sentence: "Le chat mange."},
		{ID: "3", Sentence: "La réforme demeure controversée."},
		{ID: "7", Sentence: ""},
	}
	p := smallParams()
	p.Epochs = 3
	res, err := Run(trainingSet(), unlabeled, Options{Params: p})
	require.NoError(t, err)

	require.Len(t, res.Predictions, 3)
	for i, row := range unlabeled {
		assert.Equal(t, row.ID, res.Predictions[i].ID)
		assert.Contains(t, difficulty.Levels, res.Predictions[i].Difficulty)
	}
}

func TestRunLearns(t *testing.T) {
	p := smallParams()
	p.Epochs = 15
	p.EmbeddingDim = 16
	p.HiddenDim = 16
	p.LearningRate = 1e-2
	res, err := Run(trainingSet(), nil, Options{Params: p})
	require.NoError(t, err)

	first, last := res.TrainLosses[0], res.TrainLosses[len(res.TrainLosses)-1]
	assert.True(t, last < first, "training loss went from %v to %v", first, last)
	assert.Empty(t, res.Predictions)
}

func TestRunDeterministic(t *testing.T) {
	unlabeled := []difficulty.UnlabeledSentence{{ID: "1", Sentence: "Le chat court."}}
	a, err := Run(trainingSet(), unlabeled, Options{Params: smallParams()})
	require.NoError(t, err)
	b, err := Run(trainingSet(), unlabeled, Options{Params: smallParams()})
	require.NoError(t, err)

	assert.Equal(t, a.TrainLosses, b.TrainLosses)
	assert.Equal(t, a.ValLosses, b.ValLosses)
	assert.Equal(t, a.Predictions, b.Predictions)
}

func TestRunUnknownLabel(t *testing.T) {
	labeled := []difficulty.LabeledSentence{
		{Sentence: "Bonjour", Difficulty: "A1"},
		{Sentence: "Salut", Difficulty: "Z9"},
	}
	_, err := Run(labeled, nil, Options{Params: smallParams()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, difficulty.ErrUnknownLabel))
}

func TestRunEmpty(t *testing.T) {
	_, err := Run(nil, nil, Options{Params: smallParams()})
	assert.Equal(t, difficulty.ErrEmptyDataset, err)

	_, err = Run([]difficulty.LabeledSentence{{Sentence: "Bonjour", Difficulty: "A1"}}, nil, Options{Params: smallParams()})
	assert.Error(t, err, "a single row cannot be split")
}

func TestRunInvalidParams(t *testing.T) {
	p := smallParams()
	p.MaxLen = 1
	_, err := Run(trainingSet(), nil, Options{Params: p})
	assert.Error(t, err)
}

func TestCheckpointRoundTrip(t *testing.T) {
	unlabeled := []difficulty.UnlabeledSentence{
		{ID: "1", Sentence: "Le chat court."},
		{ID: "2", Sentence: "La légitimité des paradigmes demeure controversée."},
	}
	res, err := Run(trainingSet(), unlabeled, Options{Params: smallParams()})
	require.NoError(t, err)

	for _, name := range []string{"model.json", "model.gob.gz"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, res.Checkpoint.Save(path))

		loaded, err := LoadCheckpoint(path)
		require.NoError(t, err, name)

		preds, err := predict(loaded.Model, loaded.Tokenizer, unlabeled, smallParams().MaxLen, false)
		require.NoError(t, err)
		assert.Equal(t, res.Predictions, preds, name)
	}
}

func TestRunFromPretrained(t *testing.T) {
	res, err := Run(trainingSet(), nil, Options{Params: smallParams()})
	require.NoError(t, err)

	p := smallParams()
	p.Epochs = 1
	again, err := Run(trainingSet(), nil, Options{Params: p, Pretrained: res.Checkpoint})
	require.NoError(t, err)

	// the tokenizer is reused and the pretrained weights are left untouched
	assert.Equal(t, res.Checkpoint.Tokenizer, again.Checkpoint.Tokenizer)
	assert.NotSame(t, res.Checkpoint.Model, again.Checkpoint.Model)
	assert.Equal(t, smallParams().Dropout, again.Checkpoint.Model.Config.Dropout)
}

func TestCheckpointValidate(t *testing.T) {
	res, err := Run(trainingSet(), nil, Options{Params: smallParams()})
	require.NoError(t, err)

	bad := *res.Checkpoint
	bad.Tokenizer = &Tokenizer{Vocab: res.Checkpoint.Tokenizer.Vocab, HashBuckets: 3}
	assert.Error(t, bad.Validate())

	assert.Error(t, (&Checkpoint{}).Validate())
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 2e-5, p.learningRate(true))
	assert.Equal(t, 1e-3, p.learningRate(false))

	p.LearningRate = 0.5
	assert.Equal(t, 0.5, p.learningRate(true))

	p = DefaultParams()
	p.TestSize = 0
	assert.Error(t, p.Validate())
}
