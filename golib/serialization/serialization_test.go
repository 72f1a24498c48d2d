package serialization

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hyperparams struct {
	Epochs    int     `json:"epochs" yaml:"epochs"`
	BatchSize int     `json:"batch_size" yaml:"batch_size"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

func TestRoundTripFormats(t *testing.T) {
	dir := t.TempDir()
	want := hyperparams{Epochs: 6, BatchSize: 16, Rate: 2e-5}

	for _, name := range []string{"p.json", "p.gob", "p.yml", "p.yaml", "p.json.gz", "p.gob.gz", "p.yml.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Encode(path, want), name)

		var got hyperparams
		require.NoError(t, Decode(path, &got), name)
		assert.Equal(t, want, got, name)
	}
}

func TestDecodeOverDefaults(t *testing.T) {
	got := hyperparams{Epochs: 6, BatchSize: 16, Rate: 2e-5}
	err := DecodeAs(bytes.NewBufferString("epochs: 2\n"), "params.yml", &got)
	require.NoError(t, err)
	assert.Equal(t, hyperparams{Epochs: 2, BatchSize: 16, Rate: 2e-5}, got)
}

func TestUnknownExtension(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EncodeAs(&buf, "model.bin", hyperparams{}))
	assert.Error(t, DecodeAs(&buf, "model.bin", &hyperparams{}))
}
