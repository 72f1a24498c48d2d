package kitelog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerPrefixAndStages(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "tree")

	require.NoError(t, l.Stage("fit", func() error { return nil }))
	err := l.Stage("predict", func() error { return fmt.Errorf("boom") })
	assert.Error(t, err)
	require.Len(t, l.Durations, 2)

	l.Durations.Flush(l)
	out := buf.String()
	assert.Contains(t, out, "[pipeline=tree] ")
	assert.Contains(t, out, "predict failed")
	assert.Contains(t, out, "fit")
	assert.Contains(t, out, "total")
	assert.Empty(t, l.Durations)
}

func TestDurationsTotal(t *testing.T) {
	var d Durations
	d.Record("a", time.Second)
	d.Record("b", 2*time.Second)
	assert.Equal(t, 3*time.Second, d.Total())
}

func TestEvents(t *testing.T) {
	var buf bytes.Buffer
	e := NewEvents(&buf, "neural")
	e.Epoch(1, 1.5, 1.7)
	e.Evaluation(0.5, 0.4, 0.45, 0.6)
	require.NoError(t, e.Sync())

	var records []map[string]interface{}
	scanner := bufio.NewScanner(strings.NewReader(buf.String()))
	for scanner.Scan() {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "epoch", records[0]["msg"])
	assert.Equal(t, "neural", records[0]["pipeline"])
	assert.EqualValues(t, 1, records[0]["epoch"])
	assert.EqualValues(t, 1.7, records[0]["val_loss"])
	assert.EqualValues(t, 0.6, records[1]["accuracy"])
}

func TestNilEventsDiscard(t *testing.T) {
	var e *Events
	e.Epoch(1, 0, 0)
	assert.NoError(t, e.Sync())
}
