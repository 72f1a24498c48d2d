// Package rundb records training runs and their metrics in a sqlite database.
package rundb

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/kiteco/cefr/golib/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS run (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pipeline TEXT NOT NULL,
	params TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL DEFAULT 0,
	output TEXT NOT NULL DEFAULT '',
	num_predictions INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS metric (
	run_id INTEGER NOT NULL REFERENCES run(id),
	name TEXT NOT NULL,
	step INTEGER NOT NULL,
	value REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS metric_run_idx ON metric (run_id, name, step);
`

// Run is one invocation of a pipeline. Times are unix seconds.
type Run struct {
	ID             int64  `db:"id"`
	Pipeline       string `db:"pipeline"`
	Params         string `db:"params"`
	StartedAt      int64  `db:"started_at"`
	FinishedAt     int64  `db:"finished_at"`
	Output         string `db:"output"`
	NumPredictions int    `db:"num_predictions"`
}

// Metric is a named value reported by a run. Step is the epoch for per-epoch
// values and 0 otherwise.
type Metric struct {
	RunID int64   `db:"run_id"`
	Name  string  `db:"name"`
	Step  int     `db:"step"`
	Value float64 `db:"value"`
}

// DB wraps the sqlite database. All methods on a nil *DB are no-ops, so callers
// need not check whether recording was requested.
type DB struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening run database %s", path)
	}
	// sqlite serializes writers anyway, and ":memory:" databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "error creating run database schema")
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	return d.db.Close()
}

// StartRun inserts a new run, storing params as JSON, and returns its id.
func (d *DB) StartRun(pipeline string, params interface{}) (int64, error) {
	if d == nil {
		return 0, nil
	}
	buf, err := json.Marshal(params)
	if err != nil {
		return 0, errors.Wrapf(err, "error encoding run params")
	}
	res, err := d.db.Exec(
		"INSERT INTO run (pipeline, params, started_at) VALUES (?, ?, ?)",
		pipeline, string(buf), time.Now().Unix())
	if err != nil {
		return 0, errors.Wrapf(err, "error inserting run")
	}
	return res.LastInsertId()
}

// RecordMetric stores one metric value for a run.
func (d *DB) RecordMetric(runID int64, name string, step int, value float64) error {
	if d == nil {
		return nil
	}
	_, err := d.db.NamedExec(
		"INSERT INTO metric (run_id, name, step, value) VALUES (:run_id, :name, :step, :value)",
		Metric{RunID: runID, Name: name, Step: step, Value: value})
	return errors.Wrapf(err, "error inserting metric %s", name)
}

// FinishRun marks a run as done and records where its predictions went.
func (d *DB) FinishRun(runID int64, output string, numPredictions int) error {
	if d == nil {
		return nil
	}
	_, err := d.db.Exec(
		"UPDATE run SET finished_at = ?, output = ?, num_predictions = ? WHERE id = ?",
		time.Now().Unix(), output, numPredictions, runID)
	return errors.Wrapf(err, "error finishing run %d", runID)
}

// Runs returns all runs, oldest first.
func (d *DB) Runs() ([]Run, error) {
	if d == nil {
		return nil, nil
	}
	var runs []Run
	if err := d.db.Select(&runs, "SELECT * FROM run ORDER BY id"); err != nil {
		return nil, errors.Wrapf(err, "error listing runs")
	}
	return runs, nil
}

// Metrics returns the metrics of a run ordered by name then step.
func (d *DB) Metrics(runID int64) ([]Metric, error) {
	if d == nil {
		return nil, nil
	}
	var metrics []Metric
	err := d.db.Select(&metrics,
		"SELECT run_id, name, step, value FROM metric WHERE run_id = ? ORDER BY name, step", runID)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing metrics of run %d", runID)
	}
	return metrics, nil
}
