package kitelog

import (
	"fmt"
	"io"
	"log"
	"time"
)

var flags = log.LstdFlags | log.Lmicroseconds

// Logger prefixes every line with the pipeline name and keeps track of how
// long each stage of a run took.
type Logger struct {
	Default   *log.Logger
	Durations Durations
}

// New returns a Logger writing to w, with lines prefixed by "[pipeline=name] ".
func New(w io.Writer, pipeline string) *Logger {
	return &Logger{
		Default: log.New(w, fmt.Sprintf("[pipeline=%s] ", pipeline), flags),
	}
}

// Interface encapsulates the relevant methods of log.Logger
type Interface interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Printf implements Interface
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// Println implements Interface
func (l *Logger) Println(v ...interface{}) {
	l.Default.Output(2, fmt.Sprintln(v...))
}

// Stage runs f, records its duration under name and returns its error.
func (l *Logger) Stage(name string, f func() error) error {
	start := time.Now()
	err := f()
	l.Durations.Record(name, time.Since(start))
	if err != nil {
		l.Printf("%s failed after %s: %v", name, time.Since(start), err)
	}
	return err
}
