package kitelog

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"
)

type duration struct {
	name     string
	duration time.Duration
}

// Durations tracks durations
type Durations []duration

// Record records a duration
func (t *Durations) Record(name string, d time.Duration) {
	*t = append(*t, duration{name, d})
}

// Total is the sum of all recorded durations
func (t Durations) Total() time.Duration {
	var total time.Duration
	for _, d := range t {
		total += d.duration
	}
	return total
}

// Flush writes the recorded durations as an aligned table to i and resets them
func (t *Durations) Flush(i Interface) {
	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 4, 4, 0, ' ', 0)
	for _, entry := range *t {
		fmt.Fprintf(tw, "   %s\t%s\n", entry.name, entry.duration)
	}
	fmt.Fprintf(tw, "   %s\t%s\n", "total", t.Total())
	tw.Flush()

	i.Println("stage durations:\n" + b.String())
	*t = nil
}
