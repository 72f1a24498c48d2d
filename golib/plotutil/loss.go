// Package plotutil renders training curves as PNG images.
package plotutil

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart"

	"github.com/kiteco/cefr/golib/errors"
)

// Curve is a named sequence of per-epoch values.
type Curve struct {
	Name   string
	Values []float64
}

// WriteLossPNG plots each curve against the epoch number (starting at 1).
func WriteLossPNG(w io.Writer, title string, curves ...Curve) error {
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range curves {
		if len(c.Values) == 0 {
			continue
		}
		xs := make([]float64, len(c.Values))
		for e := range xs {
			xs[e] = float64(e + 1)
		}
		ys := c.Values
		for _, y := range ys {
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
		if len(ys) == 1 {
			// a line needs two points
			xs = append(xs, xs[0]+1)
			ys = append([]float64{ys[0]}, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		})
	}
	if len(series) == 0 {
		return errors.New("no values to plot")
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "Loss",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		Series: series,
	}
	if lo == hi {
		// flat curves would leave the y axis with an empty range
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrapf(err, "error rendering %s", title)
	}
	return nil
}
