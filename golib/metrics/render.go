package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Namer maps a class index to a display name.
type Namer func(class int) string

// IndexNamer displays classes as their index.
func IndexNamer(class int) string {
	return strconv.Itoa(class)
}

// SliceNamer displays class i as names[i], falling back to the index.
func SliceNamer(names []string) Namer {
	return func(class int) string {
		if class >= 0 && class < len(names) {
			return names[class]
		}
		return IndexNamer(class)
	}
}

// WriteSummary prints the macro scores, the accuracy and the confusion matrix.
func (r Report) WriteSummary(w io.Writer, name Namer) {
	fmt.Fprintf(w, "Precision: %v\n", r.Precision)
	fmt.Fprintf(w, "Recall: %v\n", r.Recall)
	fmt.Fprintf(w, "F1-score: %v\n", r.F1)
	fmt.Fprintf(w, "Accuracy: %v\n", r.Accuracy)
	fmt.Fprintln(w, "Confusion Matrix:")
	r.WriteConfusion(w, name)
}

// WriteConfusion renders the confusion matrix with true classes as rows.
func (r Report) WriteConfusion(w io.Writer, name Namer) {
	if name == nil {
		name = IndexNamer
	}
	table := tablewriter.NewWriter(w)
	header := []string{"true \\ pred"}
	for _, c := range r.Classes {
		header = append(header, name(c))
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i, c := range r.Classes {
		row := []string{name(c)}
		for _, n := range r.Confusion[i] {
			row = append(row, strconv.Itoa(n))
		}
		table.Append(row)
	}
	table.Render()
}

// WriteClassReport renders the per-class scores.
func (r Report) WriteClassReport(w io.Writer, name Namer) {
	if name == nil {
		name = IndexNamer
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"class", "precision", "recall", "f1-score", "support"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var support int
	for _, s := range r.PerClass {
		table.Append([]string{
			name(s.Class),
			fmt.Sprintf("%.2f", s.Precision),
			fmt.Sprintf("%.2f", s.Recall),
			fmt.Sprintf("%.2f", s.F1),
			strconv.Itoa(s.Support),
		})
		support += s.Support
	}
	table.SetFooter([]string{
		"macro avg",
		fmt.Sprintf("%.2f", r.Precision),
		fmt.Sprintf("%.2f", r.Recall),
		fmt.Sprintf("%.2f", r.F1),
		strconv.Itoa(support),
	})
	table.Render()
}
