package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter prints the report representation, every scraped source and the
// final answer, in that order.
type TextWriter struct {
	output io.Writer
}

func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

func (w *TextWriter) Write(out Output) (int, error) {
	var b strings.Builder
	if out.Result != nil {
		fmt.Fprintf(&b, "\nreport: %s\n", out.Result.Report)
		b.WriteString("\nScraped URLs and Summaries:\n\n")
		for _, item := range out.Result.ScrapedData {
			fmt.Fprintf(&b, "URL: %s\n", item.URL)
			fmt.Fprintf(&b, "Summary: %s\n\n", item.Summary)
		}
	}
	b.WriteString("\nFinal Summary:\n\n")
	answer := out.Answer
	if answer == "" && out.Result != nil {
		answer = out.Result.FinalSummary
	}
	b.WriteString(answer)
	b.WriteString("\n")
	return io.WriteString(w.output, b.String())
}
