// Package report renders research results for terminals, documents and
// other programs.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/deepresearch/models"
)

// Output is what a completed run shows its user: the pipeline result and
// the model's answer to the original topic.
type Output struct {
	Result *models.Result
	Answer string
}

// Writer renders an Output to its destination and returns the bytes written.
type Writer interface {
	Write(out Output) (int, error)
}

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts the format names plus the "md" and "yml" aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// NewWriter returns the Writer for format writing to w.
func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// document is the serialized shape shared by the JSON and YAML writers.
type document struct {
	RunID        string                `json:"run_id" yaml:"run_id"`
	Report       models.ResearchReport `json:"report" yaml:"report"`
	ScrapedData  []models.ScrapedItem  `json:"scraped_data" yaml:"scraped_data"`
	FinalSummary string                `json:"final_summary" yaml:"final_summary"`
	Answer       string                `json:"answer,omitempty" yaml:"answer,omitempty"`
}

func newDocument(out Output) document {
	d := document{Answer: out.Answer}
	if out.Result != nil {
		d.RunID = out.Result.RunID
		d.Report = out.Result.Report
		d.ScrapedData = out.Result.ScrapedData
		d.FinalSummary = out.Result.FinalSummary
	}
	if d.Report.Sections == nil {
		d.Report.Sections = []models.ReportSection{}
	}
	if d.ScrapedData == nil {
		d.ScrapedData = []models.ScrapedItem{}
	}
	return d
}

// countingWriter tracks bytes for writers whose encoders hide them.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
