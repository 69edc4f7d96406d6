package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mohammad-safakhou/deepresearch/models"
	"github.com/nao1215/markdown"
)

// maxCellWidth bounds table cells in terminal columns.
const maxCellWidth = 60

// MarkdownWriter renders a research document suitable for sharing.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func (w *MarkdownWriter) Write(out Output) (int, error) {
	md := markdown.NewMarkdown(w.output)
	res := out.Result
	if res == nil {
		res = &models.Result{FinalSummary: models.NoContentSummary}
	}

	md.H1("Research: " + res.Report.Topic)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + res.RunID + "`"},
			{"Sections", strconv.Itoa(len(res.Report.Sections))},
			{"Articles", strconv.Itoa(res.Report.ArticleCount())},
		},
	})
	md.PlainText("")

	w.writeSections(md, res.Report)

	md.H2("Final Summary")
	md.PlainText("")
	md.PlainText(res.FinalSummary)
	md.PlainText("")

	if out.Answer != "" {
		md.H2("Answer")
		md.PlainText("")
		md.PlainText(out.Answer)
		md.PlainText("")
	}
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSections(md *markdown.Markdown, report models.ResearchReport) {
	if len(report.Sections) == 0 {
		md.H2("Sections")
		md.PlainText("")
		md.Note(models.NoContentSummary)
		md.PlainText("")
		return
	}
	for _, s := range report.Sections {
		md.H2(s.Subtopic)
		md.PlainText("")
		rows := make([][]string, len(s.Articles))
		for i, a := range s.Articles {
			rows[i] = []string{
				fmt.Sprintf("[%s](%s)", escapeCell(a.Title), a.URL),
				escapeCell(strings.Join(a.Keywords, ", ")),
			}
		}
		md.Table(markdown.TableSet{Header: []string{"Article", "Keywords"}, Rows: rows})
		md.PlainText("")
		for _, a := range s.Articles {
			md.H3(a.Title)
			md.PlainText("")
			md.PlainText(a.Summary)
			md.PlainText("")
		}
	}
}

// escapeCell flattens s to one line no wider than maxCellWidth and escapes
// pipes so the row stays intact.
func escapeCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = runewidth.Truncate(s, maxCellWidth, "...")
	return strings.ReplaceAll(s, "|", `\|`)
}
