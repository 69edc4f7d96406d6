package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/mohammad-safakhou/deepresearch/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleOutput() Output {
	return Output{
		Result: &models.Result{
			RunID: "6f1c1f4e-0000-4000-8000-000000000001",
			Report: models.ResearchReport{
				Topic: "Renewable Energy",
				Sections: []models.ReportSection{{
					Subtopic: "Solar Power",
					Articles: []models.Article{{
						Title:    "Solar | Basics",
						URL:      "https://solar.example",
						Summary:  "Photovoltaic panels convert sunlight.",
						Keywords: []string{"photovoltaic", "panels"},
					}},
				}},
			},
			ScrapedData:  []models.ScrapedItem{{URL: "https://solar.example", Summary: "Photovoltaic panels convert sunlight."}},
			FinalSummary: "Solar is growing.",
		},
		Answer: "Renewable energy is expanding quickly.",
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "md": FormatMarkdown, "json": FormatJSON, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewTextWriter(&buf).Write(sampleOutput())
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	out := buf.String()
	assert.Contains(t, out, `report: topic="Renewable Energy" sections=[ReportSection(subtopic="Solar Power"`)
	assert.Contains(t, out, "URL: https://solar.example\nSummary: Photovoltaic panels convert sunlight.\n")
	assert.True(t, strings.HasSuffix(out, "Final Summary:\n\nRenewable energy is expanding quickly.\n"))
}

func TestTextWriterWithoutAnswerUsesFinalSummary(t *testing.T) {
	o := sampleOutput()
	o.Answer = ""
	var buf bytes.Buffer
	_, err := NewTextWriter(&buf).Write(o)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(buf.String(), "Solar is growing.\n"))
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(sampleOutput())
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Renewable energy is expanding quickly.", got["answer"])
	assert.Equal(t, "Solar is growing.", got["final_summary"])
	report := got["report"].(map[string]any)
	assert.Equal(t, "Renewable Energy", report["topic"])
	assert.Len(t, report["sections"], 1)
}

func TestJSONWriterEmptyRunHasArrays(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewJSONWriter(&buf).Write(Output{Result: &models.Result{Report: models.ResearchReport{Topic: "x"}, FinalSummary: models.NoContentSummary}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"sections": []`)
	assert.Contains(t, buf.String(), `"scraped_data": []`)
	assert.NotContains(t, buf.String(), `"answer"`)
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewYAMLWriter(&buf).Write(sampleOutput())
	require.NoError(t, err)

	var got document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleOutput().Result.Report, got.Report)
	assert.Equal(t, "Renewable energy is expanding quickly.", got.Answer)
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMarkdownWriter(&buf).Write(sampleOutput())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Research: Renewable Energy")
	assert.Contains(t, out, "## Solar Power")
	assert.Contains(t, out, `[Solar \| Basics](https://solar.example)`)
	assert.Contains(t, out, "photovoltaic, panels")
	assert.Contains(t, out, "## Final Summary")
	assert.Contains(t, out, "## Answer")
}

func TestMarkdownWriterNoSections(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMarkdownWriter(&buf).Write(Output{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), models.NoContentSummary)
	assert.NotContains(t, buf.String(), "## Answer")
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML} {
		w, err := NewWriter(f, &buf)
		require.NoError(t, err)
		assert.NotNil(t, w)
	}
	_, err := NewWriter("pdf", &buf)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b`, escapeCell("a |\n b"))
	long := strings.Repeat("x", 100)
	got := escapeCell(long)
	assert.Equal(t, maxCellWidth, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	// wide runes count two columns each
	wide := escapeCell(strings.Repeat("日本", 40))
	assert.LessOrEqual(t, runewidth.StringWidth(wide), maxCellWidth)
	assert.True(t, strings.HasSuffix(wide, "..."))
}
