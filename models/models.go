package models

import (
	"fmt"
	"strings"
)

// NoContentSummary is reported whenever a run or a retrieval produced nothing usable.
const NoContentSummary = "No accessible content found."

// Article is one retrieved page that passed the accessibility filter.
type Article struct {
	Title    string   `json:"title" yaml:"title"`
	URL      string   `json:"url" yaml:"url"`
	Summary  string   `json:"summary" yaml:"summary"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ReportSection groups the articles found for a single subtopic.
type ReportSection struct {
	Subtopic string    `json:"subtopic" yaml:"subtopic"`
	Articles []Article `json:"articles" yaml:"articles"`
}

// ResearchReport is the aggregate produced by one research run.
type ResearchReport struct {
	Topic    string          `json:"topic" yaml:"topic"`
	Sections []ReportSection `json:"sections" yaml:"sections"`
}

// ScrapedItem is the flat url/summary pair kept for every accepted article.
type ScrapedItem struct {
	URL     string `json:"url" yaml:"url"`
	Summary string `json:"summary" yaml:"summary"`
}

// Result is everything a research run hands back to its caller.
type Result struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	Report       ResearchReport `json:"report" yaml:"report"`
	ScrapedData  []ScrapedItem  `json:"scraped_data" yaml:"scraped_data"`
	FinalSummary string         `json:"final_summary" yaml:"final_summary"`
}

// ArticleCount returns the number of articles across all sections.
func (r ResearchReport) ArticleCount() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Articles)
	}
	return n
}

func (a Article) String() string {
	return fmt.Sprintf("Article(title=%q, url=%q, summary=%q, keywords=%q)", a.Title, a.URL, a.Summary, a.Keywords)
}

func (s ReportSection) String() string {
	parts := make([]string, 0, len(s.Articles))
	for _, a := range s.Articles {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("ReportSection(subtopic=%q, articles=[%s])", s.Subtopic, strings.Join(parts, ", "))
}

func (r ResearchReport) String() string {
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		parts = append(parts, s.String())
	}
	return fmt.Sprintf("topic=%q sections=[%s]", r.Topic, strings.Join(parts, ", "))
}
