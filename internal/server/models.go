package server

import "github.com/mohammad-safakhou/deepresearch/models"

type ResearchRequest struct {
	Topic      string `json:"topic"`
	SkipAnswer bool   `json:"skip_answer"`
}

type ResearchResponse struct {
	RunID        string                `json:"run_id"`
	Report       models.ResearchReport `json:"report"`
	ScrapedData  []models.ScrapedItem  `json:"scraped_data"`
	FinalSummary string                `json:"final_summary"`
	Answer       string                `json:"answer,omitempty"`
}

type HTTPError struct {
	Error string `json:"error"`
}
