package models

import "errors"

// Page is the rendered content of a visited URL.
type Page struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Status   int    `json:"status"`
	RenderMS int    `json:"render_ms"`
}

// ErrEmptyURL is returned when a fetch is attempted without a URL.
var ErrEmptyURL = errors.New("invalid url")
