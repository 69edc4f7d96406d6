package web_search

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/deepresearch/tools/web_search/brave"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/duckduckgo"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/serper"
)

// WebSearcher returns up to k organic results for q, in ranking order.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	// BrowserProvider searches through the browser session itself; it has no
	// standalone WebSearcher.
	BrowserProvider    Provider = "browser"
	DuckDuckGoProvider Provider = "duckduckgo"
	SerperProvider     Provider = "serper"
	BraveProvider      Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported provider")

// NewWebSearcher builds an API searcher. BrowserProvider yields (nil, nil).
func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case BrowserProvider, "":
		return nil, nil
	case DuckDuckGoProvider:
		return duckduckgo.NewSearch(nil), nil
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
