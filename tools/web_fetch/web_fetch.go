package web_fetch

import (
	"context"
	"errors"
	"net/http"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/httpfetch"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
)

// Session is one open browser. Callers must Close it.
type Session interface {
	// Search runs query on the configured results page and returns the
	// result URLs in ranking order.
	Search(ctx context.Context, query string) ([]string, error)
	// Fetch navigates to url and returns its title and visible text.
	Fetch(ctx context.Context, url string) (models.Page, error)
	Close() error
}

// Browser opens sessions.
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
}

type FetcherType string

const (
	ChromedpFetcherType FetcherType = "chromedp"
	HTTPFetcherType     FetcherType = "http"
)

var ErrUnsupportedFetcher = errors.New("unsupported fetcher type")

// NewBrowser builds the Browser selected by cfg.Type.
func NewBrowser(cfg config.BrowserConfig) (Browser, error) {
	cfg = cfg.Normalize()
	switch FetcherType(cfg.Type) {
	case ChromedpFetcherType:
		return chromedpBrowser{&chromedp.Browser{
			Headless:    cfg.Headless,
			UserAgent:   cfg.UserAgent,
			SettleDelay: cfg.SettleDelay,
			PageTimeout: cfg.PageTimeout,
			SearchURL:   cfg.SearchURL,
		}}, nil
	case HTTPFetcherType:
		return httpBrowser{httpfetch.NewFetcher(&http.Client{Timeout: cfg.PageTimeout}, cfg.UserAgent, cfg.SearchURL)}, nil
	default:
		return nil, ErrUnsupportedFetcher
	}
}

type chromedpBrowser struct{ b *chromedp.Browser }

func (c chromedpBrowser) NewSession(ctx context.Context) (Session, error) {
	s, err := c.b.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type httpBrowser struct{ f *httpfetch.Fetcher }

func (h httpBrowser) NewSession(ctx context.Context) (Session, error) {
	s, err := h.f.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}
