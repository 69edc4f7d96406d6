// Package httpfetch is a browserless page fetcher: plain HTTP GET plus
// readability extraction. It cannot render JavaScript.
package httpfetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/duckduckgo"
	searchmodels "github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
)

const (
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes     = 5 << 20
)

// Fetcher opens HTTP-backed sessions.
type Fetcher struct {
	client    *http.Client
	userAgent string
	search    *duckduckgo.Search
}

// NewFetcher returns a Fetcher. searchURL is the DuckDuckGo HTML endpoint used
// by Session.Search.
func NewFetcher(client *http.Client, userAgent, searchURL string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	search := duckduckgo.NewSearch(client)
	if searchURL != "" {
		search.Endpoint = searchURL
	}
	return &Fetcher{client: client, userAgent: userAgent, search: search}
}

// Session holds no resources; Close exists to satisfy the session contract.
type Session struct {
	f *Fetcher
}

func (f *Fetcher) NewSession(ctx context.Context) (*Session, error) {
	return &Session{f: f}, nil
}

// Search posts query to the DuckDuckGo HTML endpoint.
func (s *Session) Search(ctx context.Context, query string) ([]string, error) {
	res, err := s.f.search.Discover(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return searchmodels.URLs(res), nil
}

// Fetch downloads rawURL and extracts title and text with readability.
func (s *Session) Fetch(ctx context.Context, rawURL string) (models.Page, error) {
	if strings.TrimSpace(rawURL) == "" {
		return models.Page{}, models.ErrEmptyURL
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return models.Page{}, fmt.Errorf("parse url: %w", err)
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.Page{}, err
	}
	req.Header.Set("User-Agent", s.f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.f.client.Do(req)
	if err != nil {
		return models.Page{URL: rawURL, Status: 599}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return models.Page{URL: rawURL, Status: resp.StatusCode}, fmt.Errorf("fetch %s: http %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.Page{URL: rawURL, Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return models.Page{URL: rawURL, Status: resp.StatusCode}, fmt.Errorf("extract %s: %w", rawURL, err)
	}
	return models.Page{
		URL:      rawURL,
		Title:    strings.TrimSpace(article.Title),
		Text:     article.TextContent,
		Status:   resp.StatusCode,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

func (s *Session) Close() error { return nil }
