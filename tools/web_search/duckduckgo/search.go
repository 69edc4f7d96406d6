package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"golang.org/x/net/html"
)

// DefaultEndpoint is DuckDuckGo's JavaScript-free results page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Search scrapes the DuckDuckGo HTML results page.
type Search struct {
	Endpoint string
	client   *http.Client
}

// NewSearch creates a searcher; a nil client gets a 15s timeout.
func NewSearch(client *http.Client) *Search {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Search{Endpoint: DefaultEndpoint, client: client}
}

func (s *Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	if strings.TrimSpace(q) == "" {
		return nil, errors.New("query is empty")
	}
	form := url.Values{}
	form.Set("q", q)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}
	results, err := ParseResults(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// ParseResults extracts `a.result__a` links from a results page, in page
// order. Links without an href are dropped.
func ParseResults(r io.Reader) ([]models.Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []models.Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if href := strings.TrimSpace(attr(n, "href")); href != "" {
				out = append(out, models.Result{Title: strings.TrimSpace(textOf(n)), URL: ResolveRedirect(href)})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

// ResolveRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target>
// redirect links; anything else is returned unchanged.
func ResolveRedirect(href string) string {
	raw := href
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && u.Path == "/l/" {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return raw
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
