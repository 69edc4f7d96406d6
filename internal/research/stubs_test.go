package research

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch"
	fetchmodels "github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
	searchmodels "github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
)

// scriptedLLM answers prompts by prefix and records every prompt it saw.
type scriptedLLM struct {
	mu      sync.Mutex
	answers map[string]string // prompt prefix -> answer
	fail    map[string]error  // prompt prefix -> error
	prompts []string
}

func (s *scriptedLLM) Query(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	for prefix, err := range s.fail {
		if strings.HasPrefix(prompt, prefix) {
			return "", err
		}
	}
	for prefix, ans := range s.answers {
		if strings.HasPrefix(prompt, prefix) {
			return ans, nil
		}
	}
	return "", nil
}

var errNavigation = errors.New("net::ERR_TIMED_OUT")

// fakeSession serves canned pages and search results.
type fakeSession struct {
	results   map[string][]string
	searchErr error
	pages     map[string]fetchmodels.Page
	fetchErr  map[string]error
	panicOn   string
	onFetch   func(url string)

	fetched []string
	closed  int
}

func (s *fakeSession) Search(_ context.Context, query string) ([]string, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results[query], nil
}

func (s *fakeSession) Fetch(ctx context.Context, url string) (fetchmodels.Page, error) {
	s.fetched = append(s.fetched, url)
	if url == s.panicOn {
		panic("driver crashed")
	}
	if s.onFetch != nil {
		s.onFetch(url)
		if err := ctx.Err(); err != nil {
			return fetchmodels.Page{URL: url}, err
		}
	}
	if err := s.fetchErr[url]; err != nil {
		return fetchmodels.Page{URL: url}, err
	}
	p, ok := s.pages[url]
	if !ok {
		return fetchmodels.Page{URL: url}, errNavigation
	}
	return p, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

// fakeBrowser hands out the same session every time and counts opens.
type fakeBrowser struct {
	session *fakeSession
	openErr error
	opened  int
}

func (b *fakeBrowser) NewSession(context.Context) (web_fetch.Session, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.opened++
	return b.session, nil
}

type fakeSearcher struct {
	results []searchmodels.Result
	queries []string
	k       int
}

func (f *fakeSearcher) Discover(_ context.Context, q string, k int) ([]searchmodels.Result, error) {
	f.queries = append(f.queries, q)
	f.k = k
	return f.results, nil
}
