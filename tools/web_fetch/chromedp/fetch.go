package chromedp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
)

const searchBox = `input[name="q"]`

// resultLinks collects the hrefs of DuckDuckGo HTML result anchors in page order.
const resultLinks = `Array.from(document.querySelectorAll("a.result__a")).map(a => a.href).filter(h => !!h)`

const bodyText = `document.body ? document.body.innerText : ""`

// Browser launches a headless Chrome per session.
type Browser struct {
	Headless    bool
	UserAgent   string
	SettleDelay time.Duration // wait after search submit and after each navigation
	PageTimeout time.Duration // 0 leaves navigation unbounded
	SearchURL   string
}

// Session is one Chrome process with a single tab.
type Session struct {
	tab         context.Context
	cancel      func()
	closeOnce   sync.Once
	settle      time.Duration
	pageTimeout time.Duration
	searchURL   string
}

// NewSession starts Chrome. The browser outlives ctx's deadline; only Close
// releases it.
func (b *Browser) NewSession(ctx context.Context) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.UserAgent))
	}
	actx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	bctx, cancelBrowser := chromedp.NewContext(actx)
	// first Run launches the browser
	if err := chromedp.Run(bctx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &Session{
		tab: bctx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		settle:      b.SettleDelay,
		pageTimeout: b.PageTimeout,
		searchURL:   b.SearchURL,
	}, nil
}

// Search submits query through the results page's search form.
func (s *Session) Search(ctx context.Context, query string) ([]string, error) {
	rctx, cancel := s.runContext(ctx)
	defer cancel()

	var hrefs []string
	err := chromedp.Run(rctx,
		chromedp.Navigate(s.searchURL),
		chromedp.WaitVisible(searchBox, chromedp.ByQuery),
		chromedp.SendKeys(searchBox, query, chromedp.ByQuery),
		chromedp.Submit(searchBox, chromedp.ByQuery),
		chromedp.Sleep(s.settle),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(resultLinks, &hrefs),
	)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return hrefs, nil
}

// Fetch navigates the tab to url and reads the title and body innerText.
func (s *Session) Fetch(ctx context.Context, url string) (models.Page, error) {
	if strings.TrimSpace(url) == "" {
		return models.Page{}, models.ErrEmptyURL
	}
	rctx, cancel := s.runContext(ctx)
	defer cancel()
	t0 := time.Now()

	var title, text string
	err := chromedp.Run(rctx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settle),
		chromedp.Title(&title),
		chromedp.Evaluate(bodyText, &text),
	)
	if err != nil {
		return models.Page{URL: url, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}
	return models.Page{
		URL:      url,
		Title:    strings.TrimSpace(title),
		Text:     text,
		Status:   200,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

// Close shuts the tab, the browser and the allocator. Safe to call twice.
func (s *Session) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}

// runContext derives a context from the tab that is also cancelled with the
// caller's ctx and, if configured, after the page timeout.
func (s *Session) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithCancel(s.tab)
	stop := context.AfterFunc(ctx, cancel)
	if s.pageTimeout > 0 {
		tctx, tcancel := context.WithTimeout(rctx, s.pageTimeout)
		return tctx, func() {
			tcancel()
			stop()
			cancel()
		}
	}
	return rctx, func() {
		stop()
		cancel()
	}
}
