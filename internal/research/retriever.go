package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/models"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search"
	searchmodels "github.com/mohammad-safakhou/deepresearch/tools/web_search/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const untitled = "Untitled"

// Retriever searches for a query and turns the top result pages into articles.
type Retriever struct {
	browser  web_fetch.Browser
	searcher web_search.WebSearcher // nil searches inside the browser session
	logger   *zap.Logger
}

// NewRetriever returns a Retriever. searcher may be nil.
func NewRetriever(browser web_fetch.Browser, searcher web_search.WebSearcher, logger *zap.Logger) *Retriever {
	logger = applog.OrNop(logger)
	return &Retriever{browser: browser, searcher: searcher, logger: logger.Named("retriever")}
}

// Retrieve opens one browser session, visits the first MaxResults search
// results for query and returns the accepted articles with their summaries
// joined by newlines. Search failures are returned; failures on individual
// result pages only skip that page. The session is closed on every path.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.Article, string, error) {
	ctx, span := tracer.Start(ctx, "research.retrieve", trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	sess, err := r.browser.NewSession(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			r.logger.Warn("close browser session", zap.Error(cerr))
		}
	}()

	urls, err := r.search(ctx, sess, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", fmt.Errorf("search %q: %w", query, err)
	}
	urls = topURLs(urls, MaxResults)
	r.logger.Debug("search results", zap.String("query", query), zap.Strings("urls", urls))

	articles := make([]models.Article, 0, len(urls))
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		article, ok := r.visit(ctx, sess, u)
		// a fetch interrupted by cancellation is not a skipped page
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, "", err
		}
		if ok {
			articles = append(articles, article)
		}
	}
	span.SetAttributes(attribute.Int("articles", len(articles)))
	return articles, CombineSummaries(articles), nil
}

func (r *Retriever) search(ctx context.Context, sess web_fetch.Session, query string) ([]string, error) {
	if r.searcher == nil {
		return sess.Search(ctx, query)
	}
	res, err := r.searcher.Discover(ctx, query, MaxResults)
	if err != nil {
		return nil, err
	}
	return searchmodels.URLs(res), nil
}

// visit fetches one result page and builds its article if the page passes
// the accessibility filter.
func (r *Retriever) visit(ctx context.Context, sess web_fetch.Session, url string) (models.Article, bool) {
	page, err := sess.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return models.Article{}, false
		}
		recordPage(ctx, "error")
		r.logger.Warn("skipping page",
			zap.String("url", url),
			zap.Int("status", page.Status),
			zap.Int("render_ms", page.RenderMS),
			zap.Error(err),
		)
		return models.Article{}, false
	}
	text := strings.TrimSpace(page.Text)
	if !IsAccessibleContent(text) {
		recordPage(ctx, "rejected")
		r.logger.Info("skipping inaccessible page",
			zap.String("url", url),
			zap.Int("status", page.Status),
			zap.Int("chars", len(text)),
		)
		return models.Article{}, false
	}
	recordPage(ctx, "accepted")
	r.logger.Debug("accepted page",
		zap.String("url", url),
		zap.Int("status", page.Status),
		zap.Int("render_ms", page.RenderMS),
		zap.Int("chars", len(text)),
	)

	summary := Summarize(text)
	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = untitled
	}
	return models.Article{
		Title:    title,
		URL:      url,
		Summary:  summary,
		Keywords: ExtractKeywords(summary, MaxKeywords),
	}, true
}

// CombineSummaries joins the summaries of the first MaxResults articles with
// newlines, or returns models.NoContentSummary when there are none.
func CombineSummaries(articles []models.Article) string {
	if len(articles) == 0 {
		return models.NoContentSummary
	}
	parts := make([]string, 0, MaxResults)
	for i := 0; i < len(articles) && i < MaxResults; i++ {
		parts = append(parts, articles[i].Summary)
	}
	return strings.Join(parts, "\n")
}

// topURLs keeps the first n non-empty URLs in order.
func topURLs(urls []string, n int) []string {
	out := make([]string, 0, n)
	for _, u := range urls {
		if len(out) == n {
			break
		}
		if strings.TrimSpace(u) == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}
