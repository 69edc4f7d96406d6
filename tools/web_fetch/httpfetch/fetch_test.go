package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paragraph = strings.Repeat("Photovoltaic panels convert sunlight directly into electricity using semiconductor cells. ", 8)

func articlePage() string {
	return fmt.Sprintf(`<html><head><title>Solar Energy Basics</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h1>Solar Energy Basics</h1><p>%s</p><p>%s</p><p>%s</p></article>
</body></html>`, paragraph, paragraph, paragraph)
}

func TestFetchExtractsTitleAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	sess, err := NewFetcher(srv.Client(), "", "").NewSession(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	page, err := sess.Fetch(context.Background(), srv.URL+"/solar")
	require.NoError(t, err)
	assert.Equal(t, "Solar Energy Basics", page.Title)
	assert.Contains(t, page.Text, "Photovoltaic panels convert sunlight")
	assert.Equal(t, http.StatusOK, page.Status)
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sess, _ := NewFetcher(srv.Client(), "", "").NewSession(context.Background())
	page, err := sess.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, page.Status)
}

func TestFetchEmptyURL(t *testing.T) {
	sess, _ := NewFetcher(nil, "", "").NewSession(context.Background())
	_, err := sess.Fetch(context.Background(), " ")
	assert.True(t, errors.Is(err, models.ErrEmptyURL))
}

func TestSearchUsesResultsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a class="result__a" href="https://one.example">One</a><a class="result__a" href="https://two.example">Two</a>`))
	}))
	defer srv.Close()

	sess, _ := NewFetcher(srv.Client(), "", srv.URL).NewSession(context.Background())
	urls, err := sess.Search(context.Background(), "solar")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, urls)
}
