package openai_provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySendsSystemAndUserMessages(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"1. History\n2. Uses"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{
		APIKey:       "secret",
		BaseURL:      srv.URL + "/v1/",
		Model:        "llama",
		SystemPrompt: "be helpful",
		Temperature:  0.3,
		MaxTokens:    300,
	})
	out, err := c.Query(context.Background(), "split this")
	require.NoError(t, err)
	assert.Equal(t, "1. History\n2. Uses", out)

	assert.Equal(t, "llama", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, Message{Role: "system", Content: "be helpful"}, got.Messages[0])
	assert.Equal(t, Message{Role: "user", Content: "split this"}, got.Messages[1])
}

func TestQueryMissingKey(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Query(context.Background(), "x")
	require.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestQueryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestQueryNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "x")
	require.Error(t, err)
}
