package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/internal/research"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch"
	fetchmodels "github.com/mohammad-safakhou/deepresearch/tools/web_fetch/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cannedLLM struct{}

func (cannedLLM) Query(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "Break down"):
		return "1. Solar", nil
	case strings.HasPrefix(prompt, "Based on"):
		return "merged summary", nil
	case strings.HasPrefix(prompt, "User Query:"):
		return "final answer", nil
	}
	return "", nil
}

type cannedSession struct{}

func (cannedSession) Search(context.Context, string) ([]string, error) {
	return []string{"https://solar.example"}, nil
}

func (cannedSession) Fetch(_ context.Context, url string) (fetchmodels.Page, error) {
	return fetchmodels.Page{URL: url, Title: "Solar", Text: strings.Repeat("sunlight ", 80)}, nil
}

func (cannedSession) Close() error { return nil }

type cannedBrowser struct{}

func (cannedBrowser) NewSession(context.Context) (web_fetch.Session, error) {
	return cannedSession{}, nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("general:\n  env_file: \"\"\n"+body), 0o600))
	return p
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out)
	a.newPipeline = func(*config.Config, *zap.Logger) (*research.Pipeline, error) {
		return research.NewPipelineWith(cannedLLM{}, cannedBrowser{}, nil, zap.NewNop()), nil
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResearchPromptsForTopic(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "Renewable Energy\n", "-c", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, topicPrompt))
	assert.Contains(t, out, `topic="Renewable Energy"`)
	assert.Contains(t, out, "URL: https://solar.example")
	assert.Contains(t, out, "Final Summary:\n\nfinal answer\n")
}

func TestResearchTopicArgumentJSON(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "", "research", "-c", cfg, "--format", "json", "Renewable", "Energy")
	require.NoError(t, err)
	assert.NotContains(t, out, topicPrompt)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "merged summary", doc["final_summary"])
	assert.Equal(t, "final answer", doc["answer"])
}

func TestResearchEmptyTopic(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, "\n", "-c", cfg)
	assert.ErrorIs(t, err, errNoTopic)
}

func TestResearchBadFormat(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, "", "research", "-c", cfg, "--format", "pdf", "x")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	cfg := writeConfig(t, "server:\n  jwt_secret: s3cret\n")
	out, err := run(t, "", "token", "-c", cfg, "--subject", "ops", "--ttl", "1h")
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), &claims, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	cfg := writeConfig(t, "")
	_, err := run(t, "", "token", "-c", cfg)
	assert.Error(t, err)
}

func TestRootAcceptsTopicArgs(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := run(t, "", "-c", cfg, "-f", "yaml", "Renewable", "Energy")
	require.NoError(t, err)
	assert.Contains(t, out, "topic: Renewable Energy")
	assert.Contains(t, out, "answer: final answer")
}
