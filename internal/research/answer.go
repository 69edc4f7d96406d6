package research

import (
	"context"
	"strings"

	applog "github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"go.uber.org/zap"
)

// Answerer writes the user-facing answer from a run's final summary.
type Answerer struct {
	llm    provider.Provider
	logger *zap.Logger
}

func NewAnswerer(llm provider.Provider, logger *zap.Logger) *Answerer {
	logger = applog.OrNop(logger)
	return &Answerer{llm: llm, logger: logger.Named("answerer")}
}

// Answer asks the model to answer topic using finalSummary as its sources.
// If the model fails or returns nothing, finalSummary itself is the answer.
func (a *Answerer) Answer(ctx context.Context, topic, finalSummary string) string {
	ctx, span := tracer.Start(ctx, "research.answer")
	defer span.End()

	out, err := a.llm.Query(ctx, answerPrompt(topic, finalSummary))
	if err != nil {
		recordLLM(ctx, "answer", "error")
		a.logger.Warn("answer failed, using final summary", zap.Error(err))
		return finalSummary
	}
	if strings.TrimSpace(out) == "" {
		recordLLM(ctx, "answer", "empty")
		return finalSummary
	}
	recordLLM(ctx, "answer", "ok")
	return out
}
