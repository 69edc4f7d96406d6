package research

import (
	"context"
	"regexp"
	"strings"

	applog "github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// enumerationPrefix matches list markers such as "1. ", "- ", "2) ".
// Digits and spaces are matched in any script.
var enumerationPrefix = regexp.MustCompile(`^[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*[\p{Nd}\-.)]*[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*`)

// Decomposer asks the language model to split a topic into subtopics.
type Decomposer struct {
	llm    provider.Provider
	logger *zap.Logger
}

func NewDecomposer(llm provider.Provider, logger *zap.Logger) *Decomposer {
	logger = applog.OrNop(logger)
	return &Decomposer{llm: llm, logger: logger.Named("decomposer")}
}

// Decompose returns the model's subtopics for topic in the order given. Model
// failures and empty answers yield an empty list. The result is not capped.
func (d *Decomposer) Decompose(ctx context.Context, topic string) []string {
	ctx, span := tracer.Start(ctx, "research.decompose", trace.WithAttributes(attribute.String("topic", topic)))
	defer span.End()

	out, err := d.llm.Query(ctx, decomposePrompt(topic))
	if err != nil {
		recordLLM(ctx, "decompose", "error")
		d.logger.Warn("subtopic query failed", zap.String("topic", topic), zap.Error(err))
		return []string{}
	}
	if strings.TrimSpace(out) == "" {
		recordLLM(ctx, "decompose", "empty")
		d.logger.Warn("subtopic query returned nothing", zap.String("topic", topic))
		return []string{}
	}
	recordLLM(ctx, "decompose", "ok")
	subtopics := ParseSubtopics(out)
	span.SetAttributes(attribute.Int("subtopics", len(subtopics)))
	d.logger.Debug("decomposed topic", zap.String("topic", topic), zap.Strings("subtopics", subtopics))
	return subtopics
}

// ParseSubtopics splits a model answer into one entry per non-blank line,
// with any leading enumeration marker removed.
func ParseSubtopics(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, enumerationPrefix.ReplaceAllString(line, ""))
	}
	return out
}
