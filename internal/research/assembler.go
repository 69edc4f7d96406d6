package research

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	applog "github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/models"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SubtopicDecomposer splits a topic into subtopics. It never fails; an empty
// list means the model had nothing to offer.
type SubtopicDecomposer interface {
	Decompose(ctx context.Context, topic string) []string
}

// ContentRetriever turns a search query into articles and their combined summary.
type ContentRetriever interface {
	Retrieve(ctx context.Context, query string) ([]models.Article, string, error)
}

// Assembler runs one research pipeline: decompose, retrieve per subtopic,
// then synthesize a final summary.
type Assembler struct {
	decomposer SubtopicDecomposer
	retriever  ContentRetriever
	llm        provider.Provider
	logger     *zap.Logger
}

func NewAssembler(decomposer SubtopicDecomposer, retriever ContentRetriever, llm provider.Provider, logger *zap.Logger) *Assembler {
	logger = applog.OrNop(logger)
	return &Assembler{decomposer: decomposer, retriever: retriever, llm: llm, logger: logger.Named("assembler")}
}

// Assemble researches topic. Subtopics are processed sequentially in the order
// the decomposer returned them; those that yield no articles get no section.
// A retrieval error aborts the run and discards everything gathered so far.
func (a *Assembler) Assemble(ctx context.Context, topic string) (*models.Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "research.assemble", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("topic", topic),
	))
	defer span.End()
	log := a.logger.With(zap.String("run_id", runID))

	subtopics := a.decomposer.Decompose(ctx, topic)
	if len(subtopics) > MaxSubtopics {
		subtopics = subtopics[:MaxSubtopics]
	}
	log.Info("researching", zap.String("topic", topic), zap.Strings("subtopics", subtopics))

	report := models.ResearchReport{Topic: topic, Sections: []models.ReportSection{}}
	scraped := []models.ScrapedItem{}
	for _, sub := range subtopics {
		log.Info("searching subtopic", zap.String("subtopic", sub))
		articles, _, err := a.retriever.Retrieve(ctx, topic+" "+sub)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			recordRun(ctx, 0, started, false)
			return nil, err
		}
		if len(articles) == 0 {
			log.Info("no articles for subtopic", zap.String("subtopic", sub))
			continue
		}
		for _, art := range articles {
			scraped = append(scraped, models.ScrapedItem{URL: art.URL, Summary: art.Summary})
		}
		report.Sections = append(report.Sections, models.ReportSection{Subtopic: sub, Articles: articles})
	}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		recordRun(ctx, 0, started, false)
		return nil, err
	}
	final := a.MergeSummaries(ctx, scraped)
	span.SetAttributes(
		attribute.Int("sections", len(report.Sections)),
		attribute.Int("articles", len(scraped)),
	)
	recordRun(ctx, len(report.Sections), started, true)
	log.Info("research complete",
		zap.Int("sections", len(report.Sections)),
		zap.Int("articles", len(scraped)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return &models.Result{
		RunID:        runID,
		Report:       report,
		ScrapedData:  scraped,
		FinalSummary: final,
	}, nil
}

// MergeSummaries asks the model for a coherent explanation of the first
// MaxResults scraped summaries. Without content, or when the model fails or
// answers with nothing, it returns models.NoContentSummary.
func (a *Assembler) MergeSummaries(ctx context.Context, scraped []models.ScrapedItem) string {
	parts := make([]string, 0, MaxResults)
	for i := 0; i < len(scraped) && i < MaxResults; i++ {
		parts = append(parts, scraped[i].Summary)
	}
	merged := strings.Join(parts, "\n")
	if strings.TrimSpace(merged) == "" {
		return models.NoContentSummary
	}
	out, err := a.llm.Query(ctx, synthesisPrompt(merged))
	if err != nil {
		recordLLM(ctx, "synthesize", "error")
		a.logger.Warn("synthesis failed", zap.Error(err))
		return models.NoContentSummary
	}
	if strings.TrimSpace(out) == "" {
		recordLLM(ctx, "synthesize", "empty")
		return models.NoContentSummary
	}
	recordLLM(ctx, "synthesize", "ok")
	return out
}
