package research

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "deepresearch/research"

var tracer = otel.Tracer(instrumentationName)

var (
	metricsOnce     sync.Once
	pagesTotal      otelmetric.Int64Counter
	llmRequests     otelmetric.Int64Counter
	sectionsTotal   otelmetric.Int64Counter
	runDurationSecs otelmetric.Float64Histogram
)

func initMetrics() {
	meter := otel.Meter(instrumentationName)
	log := zap.L().Named("metrics")
	var err error
	pagesTotal, err = meter.Int64Counter(
		"research_pages_total",
		otelmetric.WithDescription("Result pages visited, by outcome (accepted, rejected, error)"),
	)
	if err != nil {
		log.Warn("research_pages_total", zap.Error(err))
	}
	llmRequests, err = meter.Int64Counter(
		"research_llm_requests_total",
		otelmetric.WithDescription("Language model calls, by purpose and outcome"),
	)
	if err != nil {
		log.Warn("research_llm_requests_total", zap.Error(err))
	}
	sectionsTotal, err = meter.Int64Counter(
		"research_sections_total",
		otelmetric.WithDescription("Report sections built"),
	)
	if err != nil {
		log.Warn("research_sections_total", zap.Error(err))
	}
	runDurationSecs, err = meter.Float64Histogram(
		"research_run_seconds",
		otelmetric.WithDescription("Wall time of complete research runs"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		log.Warn("research_run_seconds", zap.Error(err))
	}
}

func recordPage(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	if pagesTotal != nil {
		pagesTotal.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func recordLLM(ctx context.Context, purpose, outcome string) {
	metricsOnce.Do(initMetrics)
	if llmRequests != nil {
		llmRequests.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("purpose", purpose),
			attribute.String("outcome", outcome),
		))
	}
}

func recordRun(ctx context.Context, sections int, started time.Time, ok bool) {
	metricsOnce.Do(initMetrics)
	if sectionsTotal != nil && sections > 0 {
		sectionsTotal.Add(ctx, int64(sections))
	}
	if runDurationSecs != nil {
		runDurationSecs.Record(ctx, time.Since(started).Seconds(),
			otelmetric.WithAttributes(attribute.Bool("success", ok)))
	}
}
