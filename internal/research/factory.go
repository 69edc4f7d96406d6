package research

import (
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/config"
	applog "github.com/mohammad-safakhou/deepresearch/internal/logger"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search"
	"go.uber.org/zap"
)

// Pipeline bundles the components one research run needs.
type Pipeline struct {
	Assembler *Assembler
	Answerer  *Answerer
}

// NewPipeline wires the model client, browser and optional API searcher
// described by cfg.
func NewPipeline(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	logger = applog.OrNop(logger)
	llm, err := provider.NewProvider(cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	browser, err := web_fetch.NewBrowser(cfg.Browser)
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}
	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey())
	if err != nil {
		return nil, fmt.Errorf("search provider %q: %w", cfg.Search.Provider, err)
	}
	return NewPipelineWith(llm, browser, searcher, logger), nil
}

// NewPipelineWith builds a Pipeline from ready-made collaborators.
func NewPipelineWith(llm provider.Provider, browser web_fetch.Browser, searcher web_search.WebSearcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Assembler: NewAssembler(NewDecomposer(llm, logger), NewRetriever(browser, searcher, logger), llm, logger),
		Answerer:  NewAnswerer(llm, logger),
	}
}
