package server

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ResearchHandler runs the pipeline for API callers.
type ResearchHandler struct {
	Assembler Assembler
	Answerer  Answerer
	Logger    *zap.Logger
	mu        *sync.Mutex
}

func (h *ResearchHandler) Register(g *echo.Group) {
	g.POST("/research", h.research)
}

// research
//
//	@Summary	Run deep research on a topic
//	@Tags		research
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		ResearchRequest	true	"Topic"
//	@Success	200		{object}	ResearchResponse
//	@Failure	400		{object}	HTTPError
//	@Failure	401		{object}	HTTPError
//	@Failure	500		{object}	HTTPError
//	@Router		/api/research [post]
func (h *ResearchHandler) research(c echo.Context) error {
	var req ResearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic required")
	}

	ctx := c.Request().Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.Assembler.Assemble(ctx, topic)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "research failed: "+err.Error())
	}
	resp := ResearchResponse{
		RunID:        res.RunID,
		Report:       res.Report,
		ScrapedData:  res.ScrapedData,
		FinalSummary: res.FinalSummary,
	}
	if !req.SkipAnswer && h.Answerer != nil {
		resp.Answer = h.Answerer.Answer(ctx, topic, res.FinalSummary)
	}
	if sub, ok := SubjectFromContext(ctx); ok {
		h.Logger.Info("research served", zap.String("run_id", res.RunID), zap.String("subject", sub))
	}
	return c.JSON(http.StatusOK, resp)
}
