package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/matching"
)

type ScoreRequest struct {
	Opportunity *matching.Opportunity `json:"opportunity" binding:"required"`
	Profile     *matching.Profile     `json:"profile" binding:"required"`
}

type MatchRequest struct {
	Profile       *matching.Profile      `json:"profile" binding:"required"`
	Opportunities []matching.Opportunity `json:"opportunities" binding:"required"`
	// MinScore drops results below the threshold when set.
	MinScore *int `json:"min_score" binding:"omitempty,min=0,max=100"`
}

type WeightsResponse struct {
	Weights map[string]float64 `json:"weights"`
	Sum     float64            `json:"sum"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type handler struct {
	engine  *matching.Engine
	logger  *zap.Logger
	workers int
	version string
}

func (h *handler) score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequest(c, "invalid score request", err)
		return
	}

	result, err := h.engine.Score(req.Opportunity, req.Profile)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	h.logger.Debug("scored opportunity", append(logger.MatchFields(*result),
		zap.String(logger.FieldRequestID, c.GetString(ctxRequestID)))...)

	SendSuccess(c, http.StatusOK, result, nil)
}

func (h *handler) match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequest(c, "invalid match request", err)
		return
	}

	results, err := h.engine.MatchAllConcurrent(c.Request.Context(), req.Opportunities, req.Profile, h.workers)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	total := len(results)
	if req.MinScore != nil {
		results = matching.FilterByMinScore(results, *req.MinScore)
	}

	h.logger.Debug("matched opportunities",
		zap.String(logger.FieldRequestID, c.GetString(ctxRequestID)),
		zap.String(logger.FieldProfileID, req.Profile.ID),
		zap.Int("total", total),
		zap.Int("returned", len(results)),
	)

	SendSuccess(c, http.StatusOK, results, &Meta{
		Total:    total,
		Returned: len(results),
		MinScore: req.MinScore,
		RunID:    c.GetString(ctxRequestID),
	})
}

func (h *handler) weights(c *gin.Context) {
	w := h.engine.Weights()
	SendSuccess(c, http.StatusOK, WeightsResponse{Weights: w.Map(), Sum: w.Sum()}, nil)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}
