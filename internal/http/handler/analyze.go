package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
)

// Analyze runs enrichment for arbitrary code. On failure it still returns the fallback
// payload (no tags, null summary) with 503 so clients can proceed.
func (h *Handler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.AnalyzeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	res, err := h.svc.Analyze(ctx, req.Code, req.Language)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, domain.AnalyzeResponseDTO{Tags: []string{}, Error: "enrichment unavailable"})
		return
	}
	var summary *string
	if res.Summary != "" {
		summary = &res.Summary
	}
	c.JSON(http.StatusOK, domain.AnalyzeResponseDTO{Tags: res.Tags, Summary: summary})
}
