package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/pkg/ctxutil"
)

// maxStarLookup caps the ids accepted by one starred lookup.
const maxStarLookup = 100

// ToggleStar stars or unstars a snippet for the caller and returns the ledger count.
func (h *Handler) ToggleStar(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	res, err := h.svc.ToggleStar(ctx, ctxutil.ActorID(ctx), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.StarResponseDTO{SnippetID: id, Starred: res.Starred, Stars: res.Count})
}

// Starred reports which of the comma-separated ids the caller has starred.
func (h *Handler) Starred(c *gin.Context) {
	ctx := c.Request.Context()
	var ids []string
	for _, part := range strings.Split(c.Query("ids"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	if len(ids) > maxStarLookup {
		badRequest(c, "too many ids", nil)
		return
	}
	got, err := h.svc.StarredAmong(ctx, ctxutil.ActorID(ctx), ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.StarredLookupResponseDTO{Starred: got})
}
