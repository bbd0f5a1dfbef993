package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/share"
	"github.com/Devesh36/CodeBits/pkg/ctxutil"
)

// Share returns the share URL of a snippet for ?target=, defaulting to a copyable link.
func (h *Handler) Share(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.DefaultQuery("target", share.CopyLink.String())
	target, ok := share.ParseTarget(name)
	if !ok {
		badRequest(c, "unknown share target", nil)
		return
	}
	link, err := h.svc.ShareLink(ctx, ctxutil.ActorID(ctx), c.Param("id"), target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ShareResponseDTO{Target: target.String(), URL: link})
}
