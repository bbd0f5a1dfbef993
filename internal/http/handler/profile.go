package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/pkg/ctxutil"
)

// ProfileService defines the profile handler's dependency contract.
type ProfileService interface {
	GetProfile(ctx context.Context, actor string) (domain.Profile, error)
	UpdateDisplayName(ctx context.Context, actor, name string) (domain.Profile, error)
}

// ProfileHandler serves the caller's profile.
type ProfileHandler struct {
	svc ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.GetProfile(ctx, ctxutil.ActorID(ctx))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileDTO(p))
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.UpdateProfileRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	p, err := h.svc.UpdateDisplayName(ctx, ctxutil.ActorID(ctx), req.FullName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileDTO(p))
}

func profileDTO(p domain.Profile) domain.ProfileResponseDTO {
	return domain.ProfileResponseDTO{UserID: p.UserID, FullName: p.DisplayName, IsPro: p.IsPro()}
}
