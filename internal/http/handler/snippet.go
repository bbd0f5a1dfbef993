package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/enrichment"
	"github.com/Devesh36/CodeBits/internal/search"
	"github.com/Devesh36/CodeBits/internal/service"
	"github.com/Devesh36/CodeBits/internal/share"
	"github.com/Devesh36/CodeBits/pkg/ctxutil"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

const (
	// TimeFormat is the standard format for time serialization.
	TimeFormat = "2006-01-02T15:04:05Z"
)

// SnippetService defines the handler's dependency contract.
type SnippetService interface {
	CreateSnippet(ctx context.Context, actor string, in service.CreateInput) (domain.Snippet, error)
	GetSnippet(ctx context.Context, actor, id string) (domain.Snippet, error)
	ListOwned(ctx context.Context, actor string) ([]domain.Snippet, error)
	ListPublic(ctx context.Context, q service.PublicQuery) ([]domain.Snippet, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Snippet, error)
	DeleteSnippet(ctx context.Context, actor, id string) error
	SetVisibility(ctx context.Context, actor, id string, public bool) (domain.Snippet, error)
	ToggleStar(ctx context.Context, actor, id string) (domain.StarResult, error)
	StarredAmong(ctx context.Context, actor string, ids []string) ([]string, error)
	ShareLink(ctx context.Context, actor, id string, target share.Target) (string, error)
	Analyze(ctx context.Context, body, language string) (enrichment.Result, error)
}

// Handler handles HTTP requests for snippets.
type Handler struct {
	svc SnippetService
}

// NewHandler constructs a Handler with the given SnippetService.
func NewHandler(svc SnippetService) *Handler {
	return &Handler{svc: svc}
}

// Create handles the creation of a new snippet.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.CreateSnippetRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(ctx, "failed to bind JSON: %s", err.Error())
		badRequest(c, "invalid request", err)
		return
	}
	snippet, err := h.svc.CreateSnippet(ctx, ctxutil.ActorID(ctx), service.CreateInput{
		Title:    req.Title,
		Body:     req.Code,
		Language: req.Language,
		Public:   req.IsPublic,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDTO(snippet, false))
}

// Get handles fetching a snippet by ID.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	actor := ctxutil.ActorID(ctx)
	snippet, err := h.svc.GetSnippet(ctx, actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	items := h.withStarred(ctx, actor, []domain.Snippet{snippet})
	c.JSON(http.StatusOK, items[0])
}

// Delete removes the caller's snippet.
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.svc.DeleteSnippet(ctx, ctxutil.ActorID(ctx), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetVisibility switches the caller's snippet between public and private.
func (h *Handler) SetVisibility(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.UpdateVisibilityRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request", err)
		return
	}
	snippet, err := h.svc.SetVisibility(ctx, ctxutil.ActorID(ctx), c.Param("id"), *req.IsPublic)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTO(snippet, false))
}

// ListOwned lists the caller's snippets, public and private.
func (h *Handler) ListOwned(c *gin.Context) {
	ctx := c.Request.Context()
	actor := ctxutil.ActorID(ctx)
	items, err := h.svc.ListOwned(ctx, actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ListSnippetsResponseDTO{
		Limit:   len(items),
		Matched: len(items),
		Items:   h.withStarred(ctx, actor, items),
	})
}

// Discover lists public snippets, most starred first unless order=recent, narrowed by q.
func (h *Handler) Discover(c *gin.Context) {
	ctx := c.Request.Context()
	type queryParams struct {
		Q     string `form:"q"`
		Order string `form:"order"`
		Limit int    `form:"limit,default=50" binding:"gte=1,lte=100"`
	}
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", err)
		return
	}
	order, ok := domain.ParseOrder(q.Order)
	if !ok {
		badRequest(c, "order must be stars or recent", nil)
		return
	}
	items, err := h.svc.ListPublic(ctx, service.PublicQuery{Query: q.Q, Order: order, Limit: q.Limit})
	if err != nil {
		writeError(c, err)
		return
	}
	logger.With(ctx, map[string]any{"count": len(items), "order": order, "q": q.Q}).Debug("public snippets listed")
	c.JSON(http.StatusOK, domain.ListSnippetsResponseDTO{
		Query:   appliedQuery(q.Q),
		Order:   string(order),
		Limit:   q.Limit,
		Matched: len(items),
		Items:   h.withStarred(ctx, ctxutil.ActorID(ctx), items),
	})
}

// Search lists public snippets matching q, newest first.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	type queryParams struct {
		Q     string `form:"q"`
		Limit int    `form:"limit,default=50" binding:"gte=1,lte=100"`
	}
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", err)
		return
	}
	items, err := h.svc.Search(ctx, q.Q, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ListSnippetsResponseDTO{
		Query:   appliedQuery(q.Q),
		Order:   string(domain.OrderRecent),
		Limit:   q.Limit,
		Matched: len(items),
		Items:   h.withStarred(ctx, ctxutil.ActorID(ctx), items),
	})
}

// withStarred converts snippets to DTOs marking those the actor has starred.
// A failed lookup degrades to "not starred" rather than failing the read.
func (h *Handler) withStarred(ctx context.Context, actor string, items []domain.Snippet) []domain.SnippetResponseDTO {
	starred := map[string]bool{}
	if actor != "" && len(items) > 0 {
		ids := make([]string, 0, len(items))
		for _, s := range items {
			ids = append(ids, s.ID)
		}
		got, err := h.svc.StarredAmong(ctx, actor, ids)
		if err != nil {
			logger.Warn(ctx, "starred lookup failed: %v", err)
		}
		for _, id := range got {
			starred[id] = true
		}
	}
	out := make([]domain.SnippetResponseDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toDTO(s, starred[s.ID]))
	}
	return out
}

// appliedQuery is the filter echoed to clients; blank queries filter nothing.
func appliedQuery(q string) string {
	if search.IsBlank(q) {
		return ""
	}
	return q
}

func toDTO(s domain.Snippet, starred bool) domain.SnippetResponseDTO {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.SnippetResponseDTO{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Title:     s.Title,
		Code:      s.Body,
		Language:  s.Language,
		Tags:      tags,
		Summary:   s.Summary,
		IsPublic:  s.Public,
		Stars:     s.Stars,
		Starred:   starred,
		CreatedAt: s.CreatedAt.UTC().Format(TimeFormat),
	}
}
