package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
)

type mockProfileService struct{ p domain.Profile }

func (m *mockProfileService) GetProfile(_ context.Context, actor string) (domain.Profile, error) {
	if actor == "" {
		return domain.Profile{}, domain.ErrNotAuthenticated
	}
	m.p.UserID = actor
	return m.p, nil
}

func (m *mockProfileService) UpdateDisplayName(ctx context.Context, actor, name string) (domain.Profile, error) {
	if len(name) > domain.MaxDisplayNameLength {
		return domain.Profile{}, &domain.ValidationError{Field: "full_name", Message: "Full name too long"}
	}
	m.p.DisplayName = name
	return m.GetProfile(ctx, actor)
}

func TestProfileHandler(t *testing.T) {
	svc := &mockProfileService{p: domain.Profile{Tier: domain.TierPro}}
	h := NewProfileHandler(svc)
	r := newEngine("u1", func(r *gin.Engine) {
		r.GET("/v1/me/profile", h.Get)
		r.PATCH("/v1/me/profile", h.Update)
	})

	w := do(r, http.MethodPatch, "/v1/me/profile", domain.UpdateProfileRequestDTO{FullName: "Ada"})
	var got domain.ProfileResponseDTO
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if w.Code != http.StatusOK || got.FullName != "Ada" || !got.IsPro || got.UserID != "u1" {
		t.Fatalf("unexpected profile %d %+v", w.Code, got)
	}

	anon := newEngine("", func(r *gin.Engine) { r.GET("/v1/me/profile", h.Get) })
	if w = do(anon, http.MethodGet, "/v1/me/profile", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}
