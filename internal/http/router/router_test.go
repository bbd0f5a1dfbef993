package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	h "github.com/Devesh36/CodeBits/internal/http/handler"
	"github.com/Devesh36/CodeBits/internal/repository/fake"
	"github.com/Devesh36/CodeBits/internal/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := fake.NewStore()
	svc := service.NewService(store, store, nil, service.RealClock{})
	return NewRouter(h.NewHandler(svc), h.NewProfileHandler(service.NewProfileService(store)), h.NewHealthHandler(), nil)
}

func TestNewRouter_RegistersAllRoutes(t *testing.T) {
	r := newTestRouter()
	want := map[string]bool{
		"GET /v1/health": false, "GET /v1/livez": false, "GET /v1/readyz": false,
		"POST /v1/snippets": false, "GET /v1/snippets/:id": false, "DELETE /v1/snippets/:id": false,
		"PATCH /v1/snippets/:id/visibility": false, "POST /v1/snippets/:id/star": false,
		"GET /v1/snippets/:id/share": false, "GET /v1/discover": false, "GET /v1/search": false,
		"POST /v1/analyze": false, "GET /v1/me/snippets": false, "GET /v1/me/stars": false,
		"GET /v1/me/profile": false, "PATCH /v1/me/profile": false,
	}
	for _, ri := range r.Routes() {
		key := ri.Method + " " + ri.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		if !found {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestRouter_BasicResponses(t *testing.T) {
	r := newTestRouter()
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/v1/health", http.StatusOK},
		{http.MethodGet, "/v1/livez", http.StatusOK},
		{http.MethodGet, "/v1/readyz", http.StatusOK},
		{http.MethodGet, "/v1/discover", http.StatusOK},
		{http.MethodGet, "/v1/snippets/nope", http.StatusNotFound},
		{http.MethodGet, "/v1/me/snippets", http.StatusUnauthorized},
		{http.MethodPost, "/v1/snippets", http.StatusBadRequest},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("%s %s: want %d, got %d", tt.method, tt.path, tt.want, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: missing X-Request-ID", tt.method, tt.path)
		}
	}
}
