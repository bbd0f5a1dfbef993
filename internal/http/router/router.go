// Package router sets up the HTTP routes for the CodeBits API server.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/http/handler"
	"github.com/Devesh36/CodeBits/internal/http/middleware"
	"github.com/Devesh36/CodeBits/pkg"
)

// NewRouter initializes the Gin engine with middleware and all /v1 routes.
// A nil tokens validator serves every request anonymously.
func NewRouter(snippets *handler.Handler, profiles *handler.ProfileHandler, health *handler.HealthHandler, tokens middleware.TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RequestLogger(), middleware.Recovery())

	r.GET(pkg.HealthCheckPath, handler.Health)
	v1 := r.Group(pkg.BasePath)
	v1.GET("/livez", health.Liveness)
	v1.GET("/readyz", health.Readiness)

	api := v1.Group("", middleware.Authenticate(tokens))
	api.POST("/snippets", snippets.Create)
	api.GET("/snippets/:id", snippets.Get)
	api.DELETE("/snippets/:id", snippets.Delete)
	api.PATCH("/snippets/:id/visibility", snippets.SetVisibility)
	api.POST("/snippets/:id/star", snippets.ToggleStar)
	api.GET("/snippets/:id/share", snippets.Share)
	api.GET("/discover", snippets.Discover)
	api.GET("/search", snippets.Search)
	api.POST("/analyze", snippets.Analyze)

	me := api.Group("/me")
	me.GET("/snippets", snippets.ListOwned)
	me.GET("/stars", snippets.Starred)
	me.GET("/profile", profiles.Get)
	me.PATCH("/profile", profiles.Update)
	return r
}
