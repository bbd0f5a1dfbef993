package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/pkg"
	"github.com/Devesh36/CodeBits/pkg/ctxutil"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// TokenValidator turns a bearer token into a user id.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// Authenticate resolves "Authorization: Bearer <token>" into the actor id on the request context.
// Requests without the header continue anonymously; a present but invalid token is rejected
// with 401. A nil validator leaves every request anonymous.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if tokens == nil || header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.NewError("unauthorized", "malformed authorization header"))
			return
		}
		userID, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.NewError("unauthorized", "invalid or expired token"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActorID(c.Request.Context(), userID))
		c.Next()
	}
}
