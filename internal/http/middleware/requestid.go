// Package middleware provides HTTP middleware functions.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Devesh36/CodeBits/pkg/ctxutil"
)

const (
	headerRequestID = "X-Request-ID"
	headerClientID  = "X-Client-ID"

	// maxIDLength bounds caller-supplied ids; longer values are replaced.
	maxIDLength = 128
)

// RequestIDMiddleware sets a request id and client id in the context for each request,
// reusing the caller's headers when they are usable.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := headerOrNew(c, headerRequestID)
		clientID := headerOrNew(c, headerClientID)
		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientID(ctx, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)
		c.Header(headerClientID, clientID)
		c.Next()
	}
}

func headerOrNew(c *gin.Context, name string) string {
	v := strings.TrimSpace(c.GetHeader(name))
	if v == "" || len(v) > maxIDLength {
		return uuid.New().String()
	}
	return v
}
