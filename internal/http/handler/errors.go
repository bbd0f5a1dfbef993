package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/pkg"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// writeError maps domain errors onto HTTP statuses. Unknown errors are logged and hidden.
func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		body := pkg.NewError("bad_request", ve.Message)
		body.Error.Field = ve.Field
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, pkg.NewError("unauthorized", "authentication required"))
	case errors.Is(err, domain.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, pkg.NewError("forbidden", "not allowed"))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, pkg.NewError("not_found", "not found"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn(ctx, "request aborted: %v", err)
		c.JSON(http.StatusRequestTimeout, pkg.NewError("request_cancelled", "request cancelled"))
	default:
		logger.Error(ctx, "request failed: %s", err.Error())
		c.JSON(http.StatusInternalServerError, pkg.NewError("internal_error", "internal server error"))
	}
}

func badRequest(c *gin.Context, message string, err error) {
	body := pkg.NewError("bad_request", message)
	if err != nil {
		body.Error.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
